package router

import (
	"context"
	"fmt"

	"github.com/stocktrail/stocktrail-backend/internal/analytics/types"
	"github.com/stocktrail/stocktrail-backend/internal/analytics/writer"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox/payloads"
)

type movementPostedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newMovementPostedHandler(w Writer, logg *logger.Logger) Handler {
	return &movementPostedHandler{writer: w, logg: logg}
}

func (h *movementPostedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.StockMovementPostedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for stock_movement_posted")
	}
	fields := map[string]any{
		"event_type":    envelope.EventType,
		"ledger_entry":  event.LedgerEntryID,
		"product_id":    event.ProductID,
		"warehouse_id":  event.WarehouseID,
		"movement_type": event.MovementType,
		"quantity":      event.Quantity,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	encoded, err := writer.EncodeJSON(envelope.Payload)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode movement payload", err)
		return err
	}

	row := types.StockMovementRow{
		EventID:       envelope.EventID,
		LedgerEntryID: event.LedgerEntryID.String(),
		ProductID:     event.ProductID.String(),
		WarehouseID:   event.WarehouseID.String(),
		Quantity:      event.Quantity,
		MovementType:  event.MovementType.String(),
		PostedAt:      postedAt(event.PostedAt, envelope.OccurredAt),
		Payload:       encoded,
	}
	if event.LocationID != nil {
		id := event.LocationID.String()
		row.LocationID = &id
	}
	if event.DocumentKind != nil {
		kind := string(*event.DocumentKind)
		row.DocumentKind = &kind
	}
	if event.DocumentID != nil {
		id := event.DocumentID.String()
		row.DocumentID = &id
	}

	if err := h.writer.InsertMovement(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert movement row", err)
		return err
	}

	h.logg.Info(logCtx, "stock_movement_posted handler inserted row")
	return nil
}
