package router

import (
	"context"
	"fmt"
	"time"

	"github.com/stocktrail/stocktrail-backend/internal/analytics/types"
	"github.com/stocktrail/stocktrail-backend/internal/analytics/writer"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox/payloads"
)

type documentCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newDocumentCreatedHandler(w Writer, logg *logger.Logger) Handler {
	return &documentCreatedHandler{writer: w, logg: logg}
}

func (h *documentCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.DocumentCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for document_created")
	}
	fields := map[string]any{
		"event_type":    envelope.EventType,
		"document_id":   event.DocumentID,
		"document_kind": event.DocumentKind,
		"reference":     event.ReferenceNumber,
		"warehouse_id":  event.WarehouseID,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	encoded, err := writer.EncodeJSON(envelope.Payload)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode document payload", err)
		return err
	}

	row := types.StockDocumentRow{
		EventID:         envelope.EventID,
		DocumentID:      event.DocumentID.String(),
		DocumentKind:    string(event.DocumentKind),
		ReferenceNumber: event.ReferenceNumber,
		WarehouseID:     event.WarehouseID.String(),
		LineCount:       int64(event.LineCount),
		CreatedAt:       postedAt(event.CreatedAt, envelope.OccurredAt),
		Payload:         encoded,
	}

	if err := h.writer.InsertDocument(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert document row", err)
		return err
	}

	h.logg.Info(logCtx, "document_created handler inserted row")
	return nil
}

// postedAt prefers the timestamp recorded by the producer and falls back to
// the envelope time.
func postedAt(recorded, fallback time.Time) time.Time {
	if !recorded.IsZero() {
		return recorded.UTC()
	}
	return fallback.UTC()
}
