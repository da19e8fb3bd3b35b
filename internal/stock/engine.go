package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox/payloads"
)

// Engine is the sole mutator of stock balances. Every accepted movement
// updates the balance, appends a ledger entry, and queues an outbox event in
// the caller's transaction, so all three commit or roll back together.
type Engine struct {
	repo    Repository
	events  *outbox.Service
	metrics *metrics.StockMetrics
	logg    *logger.Logger
}

// NewEngine builds the movement engine.
func NewEngine(repo Repository, events *outbox.Service, m *metrics.StockMetrics, logg *logger.Logger) *Engine {
	return &Engine{
		repo:    repo,
		events:  events,
		metrics: m,
		logg:    logg,
	}
}

// ApplyMovement validates and applies one movement inside the supplied transaction.
// It returns the appended ledger entry on success. Insufficient stock is
// reported as a typed error carrying the current and requested quantities.
func (e *Engine) ApplyMovement(ctx context.Context, tx *gorm.DB, mv Movement) (*models.LedgerEntry, error) {
	started := time.Now()
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if err := validateMovement(mv); err != nil {
		return nil, err
	}

	if err := e.repo.EnsureBalanceTx(tx, mv.ProductID, mv.WarehouseID, mv.LocationID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure stock balance")
	}

	applied, err := e.repo.AdjustBalanceTx(tx, mv.ProductID, mv.WarehouseID, mv.LocationID, mv.Quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock balance")
	}
	if !applied {
		current, qErr := e.repo.CurrentQuantityTx(tx, mv.ProductID, mv.WarehouseID, mv.LocationID)
		if qErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, qErr, "read stock balance")
		}
		e.metrics.IncInsufficientStock()
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{
				"product_id":   mv.ProductID.String(),
				"warehouse_id": mv.WarehouseID.String(),
				"available":    current,
				"requested":    -mv.Quantity,
			})
	}

	entry := &models.LedgerEntry{
		ID:           uuid.New(),
		ProductID:    mv.ProductID,
		WarehouseID:  mv.WarehouseID,
		LocationID:   mv.LocationID,
		Quantity:     mv.Quantity,
		MovementType: mv.MovementType,
		DocumentKind: mv.DocumentKind,
		DocumentID:   mv.DocumentID,
		PerformedBy:  mv.PerformedBy,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.repo.AppendLedgerTx(tx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
	}

	if e.events != nil {
		event := outbox.DomainEvent{
			EventType:     enums.EventStockMovementPosted,
			AggregateType: enums.AggregateLedgerEntry,
			AggregateID:   entry.ID,
			Actor:         &outbox.ActorRef{UserID: mv.PerformedBy},
			Version:       1,
			Data: payloads.StockMovementPostedEvent{
				LedgerEntryID: entry.ID,
				ProductID:     entry.ProductID,
				WarehouseID:   entry.WarehouseID,
				LocationID:    entry.LocationID,
				Quantity:      entry.Quantity,
				MovementType:  entry.MovementType,
				DocumentKind:  entry.DocumentKind,
				DocumentID:    entry.DocumentID,
				PostedAt:      entry.CreatedAt,
			},
		}
		if err := e.events.Emit(ctx, tx, event); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue stock event")
		}
	}

	e.metrics.IncMovement(entry.MovementType.String())
	e.metrics.ObserveApply(entry.MovementType.String(), time.Since(started))
	return entry, nil
}

func validateMovement(mv Movement) error {
	if mv.Quantity == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "movement quantity cannot be zero")
	}
	if !mv.MovementType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement type %q", mv.MovementType))
	}
	if mv.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if mv.WarehouseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse id is required")
	}
	if mv.PerformedBy == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "performing user is required")
	}
	if (mv.DocumentKind == nil) != (mv.DocumentID == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "document kind and id must be set together")
	}
	if mv.DocumentKind != nil && !mv.DocumentKind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid document kind %q", *mv.DocumentKind))
	}
	return nil
}
