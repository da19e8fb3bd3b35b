package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/stock"
	dbpkg "github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox"
	"github.com/stocktrail/stocktrail-backend/pkg/outbox/payloads"
)

// Service posts movement documents. Each create inserts the document, runs
// every line through the stock engine, and queues the document event in one
// transaction, so a failing line rolls back the whole document.
type Service struct {
	db      *dbpkg.Client
	repo    *Repository
	engine  *stock.Engine
	events  *outbox.Service
	metrics *metrics.StockMetrics
	logg    *logger.Logger
}

// NewService builds the document service.
func NewService(db *dbpkg.Client, repo *Repository, engine *stock.Engine, events *outbox.Service, m *metrics.StockMetrics, logg *logger.Logger) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		engine:  engine,
		events:  events,
		metrics: m,
		logg:    logg,
	}
}

// CreateReceipt posts an inbound receipt and increases stock for every line.
func (s *Service) CreateReceipt(ctx context.Context, input CreateReceiptInput) (*models.Receipt, error) {
	if err := validateDocumentHeader(input.ReferenceNumber, input.WarehouseID, input.CreatedBy); err != nil {
		return nil, err
	}
	if err := validateLines(input.Items); err != nil {
		return nil, err
	}
	if err := s.checkReferencedRows(ctx, input.WarehouseID, input.Items); err != nil {
		return nil, err
	}

	receipt := &models.Receipt{
		ID:              uuid.New(),
		ReferenceNumber: strings.TrimSpace(input.ReferenceNumber),
		WarehouseID:     input.WarehouseID,
		Supplier:        input.Supplier,
		Status:          enums.ReceiptStatusCompleted,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
	}
	for _, line := range input.Items {
		receipt.Items = append(receipt.Items, models.ReceiptItem{
			ID:             uuid.New(),
			ReceiptID:      receipt.ID,
			ProductID:      line.ProductID,
			LocationID:     line.LocationID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := s.guardReference(ctx, txRepo, &models.Receipt{}, receipt.ReferenceNumber); err != nil {
			return err
		}
		if err := txRepo.CreateReceipt(ctx, receipt); err != nil {
			return err
		}
		kind := enums.DocumentKindReceipt
		for _, item := range receipt.Items {
			if _, err := s.engine.ApplyMovement(ctx, tx, stock.Movement{
				ProductID:    item.ProductID,
				WarehouseID:  receipt.WarehouseID,
				LocationID:   item.LocationID,
				Quantity:     item.Quantity,
				MovementType: enums.MovementTypeReceipt,
				DocumentKind: &kind,
				DocumentID:   &receipt.ID,
				PerformedBy:  receipt.CreatedBy,
			}); err != nil {
				return err
			}
		}
		return s.emitDocumentCreated(ctx, tx, kind, receipt.ID, receipt.ReferenceNumber, receipt.WarehouseID, len(receipt.Items), receipt.CreatedBy)
	})
	if err != nil {
		return nil, s.mapCreateError(err, receipt.ReferenceNumber)
	}
	return receipt, nil
}

// CreateDelivery posts an outbound delivery order and decreases stock for
// every line. Any line without enough stock rejects the whole order.
func (s *Service) CreateDelivery(ctx context.Context, input CreateDeliveryInput) (*models.DeliveryOrder, error) {
	if err := validateDocumentHeader(input.ReferenceNumber, input.WarehouseID, input.CreatedBy); err != nil {
		return nil, err
	}
	if err := validateLines(input.Items); err != nil {
		return nil, err
	}
	if err := s.checkReferencedRows(ctx, input.WarehouseID, input.Items); err != nil {
		return nil, err
	}
	// Fail fast on obvious shortfalls before opening the transaction. The
	// engine's conditional update still enforces the floor under
	// concurrency.
	for _, line := range input.Items {
		available, err := s.repo.AvailableQuantity(ctx, line.ProductID, input.WarehouseID, line.LocationID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check available stock")
		}
		if available < line.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product_id":   line.ProductID.String(),
					"warehouse_id": input.WarehouseID.String(),
					"available":    available,
					"requested":    line.Quantity,
				})
		}
	}

	delivery := &models.DeliveryOrder{
		ID:              uuid.New(),
		ReferenceNumber: strings.TrimSpace(input.ReferenceNumber),
		WarehouseID:     input.WarehouseID,
		Customer:        input.Customer,
		Status:          enums.DeliveryStatusShipped,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
	}
	for _, line := range input.Items {
		delivery.Items = append(delivery.Items, models.DeliveryOrderItem{
			ID:              uuid.New(),
			DeliveryOrderID: delivery.ID,
			ProductID:       line.ProductID,
			LocationID:      line.LocationID,
			Quantity:        line.Quantity,
		})
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := s.guardReference(ctx, txRepo, &models.DeliveryOrder{}, delivery.ReferenceNumber); err != nil {
			return err
		}
		if err := txRepo.CreateDelivery(ctx, delivery); err != nil {
			return err
		}
		kind := enums.DocumentKindDelivery
		for _, item := range delivery.Items {
			if _, err := s.engine.ApplyMovement(ctx, tx, stock.Movement{
				ProductID:    item.ProductID,
				WarehouseID:  delivery.WarehouseID,
				LocationID:   item.LocationID,
				Quantity:     -item.Quantity,
				MovementType: enums.MovementTypeDelivery,
				DocumentKind: &kind,
				DocumentID:   &delivery.ID,
				PerformedBy:  delivery.CreatedBy,
			}); err != nil {
				return err
			}
		}
		return s.emitDocumentCreated(ctx, tx, kind, delivery.ID, delivery.ReferenceNumber, delivery.WarehouseID, len(delivery.Items), delivery.CreatedBy)
	})
	if err != nil {
		return nil, s.mapCreateError(err, delivery.ReferenceNumber)
	}
	return delivery, nil
}

// CreateAdjustment posts a manual correction. The direction decides whether
// lines add to or remove from stock.
func (s *Service) CreateAdjustment(ctx context.Context, input CreateAdjustmentInput) (*models.StockAdjustment, error) {
	if err := validateDocumentHeader(input.ReferenceNumber, input.WarehouseID, input.CreatedBy); err != nil {
		return nil, err
	}
	if !input.Direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid adjustment direction %q", input.Direction))
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment reason is required")
	}
	if err := validateLines(input.Items); err != nil {
		return nil, err
	}
	if err := s.checkReferencedRows(ctx, input.WarehouseID, input.Items); err != nil {
		return nil, err
	}

	adjustment := &models.StockAdjustment{
		ID:              uuid.New(),
		ReferenceNumber: strings.TrimSpace(input.ReferenceNumber),
		WarehouseID:     input.WarehouseID,
		Direction:       input.Direction,
		Reason:          strings.TrimSpace(input.Reason),
		Status:          enums.AdjustmentStatusApproved,
		CreatedBy:       input.CreatedBy,
	}
	for _, line := range input.Items {
		adjustment.Items = append(adjustment.Items, models.StockAdjustmentItem{
			ID:           uuid.New(),
			AdjustmentID: adjustment.ID,
			ProductID:    line.ProductID,
			LocationID:   line.LocationID,
			Quantity:     line.Quantity,
		})
	}

	sign := int64(1)
	if input.Direction == enums.AdjustmentDirectionDecrease {
		sign = -1
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := s.guardReference(ctx, txRepo, &models.StockAdjustment{}, adjustment.ReferenceNumber); err != nil {
			return err
		}
		if err := txRepo.CreateAdjustment(ctx, adjustment); err != nil {
			return err
		}
		kind := enums.DocumentKindAdjustment
		for _, item := range adjustment.Items {
			if _, err := s.engine.ApplyMovement(ctx, tx, stock.Movement{
				ProductID:    item.ProductID,
				WarehouseID:  adjustment.WarehouseID,
				LocationID:   item.LocationID,
				Quantity:     sign * item.Quantity,
				MovementType: enums.MovementTypeAdjustment,
				DocumentKind: &kind,
				DocumentID:   &adjustment.ID,
				PerformedBy:  adjustment.CreatedBy,
			}); err != nil {
				return err
			}
		}
		return s.emitDocumentCreated(ctx, tx, kind, adjustment.ID, adjustment.ReferenceNumber, adjustment.WarehouseID, len(adjustment.Items), adjustment.CreatedBy)
	})
	if err != nil {
		return nil, s.mapCreateError(err, adjustment.ReferenceNumber)
	}
	return adjustment, nil
}

// CreateTransfer posts a warehouse-to-warehouse move. Each line leaves the
// source before it arrives at the destination, so a source shortfall rolls
// back the whole transfer.
func (s *Service) CreateTransfer(ctx context.Context, input CreateTransferInput) (*models.StockTransfer, error) {
	if err := validateDocumentHeader(input.ReferenceNumber, input.SourceWarehouseID, input.CreatedBy); err != nil {
		return nil, err
	}
	if input.DestinationWarehouseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination warehouse id is required")
	}
	if input.SourceWarehouseID == input.DestinationWarehouseID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and destination warehouses must differ")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id is required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
	}
	for _, end := range []struct {
		warehouseID uuid.UUID
		locationID  *uuid.UUID
	}{
		{input.SourceWarehouseID, input.SourceLocationID},
		{input.DestinationWarehouseID, input.DestinationLocationID},
	} {
		exists, err := s.repo.WarehouseExists(ctx, end.warehouseID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check warehouse")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		if end.locationID != nil {
			inWarehouse, err := s.repo.LocationInWarehouse(ctx, *end.locationID, end.warehouseID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check location")
			}
			if !inWarehouse {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found in warehouse")
			}
		}
	}
	for _, line := range input.Items {
		exists, err := s.repo.ProductExists(ctx, line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
	}

	transfer := &models.StockTransfer{
		ID:                     uuid.New(),
		ReferenceNumber:        strings.TrimSpace(input.ReferenceNumber),
		SourceWarehouseID:      input.SourceWarehouseID,
		DestinationWarehouseID: input.DestinationWarehouseID,
		SourceLocationID:       input.SourceLocationID,
		DestinationLocationID:  input.DestinationLocationID,
		Status:                 enums.TransferStatusCompleted,
		Notes:                  input.Notes,
		CreatedBy:              input.CreatedBy,
	}
	for _, line := range input.Items {
		transfer.Items = append(transfer.Items, models.StockTransferItem{
			ID:         uuid.New(),
			TransferID: transfer.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
		})
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := s.guardReference(ctx, txRepo, &models.StockTransfer{}, transfer.ReferenceNumber); err != nil {
			return err
		}
		if err := txRepo.CreateTransfer(ctx, transfer); err != nil {
			return err
		}
		kind := enums.DocumentKindTransfer
		for _, item := range transfer.Items {
			if _, err := s.engine.ApplyMovement(ctx, tx, stock.Movement{
				ProductID:    item.ProductID,
				WarehouseID:  transfer.SourceWarehouseID,
				LocationID:   transfer.SourceLocationID,
				Quantity:     -item.Quantity,
				MovementType: enums.MovementTypeTransfer,
				DocumentKind: &kind,
				DocumentID:   &transfer.ID,
				PerformedBy:  transfer.CreatedBy,
			}); err != nil {
				return err
			}
			if _, err := s.engine.ApplyMovement(ctx, tx, stock.Movement{
				ProductID:    item.ProductID,
				WarehouseID:  transfer.DestinationWarehouseID,
				LocationID:   transfer.DestinationLocationID,
				Quantity:     item.Quantity,
				MovementType: enums.MovementTypeTransfer,
				DocumentKind: &kind,
				DocumentID:   &transfer.ID,
				PerformedBy:  transfer.CreatedBy,
			}); err != nil {
				return err
			}
		}
		return s.emitDocumentCreated(ctx, tx, kind, transfer.ID, transfer.ReferenceNumber, transfer.SourceWarehouseID, len(transfer.Items), transfer.CreatedBy)
	})
	if err != nil {
		return nil, s.mapCreateError(err, transfer.ReferenceNumber)
	}
	return transfer, nil
}

// GetReceipt loads one receipt with its lines.
func (s *Service) GetReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	receipt, err := s.repo.GetReceipt(ctx, id)
	return receipt, mapLookupError(err, "receipt")
}

// ListReceipts pages receipts newest first.
func (s *Service) ListReceipts(ctx context.Context, filter ListFilter) ([]models.Receipt, int64, error) {
	return s.repo.ListReceipts(ctx, filter)
}

// GetDelivery loads one delivery order with its lines.
func (s *Service) GetDelivery(ctx context.Context, id uuid.UUID) (*models.DeliveryOrder, error) {
	delivery, err := s.repo.GetDelivery(ctx, id)
	return delivery, mapLookupError(err, "delivery order")
}

// ListDeliveries pages delivery orders newest first.
func (s *Service) ListDeliveries(ctx context.Context, filter ListFilter) ([]models.DeliveryOrder, int64, error) {
	return s.repo.ListDeliveries(ctx, filter)
}

// GetAdjustment loads one adjustment with its lines.
func (s *Service) GetAdjustment(ctx context.Context, id uuid.UUID) (*models.StockAdjustment, error) {
	adjustment, err := s.repo.GetAdjustment(ctx, id)
	return adjustment, mapLookupError(err, "stock adjustment")
}

// ListAdjustments pages adjustments newest first.
func (s *Service) ListAdjustments(ctx context.Context, filter ListFilter) ([]models.StockAdjustment, int64, error) {
	return s.repo.ListAdjustments(ctx, filter)
}

// GetTransfer loads one transfer with its lines.
func (s *Service) GetTransfer(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error) {
	transfer, err := s.repo.GetTransfer(ctx, id)
	return transfer, mapLookupError(err, "stock transfer")
}

// ListTransfers pages transfers newest first.
func (s *Service) ListTransfers(ctx context.Context, filter ListFilter) ([]models.StockTransfer, int64, error) {
	return s.repo.ListTransfers(ctx, filter)
}

// checkReferencedRows verifies the warehouse, products, and locations a
// document points at before anything is written.
func (s *Service) checkReferencedRows(ctx context.Context, warehouseID uuid.UUID, lines []LineInput) error {
	exists, err := s.repo.WarehouseExists(ctx, warehouseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check warehouse")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
	}
	for _, line := range lines {
		productExists, err := s.repo.ProductExists(ctx, line.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
		}
		if !productExists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if line.LocationID != nil {
			inWarehouse, err := s.repo.LocationInWarehouse(ctx, *line.LocationID, warehouseID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check location")
			}
			if !inWarehouse {
				return pkgerrors.New(pkgerrors.CodeNotFound, "location not found in warehouse")
			}
		}
	}
	return nil
}

func (s *Service) guardReference(ctx context.Context, repo *Repository, model any, reference string) error {
	exists, err := repo.ReferenceExists(ctx, model, reference)
	if err != nil {
		return err
	}
	if exists {
		return duplicateReferenceError(reference)
	}
	return nil
}

func (s *Service) emitDocumentCreated(ctx context.Context, tx *gorm.DB, kind enums.DocumentKind, documentID uuid.UUID, reference string, warehouseID uuid.UUID, lineCount int, createdBy uuid.UUID) error {
	if s.events == nil {
		return nil
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventDocumentCreated,
		AggregateType: enums.AggregateStockDocument,
		AggregateID:   documentID,
		Actor:         &outbox.ActorRef{UserID: createdBy},
		Version:       1,
		Data: payloads.DocumentCreatedEvent{
			DocumentID:      documentID,
			DocumentKind:    kind,
			ReferenceNumber: reference,
			WarehouseID:     warehouseID,
			LineCount:       lineCount,
			CreatedAt:       time.Now().UTC(),
		},
	})
}

// mapCreateError converts a lost reference race into the same duplicate
// error the pre-check produces. The unique index is the authority; the
// pre-check only gives callers a cleaner failure in the common case.
func (s *Service) mapCreateError(err error, reference string) error {
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		if typed.Code() == pkgerrors.CodeDuplicateReference {
			s.metrics.IncDuplicateReference()
		}
		return err
	}
	if dbpkg.IsUniqueViolation(err, "") {
		s.metrics.IncDuplicateReference()
		return duplicateReferenceError(reference)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document")
}

func duplicateReferenceError(reference string) error {
	return pkgerrors.New(pkgerrors.CodeDuplicateReference, fmt.Sprintf("reference number %q already exists", reference)).
		WithDetails(map[string]any{"reference_number": reference})
}

func mapLookupError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+what)
}

func validateDocumentHeader(reference string, warehouseID, createdBy uuid.UUID) error {
	if strings.TrimSpace(reference) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reference number is required")
	}
	if warehouseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "warehouse id is required")
	}
	if createdBy == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "creating user is required")
	}
	return nil
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "line product id is required")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line unit price cannot be negative")
		}
	}
	return nil
}
