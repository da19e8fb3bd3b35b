package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

// Repository wires together persistence for the four movement document types.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ReferenceExists reports whether a reference number is already taken within
// the given document table.
func (r *Repository) ReferenceExists(ctx context.Context, model any, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(model).
		Where("reference_number = ?", reference).
		Count(&count).
		Error
	return count > 0, err
}

// WarehouseExists reports whether the warehouse row is present.
func (r *Repository) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Warehouse{}).
		Where("id = ?", id).
		Count(&count).
		Error
	return count > 0, err
}

// ProductExists reports whether the product row is present.
func (r *Repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).
		Error
	return count > 0, err
}

// LocationInWarehouse reports whether the location exists and belongs to
// the given warehouse.
func (r *Repository) LocationInWarehouse(ctx context.Context, locationID, warehouseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ? AND warehouse_id = ?", locationID, warehouseID).
		Count(&count).
		Error
	return count > 0, err
}

// AvailableQuantity sums the on-hand quantity for a stock key outside any
// transaction. Used for the delivery fail-fast check; the engine's
// conditional update remains the authority.
func (r *Repository) AvailableQuantity(ctx context.Context, productID, warehouseID uuid.UUID, locationID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.StockBalance{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID)
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	} else {
		q = q.Where("location_id IS NULL")
	}
	var quantity int64
	err := q.Select("COALESCE(SUM(quantity), 0)").Scan(&quantity).Error
	return quantity, err
}

// CreateReceipt inserts the receipt with its lines.
func (r *Repository) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// GetReceipt loads one receipt with its lines.
func (r *Repository) GetReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).Preload("Items").First(&receipt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListReceipts pages receipts newest first.
func (r *Repository) ListReceipts(ctx context.Context, filter ListFilter) ([]models.Receipt, int64, error) {
	var rows []models.Receipt
	total, err := r.listDocuments(ctx, &models.Receipt{}, filter, &rows)
	return rows, total, err
}

// CreateDelivery inserts the delivery order with its lines.
func (r *Repository) CreateDelivery(ctx context.Context, delivery *models.DeliveryOrder) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

// GetDelivery loads one delivery order with its lines.
func (r *Repository) GetDelivery(ctx context.Context, id uuid.UUID) (*models.DeliveryOrder, error) {
	var delivery models.DeliveryOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ListDeliveries pages delivery orders newest first.
func (r *Repository) ListDeliveries(ctx context.Context, filter ListFilter) ([]models.DeliveryOrder, int64, error) {
	var rows []models.DeliveryOrder
	total, err := r.listDocuments(ctx, &models.DeliveryOrder{}, filter, &rows)
	return rows, total, err
}

// CreateAdjustment inserts the adjustment with its lines.
func (r *Repository) CreateAdjustment(ctx context.Context, adjustment *models.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// GetAdjustment loads one adjustment with its lines.
func (r *Repository) GetAdjustment(ctx context.Context, id uuid.UUID) (*models.StockAdjustment, error) {
	var adjustment models.StockAdjustment
	err := r.db.WithContext(ctx).Preload("Items").First(&adjustment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &adjustment, nil
}

// ListAdjustments pages adjustments newest first.
func (r *Repository) ListAdjustments(ctx context.Context, filter ListFilter) ([]models.StockAdjustment, int64, error) {
	var rows []models.StockAdjustment
	total, err := r.listDocuments(ctx, &models.StockAdjustment{}, filter, &rows)
	return rows, total, err
}

// CreateTransfer inserts the transfer with its lines.
func (r *Repository) CreateTransfer(ctx context.Context, transfer *models.StockTransfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// GetTransfer loads one transfer with its lines.
func (r *Repository) GetTransfer(ctx context.Context, id uuid.UUID) (*models.StockTransfer, error) {
	var transfer models.StockTransfer
	err := r.db.WithContext(ctx).Preload("Items").First(&transfer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// ListTransfers pages transfers newest first. The warehouse filter matches
// either end of the transfer.
func (r *Repository) ListTransfers(ctx context.Context, filter ListFilter) ([]models.StockTransfer, int64, error) {
	page := pagination.NormalizePage(filter.Page)
	pageSize := pagination.NormalizePageSize(filter.PageSize)

	q := r.db.WithContext(ctx).Model(&models.StockTransfer{})
	if filter.WarehouseID != nil {
		q = q.Where("source_warehouse_id = ? OR destination_warehouse_id = ?", *filter.WarehouseID, *filter.WarehouseID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockTransfer
	err := q.Session(&gorm.Session{}).Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(pagination.Offset(page, pageSize)).
		Find(&rows).
		Error
	return rows, total, err
}

func (r *Repository) listDocuments(ctx context.Context, model any, filter ListFilter, dest any) (int64, error) {
	page := pagination.NormalizePage(filter.Page)
	pageSize := pagination.NormalizePageSize(filter.PageSize)

	q := r.db.WithContext(ctx).Model(model)
	if filter.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *filter.WarehouseID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}

	err := q.Session(&gorm.Session{}).Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(pagination.Offset(page, pageSize)).
		Find(dest).
		Error
	return total, err
}
