package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

// Repository manages persistence for stock balances and ledger entries.
// All write paths require an explicit transaction; the engine is the only
// caller that mutates balances.
type Repository interface {
	EnsureBalanceTx(tx *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID) error
	AdjustBalanceTx(tx *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID, delta int64) (bool, error)
	CurrentQuantityTx(tx *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID) (int64, error)
	AppendLedgerTx(tx *gorm.DB, entry *models.LedgerEntry) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// EnsureBalanceTx lazily creates the zero-quantity balance row for the key.
// The insert relies on the partial unique indexes to no-op on conflict, so
// concurrent first movements for the same key are safe.
func (r *repository) EnsureBalanceTx(tx *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID) error {
	row := models.StockBalance{
		ID:          uuid.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Quantity:    0,
		UpdatedAt:   time.Now().UTC(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// AdjustBalanceTx applies the signed delta with the non-negative floor
// enforced in the same statement. It returns false when the guard rejected
// the update, i.e. the delta would have driven the quantity below zero.
func (r *repository) AdjustBalanceTx(tx *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID, delta int64) (bool, error) {
	q := balanceKeyScope(tx.Model(&models.StockBalance{}), productID, warehouseID, locationID)
	res := q.Where("quantity + ? >= 0", delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CurrentQuantityTx reads the on-hand quantity for the key. A missing row
// reads as zero.
func (r *repository) CurrentQuantityTx(tx *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID) (int64, error) {
	var quantity int64
	q := balanceKeyScope(tx.Model(&models.StockBalance{}), productID, warehouseID, locationID)
	err := q.Select("COALESCE(SUM(quantity), 0)").Scan(&quantity).Error
	return quantity, err
}

// AppendLedgerTx inserts one immutable ledger row.
func (r *repository) AppendLedgerTx(tx *gorm.DB, entry *models.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return tx.Create(entry).Error
}

func balanceKeyScope(q *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID) *gorm.DB {
	q = q.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID)
	if locationID != nil {
		return q.Where("location_id = ?", *locationID)
	}
	return q.Where("location_id IS NULL")
}

// Balance loads the single balance row for the key, if present.
func Balance(ctx context.Context, db *gorm.DB, productID, warehouseID uuid.UUID, locationID *uuid.UUID) (*models.StockBalance, error) {
	var row models.StockBalance
	q := balanceKeyScope(db.WithContext(ctx).Model(&models.StockBalance{}), productID, warehouseID, locationID)
	if err := q.First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
