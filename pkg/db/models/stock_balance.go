package models

import (
	"time"

	"github.com/google/uuid"
)

// StockBalance is the current on-hand quantity for one stock key.
// A NULL location means the quantity is tracked at warehouse level;
// uniqueness over the nullable key is enforced by partial indexes in
// the migrations, not by a tag here.
type StockBalance struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	WarehouseID uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null"`
	LocationID  *uuid.UUID `gorm:"column:location_id;type:uuid"`
	Quantity    int64      `gorm:"column:quantity;not null;default:0"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralisation.
func (StockBalance) TableName() string {
	return "stock_balances"
}
