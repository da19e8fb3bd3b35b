package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// Receipt records inbound stock arriving at a warehouse.
type Receipt struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReferenceNumber string              `gorm:"column:reference_number;not null;uniqueIndex" json:"reference_number"`
	WarehouseID     uuid.UUID           `gorm:"column:warehouse_id;type:uuid;not null" json:"warehouse_id"`
	Supplier        *string             `gorm:"column:supplier" json:"supplier,omitempty"`
	Status          enums.ReceiptStatus `gorm:"column:status;not null" json:"status"`
	Notes           *string             `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy       uuid.UUID           `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	Items           []ReceiptItem       `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ReceiptItem is one product line on a receipt.
type ReceiptItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReceiptID      uuid.UUID  `gorm:"column:receipt_id;type:uuid;not null;index" json:"receipt_id"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	LocationID     *uuid.UUID `gorm:"column:location_id;type:uuid" json:"location_id,omitempty"`
	Quantity       int64      `gorm:"column:quantity;not null" json:"quantity"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null;default:0" json:"unit_price_cents"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
