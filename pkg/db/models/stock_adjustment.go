package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// StockAdjustment records a manual correction to on-hand stock.
type StockAdjustment struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReferenceNumber string                    `gorm:"column:reference_number;not null;uniqueIndex" json:"reference_number"`
	WarehouseID     uuid.UUID                 `gorm:"column:warehouse_id;type:uuid;not null" json:"warehouse_id"`
	Direction       enums.AdjustmentDirection `gorm:"column:direction;not null" json:"direction"`
	Reason          string                    `gorm:"column:reason;not null" json:"reason"`
	Status          enums.AdjustmentStatus    `gorm:"column:status;not null" json:"status"`
	CreatedBy       uuid.UUID                 `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	Items           []StockAdjustmentItem     `gorm:"foreignKey:AdjustmentID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// StockAdjustmentItem is one product line on an adjustment.
type StockAdjustmentItem struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AdjustmentID uuid.UUID  `gorm:"column:adjustment_id;type:uuid;not null;index" json:"adjustment_id"`
	ProductID    uuid.UUID  `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	LocationID   *uuid.UUID `gorm:"column:location_id;type:uuid" json:"location_id,omitempty"`
	Quantity     int64      `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
