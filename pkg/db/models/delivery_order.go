package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// DeliveryOrder records outbound stock leaving a warehouse.
type DeliveryOrder struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReferenceNumber string               `gorm:"column:reference_number;not null;uniqueIndex" json:"reference_number"`
	WarehouseID     uuid.UUID            `gorm:"column:warehouse_id;type:uuid;not null" json:"warehouse_id"`
	Customer        *string              `gorm:"column:customer" json:"customer,omitempty"`
	Status          enums.DeliveryStatus `gorm:"column:status;not null" json:"status"`
	Notes           *string              `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy       uuid.UUID            `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	Items           []DeliveryOrderItem  `gorm:"foreignKey:DeliveryOrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// DeliveryOrderItem is one product line on a delivery order.
type DeliveryOrderItem struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DeliveryOrderID uuid.UUID  `gorm:"column:delivery_order_id;type:uuid;not null;index" json:"delivery_order_id"`
	ProductID       uuid.UUID  `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	LocationID      *uuid.UUID `gorm:"column:location_id;type:uuid" json:"location_id,omitempty"`
	Quantity        int64      `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
