package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// StockTransfer records stock moving between two warehouses.
type StockTransfer struct {
	ID                     uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReferenceNumber        string               `gorm:"column:reference_number;not null;uniqueIndex" json:"reference_number"`
	SourceWarehouseID      uuid.UUID            `gorm:"column:source_warehouse_id;type:uuid;not null" json:"source_warehouse_id"`
	DestinationWarehouseID uuid.UUID            `gorm:"column:destination_warehouse_id;type:uuid;not null" json:"destination_warehouse_id"`
	SourceLocationID       *uuid.UUID           `gorm:"column:source_location_id;type:uuid" json:"source_location_id,omitempty"`
	DestinationLocationID  *uuid.UUID           `gorm:"column:destination_location_id;type:uuid" json:"destination_location_id,omitempty"`
	Status                 enums.TransferStatus `gorm:"column:status;not null" json:"status"`
	Notes                  *string              `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy              uuid.UUID            `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	Items                  []StockTransferItem  `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt              time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// StockTransferItem is one product line on a transfer.
type StockTransferItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TransferID uuid.UUID `gorm:"column:transfer_id;type:uuid;not null;index" json:"transfer_id"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity   int64     `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
