package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// LedgerEntry is one immutable row of stock movement history. Entries
// are only ever inserted; quantity carries the signed delta.
type LedgerEntry struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	WarehouseID  uuid.UUID           `gorm:"column:warehouse_id;type:uuid;not null;index"`
	LocationID   *uuid.UUID          `gorm:"column:location_id;type:uuid"`
	Quantity     int64               `gorm:"column:quantity;not null"`
	MovementType enums.MovementType  `gorm:"column:movement_type;not null"`
	DocumentKind *enums.DocumentKind `gorm:"column:document_kind"`
	DocumentID   *uuid.UUID          `gorm:"column:document_id;type:uuid"`
	PerformedBy  uuid.UUID           `gorm:"column:performed_by;type:uuid;not null"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralisation.
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
