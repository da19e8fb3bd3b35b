package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item tracked by the stock ledger.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SKU          string    `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Category     string    `gorm:"column:category;not null" json:"category"`
	Unit         string    `gorm:"column:unit;not null" json:"unit"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	ReorderLevel int64     `gorm:"column:reorder_level;not null;default:0" json:"reorder_level"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
