package models

import (
	"time"

	"github.com/google/uuid"
)

// Location represents a named storage area inside a warehouse.
type Location struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:idx_locations_warehouse_name" json:"warehouse_id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_locations_warehouse_name" json:"name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
