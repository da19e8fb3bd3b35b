package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse represents a physical site that holds stock.
type Warehouse struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Address   *string    `gorm:"column:address" json:"address,omitempty"`
	ManagerID *uuid.UUID `gorm:"column:manager_id;type:uuid" json:"manager_id,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
