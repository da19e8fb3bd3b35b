package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// Movement describes one stock change to apply. Quantity carries the signed
// delta; negative values consume stock.
type Movement struct {
	ProductID    uuid.UUID
	WarehouseID  uuid.UUID
	LocationID   *uuid.UUID
	Quantity     int64
	MovementType enums.MovementType
	DocumentKind *enums.DocumentKind
	DocumentID   *uuid.UUID
	PerformedBy  uuid.UUID
}

// BalanceFilter narrows the stock level listing.
type BalanceFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	LocationID  *uuid.UUID
}

// BalanceRow is one stock level with joined display names.
type BalanceRow struct {
	ProductID     uuid.UUID  `json:"product_id"`
	ProductSKU    string     `json:"product_sku"`
	ProductName   string     `json:"product_name"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	WarehouseName string     `json:"warehouse_name"`
	LocationID    *uuid.UUID `json:"location_id,omitempty"`
	LocationName  *string    `json:"location_name,omitempty"`
	Quantity      int64      `json:"quantity"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HistoryFilter narrows the movement history listing.
type HistoryFilter struct {
	ProductID    *uuid.UUID
	WarehouseID  *uuid.UUID
	MovementType *enums.MovementType
	Page         int
}

// HistoryRow is one ledger entry with joined display names.
type HistoryRow struct {
	ID            uuid.UUID           `json:"id"`
	ProductID     uuid.UUID           `json:"product_id"`
	ProductSKU    string              `json:"product_sku"`
	ProductName   string              `json:"product_name"`
	WarehouseID   uuid.UUID           `json:"warehouse_id"`
	WarehouseName string              `json:"warehouse_name"`
	LocationID    *uuid.UUID          `json:"location_id,omitempty"`
	LocationName  *string             `json:"location_name,omitempty"`
	Quantity      int64               `json:"quantity"`
	MovementType  enums.MovementType  `json:"movement_type"`
	DocumentKind  *enums.DocumentKind `json:"document_kind,omitempty"`
	DocumentID    *uuid.UUID          `json:"document_id,omitempty"`
	PerformedBy   uuid.UUID           `json:"performed_by"`
	PerformedName string              `json:"performed_by_name"`
	CreatedAt     time.Time           `json:"created_at"`
}

// HistoryPage is one page of movement history plus paging metadata.
type HistoryPage struct {
	Entries    []HistoryRow `json:"entries"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalRows  int64        `json:"total_rows"`
	TotalPages int          `json:"total_pages"`
}

// LowStockRow is a product whose global on-hand total sits at or below its
// reorder level.
type LowStockRow struct {
	ProductID    uuid.UUID `json:"product_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	ReorderLevel int64     `json:"reorder_level"`
	TotalOnHand  int64     `json:"total_on_hand"`
}
