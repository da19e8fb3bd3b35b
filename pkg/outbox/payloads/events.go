package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// StockMovementPostedEvent is emitted for every accepted ledger entry.
type StockMovementPostedEvent struct {
	LedgerEntryID uuid.UUID           `json:"ledger_entry_id"`
	ProductID     uuid.UUID           `json:"product_id"`
	WarehouseID   uuid.UUID           `json:"warehouse_id"`
	LocationID    *uuid.UUID          `json:"location_id,omitempty"`
	Quantity      int64               `json:"quantity"`
	MovementType  enums.MovementType  `json:"movement_type"`
	DocumentKind  *enums.DocumentKind `json:"document_kind,omitempty"`
	DocumentID    *uuid.UUID          `json:"document_id,omitempty"`
	PostedAt      time.Time           `json:"posted_at"`
}

// DocumentCreatedEvent is emitted once per accepted movement document.
type DocumentCreatedEvent struct {
	DocumentID      uuid.UUID          `json:"document_id"`
	DocumentKind    enums.DocumentKind `json:"document_kind"`
	ReferenceNumber string             `json:"reference_number"`
	WarehouseID     uuid.UUID          `json:"warehouse_id"`
	LineCount       int                `json:"line_count"`
	CreatedAt       time.Time          `json:"created_at"`
}
