package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// StockMovementRow mirrors the stock_movements BigQuery schema. One row is
// written per accepted ledger entry.
type StockMovementRow struct {
	EventID       string             `bigquery:"event_id"`
	LedgerEntryID string             `bigquery:"ledger_entry_id"`
	ProductID     string             `bigquery:"product_id"`
	WarehouseID   string             `bigquery:"warehouse_id"`
	LocationID    *string            `bigquery:"location_id"`
	Quantity      int64              `bigquery:"quantity"`
	MovementType  string             `bigquery:"movement_type"`
	DocumentKind  *string            `bigquery:"document_kind"`
	DocumentID    *string            `bigquery:"document_id"`
	PostedAt      time.Time          `bigquery:"posted_at"`
	Payload       cbigquery.NullJSON `bigquery:"payload"`
}

// StockDocumentRow mirrors the stock_documents BigQuery schema. One row is
// written per accepted movement document.
type StockDocumentRow struct {
	EventID         string             `bigquery:"event_id"`
	DocumentID      string             `bigquery:"document_id"`
	DocumentKind    string             `bigquery:"document_kind"`
	ReferenceNumber string             `bigquery:"reference_number"`
	WarehouseID     string             `bigquery:"warehouse_id"`
	LineCount       int64              `bigquery:"line_count"`
	CreatedAt       time.Time          `bigquery:"created_at"`
	Payload         cbigquery.NullJSON `bigquery:"payload"`
}
