package product

import "github.com/google/uuid"

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU          string
	Name         string
	Category     string
	Unit         string
	Description  *string
	ReorderLevel int64
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU          *string
	Name         *string
	Category     *string
	Unit         *string
	Description  *string
	ReorderLevel *int64
}

// ListProductsInput narrows and pages the product listing.
type ListProductsInput struct {
	Query    string
	Category *string
	Page     int
	PageSize int
}

// ProductSummary is one row of the product listing.
type ProductSummary struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	Description  *string   `json:"description,omitempty"`
	ReorderLevel int64     `json:"reorder_level"`
}

// ProductListResult is one page of products plus paging metadata.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalRows  int64            `json:"total_rows"`
	TotalPages int              `json:"total_pages"`
}
