package documents

import (
	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// LineInput is one product line on an inbound or outbound document.
type LineInput struct {
	ProductID      uuid.UUID
	LocationID     *uuid.UUID
	Quantity       int64
	UnitPriceCents int64
}

// CreateReceiptInput describes an inbound receipt to post.
type CreateReceiptInput struct {
	ReferenceNumber string
	WarehouseID     uuid.UUID
	Supplier        *string
	Notes           *string
	Items           []LineInput
	CreatedBy       uuid.UUID
}

// CreateDeliveryInput describes an outbound delivery order to post.
type CreateDeliveryInput struct {
	ReferenceNumber string
	WarehouseID     uuid.UUID
	Customer        *string
	Notes           *string
	Items           []LineInput
	CreatedBy       uuid.UUID
}

// CreateAdjustmentInput describes a manual stock correction to post.
type CreateAdjustmentInput struct {
	ReferenceNumber string
	WarehouseID     uuid.UUID
	Direction       enums.AdjustmentDirection
	Reason          string
	Items           []LineInput
	CreatedBy       uuid.UUID
}

// TransferLineInput is one product line on a transfer. Transfers move whole
// quantities between warehouses, so lines carry no location or price.
type TransferLineInput struct {
	ProductID uuid.UUID
	Quantity  int64
}

// CreateTransferInput describes a warehouse-to-warehouse transfer to post.
type CreateTransferInput struct {
	ReferenceNumber        string
	SourceWarehouseID      uuid.UUID
	DestinationWarehouseID uuid.UUID
	SourceLocationID       *uuid.UUID
	DestinationLocationID  *uuid.UUID
	Notes                  *string
	Items                  []TransferLineInput
	CreatedBy              uuid.UUID
}

// ListFilter narrows a document listing.
type ListFilter struct {
	WarehouseID *uuid.UUID
	Page        int
	PageSize    int
}
