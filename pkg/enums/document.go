package enums

import "fmt"

// DocumentKind identifies which document table a ledger entry references.
type DocumentKind string

const (
	DocumentKindReceipt    DocumentKind = "receipt"
	DocumentKindDelivery   DocumentKind = "delivery_order"
	DocumentKindAdjustment DocumentKind = "stock_adjustment"
	DocumentKindTransfer   DocumentKind = "stock_transfer"
)

var validDocumentKinds = []DocumentKind{
	DocumentKindReceipt,
	DocumentKindDelivery,
	DocumentKindAdjustment,
	DocumentKindTransfer,
}

// String implements fmt.Stringer.
func (d DocumentKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentKind.
func (d DocumentKind) IsValid() bool {
	for _, candidate := range validDocumentKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentKind converts raw input into a DocumentKind.
func ParseDocumentKind(value string) (DocumentKind, error) {
	for _, candidate := range validDocumentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document kind %q", value)
}

// ReceiptStatus tracks the lifecycle of an inbound receipt.
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "pending"
	ReceiptStatusCompleted ReceiptStatus = "completed"
	ReceiptStatusCancelled ReceiptStatus = "cancelled"
)

// IsValid reports whether the value is a known ReceiptStatus.
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusCompleted, ReceiptStatusCancelled:
		return true
	}
	return false
}

// DeliveryStatus tracks the lifecycle of an outbound delivery order.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// IsValid reports whether the value is a known DeliveryStatus.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusShipped, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

// AdjustmentStatus tracks the lifecycle of a stock adjustment.
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "pending"
	AdjustmentStatusApproved AdjustmentStatus = "approved"
	AdjustmentStatusRejected AdjustmentStatus = "rejected"
)

// IsValid reports whether the value is a known AdjustmentStatus.
func (s AdjustmentStatus) IsValid() bool {
	switch s {
	case AdjustmentStatusPending, AdjustmentStatusApproved, AdjustmentStatusRejected:
		return true
	}
	return false
}

// AdjustmentDirection selects the sign an adjustment applies to stock.
type AdjustmentDirection string

const (
	AdjustmentDirectionIncrease AdjustmentDirection = "increase"
	AdjustmentDirectionDecrease AdjustmentDirection = "decrease"
)

// IsValid reports whether the value is a known AdjustmentDirection.
func (d AdjustmentDirection) IsValid() bool {
	return d == AdjustmentDirectionIncrease || d == AdjustmentDirectionDecrease
}

// ParseAdjustmentDirection converts raw input into an AdjustmentDirection.
func ParseAdjustmentDirection(value string) (AdjustmentDirection, error) {
	switch AdjustmentDirection(value) {
	case AdjustmentDirectionIncrease:
		return AdjustmentDirectionIncrease, nil
	case AdjustmentDirectionDecrease:
		return AdjustmentDirectionDecrease, nil
	}
	return "", fmt.Errorf("invalid adjustment direction %q", value)
}

// TransferStatus tracks the lifecycle of a stock transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// IsValid reports whether the value is a known TransferStatus.
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}
