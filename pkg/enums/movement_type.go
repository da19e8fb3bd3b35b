package enums

import "fmt"

// MovementType classifies a ledger entry by the operation that produced it.
type MovementType string

const (
	MovementTypeReceipt    MovementType = "receipt"
	MovementTypeDelivery   MovementType = "delivery"
	MovementTypeTransfer   MovementType = "transfer"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeInitial    MovementType = "initial"
)

var validMovementTypes = []MovementType{
	MovementTypeReceipt,
	MovementTypeDelivery,
	MovementTypeTransfer,
	MovementTypeAdjustment,
	MovementTypeInitial,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
