package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a client supplied amount into minor currency units.
// Fractions, zero, negatives and values beyond int64 are rejected.
func ParseAmount(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() || !d.IsPositive() || d.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// ValidateAmount checks an amount already expressed in minor units.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
