package service

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrAmountNotPositive = errors.New("amount must be greater than 0")
	ErrAmountTooLarge    = errors.New("amount cannot exceed 999,999,999.99")
	ErrAmountPrecision   = errors.New("amount cannot have more than 2 decimal places")
)

var maxAmount = decimal.RequireFromString("999999999.99")

// validateAmount enforces the shared monetary rules for transactions and
// budgets: strictly positive, bounded, at most two fractional digits.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(maxAmount) {
		return ErrAmountTooLarge
	}
	if amount.Exponent() < -2 {
		return ErrAmountPrecision
	}
	return nil
}
