package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places kept for the single currency
const MinorUnits = 2

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Amount is a money value in minor currency units (cents).
// Balances are never stored as floating point.
type Amount int64

// ParseAmount converts a transfer amount to minor units. It rejects zero,
// negative, sub-cent and out-of-range values.
func ParseAmount(d decimal.Decimal) (Amount, error) {
	if !d.IsPositive() {
		return 0, InvalidAmount("amount must be greater than 0")
	}
	minor := d.Shift(MinorUnits)
	if !minor.IsInteger() {
		return 0, InvalidAmount("amount must have at most 2 decimal places")
	}
	if minor.GreaterThan(maxAmount) {
		return 0, InvalidAmount("amount is too large")
	}
	return Amount(minor.IntPart()), nil
}

// MustAmount parses a literal like "12.50"; it panics on bad input and is meant for tests and seeds.
func MustAmount(s string) Amount {
	a, err := ParseAmount(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the value in major units
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -MinorUnits)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(MinorUnits)
}

// MarshalJSON renders the amount as a fixed-point string, e.g. "40.00"
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	minor := d.Shift(MinorUnits)
	if !minor.IsInteger() {
		return InvalidAmount("amount must have at most 2 decimal places")
	}
	*a = Amount(minor.IntPart())
	return nil
}
