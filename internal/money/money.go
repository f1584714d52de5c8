// Package money provides the integer-cents amount type used by the ledger.
//
// Amounts arrive as exact decimals (shopspring/decimal) and are converted to
// cents with round-half-to-even, so 0.125 becomes 0.12 and 0.135 becomes 0.14.
// Arithmetic on Cents is exact; decimals only reappear when serializing.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a signed amount of money in hundredths of a currency unit.
type Cents int64

// MaxAmount is the largest magnitude accepted for a single stored amount.
// Sums of many such amounts still fit in int64 cents.
var MaxAmount = decimal.New(1, 12)

// ErrOutOfRange is returned for amounts larger in magnitude than MaxAmount.
var ErrOutOfRange = errors.New("amount out of range")

// FromDecimal rounds d to two decimal places (half to even) and returns it in cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.RoundBank(2).Shift(2).IntPart())
}

// CheckRange reports whether d can be stored and summed without overflowing
// int64 cents.
func CheckRange(d decimal.Decimal) error {
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", ErrOutOfRange, d, MaxAmount)
	}
	return nil
}

// Decimal returns the exact decimal value of c.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the nearest binary float to c/100.
func (c Cents) Float64() float64 {
	return float64(c) / 100
}

// String formats c with exactly two decimals, e.g. "-0.50".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON encodes c as a bare JSON number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*c = FromDecimal(d)
	return nil
}

// Min returns the smaller of a and b.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}
