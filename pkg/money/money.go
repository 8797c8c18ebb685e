// Package money provides a value object for monetary amounts.
//
// The platform is single-currency; amounts are always stored in cents.
// Invariants:
//   - Amount is always stored in the smallest currency unit (cents).
//   - Rate multiplication rounds half-up to a cent, never through float64.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount cannot be represented in cents.
var ErrInvalidAmount = errors.New("invalid amount")

// Money represents a monetary value in cents.
type Money struct {
	cents int64
}

// Zero is the zero monetary value.
var Zero = Money{}

// FromCents builds a Money from an amount in cents.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// FromFloat converts a main-unit amount (e.g. dollars) to Money,
// rounding half-up to a cent.
func FromFloat(amount float64) Money {
	cents := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0)
	return Money{cents: cents.IntPart()}
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 { return m.cents }

// Float returns the amount in main units. Intended for API responses
// and reports, never for arithmetic.
func (m Money) Float() float64 {
	return float64(m.cents) / 100
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{cents: -m.cents}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m.cents < 0 {
		return Money{cents: -m.cents}
	}
	return m
}

// MulRate multiplies the amount by a decimal rate (e.g. 0.01 for 1%),
// rounding half-up to a cent.
func (m Money) MulRate(rate decimal.Decimal) Money {
	cents := decimal.NewFromInt(m.cents).Mul(rate).Round(0)
	return Money{cents: cents.IntPart()}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.cents == 0 }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.cents > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.cents < 0 }

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool { return m.cents < other.cents }

// Equal reports whether m == other.
func (m Money) Equal(other Money) bool { return m.cents == other.cents }

// String formats the amount in main units with two decimals.
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Float())
}
