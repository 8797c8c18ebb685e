package money_test

import (
	"math"
	"testing"

	"github.com/investra/platform/pkg/money"
	"github.com/shopspring/decimal"
)

// FuzzArithmetic tests the cents arithmetic invariants with random input.
func FuzzArithmetic(f *testing.F) {
	f.Add(int64(0), int64(0))
	f.Add(int64(100), int64(-50))
	f.Add(int64(123_456_789), int64(987_654_321))
	f.Add(int64(-1), int64(1))
	f.Add(int64(math.MaxInt64), int64(1))

	f.Fuzz(func(t *testing.T, a, b int64) {
		if a == math.MinInt64 || b == math.MinInt64 {
			t.Skip("negation is undefined at the int64 minimum")
		}
		ma, mb := money.FromCents(a), money.FromCents(b)

		if got := ma.Add(mb).Sub(mb); !got.Equal(ma) {
			t.Errorf("add/sub round trip changed %d to %d (b=%d)", a, got.Cents(), b)
		}
		if got := ma.Neg().Neg(); !got.Equal(ma) {
			t.Errorf("double negation changed %d to %d", a, got.Cents())
		}
		if ma.Abs().IsNegative() {
			t.Errorf("Abs(%d) is negative", a)
		}
		if !ma.Sub(ma).IsZero() {
			t.Errorf("a-a is %d, want 0", ma.Sub(ma).Cents())
		}
		if ma.IsPositive() && ma.Neg().IsPositive() {
			t.Errorf("both %d and its negation are positive", a)
		}
	})
}

// FuzzMulRate checks that rate multiplication stays within half a cent of the
// exact decimal product, which is what half-up rounding guarantees.
func FuzzMulRate(f *testing.F) {
	f.Add(int64(100_000), "0.01")
	f.Add(int64(33), "0.015")
	f.Add(int64(-5000), "0.10")
	f.Add(int64(1), "0.005")
	f.Add(int64(10), "0.05")

	f.Fuzz(func(t *testing.T, cents int64, rateStr string) {
		rate, err := decimal.NewFromString(rateStr)
		if err != nil || rate.IsNegative() ||
			rate.GreaterThan(decimal.NewFromInt(1000)) || rate.Exponent() < -30 {
			t.Skip("not a plausible rate")
		}
		if cents > 1<<50 || cents < -(1<<50) {
			t.Skip("outside the representable money range")
		}

		got := money.FromCents(cents).MulRate(rate)
		exact := decimal.NewFromInt(cents).Mul(rate)
		diff := exact.Sub(decimal.NewFromInt(got.Cents())).Abs()
		if diff.GreaterThan(decimal.RequireFromString("0.5")) {
			t.Errorf("MulRate(%d, %s) = %d, off by %s cents from exact %s",
				cents, rate, got.Cents(), diff, exact)
		}
	})
}
