package money_test

import (
	"testing"

	"github.com/investra/platform/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat_RoundsToCent(t *testing.T) {
	assert.Equal(t, int64(100000), money.FromFloat(1000).Cents())
	assert.Equal(t, int64(1050), money.FromFloat(10.50).Cents())
	assert.Equal(t, int64(10), money.FromFloat(0.1).Cents())
	assert.Equal(t, int64(1), money.FromFloat(0.005).Cents())
}

func TestMulRate_HalfUpRounding(t *testing.T) {
	// 1005 cents * 0.005 = 5.025 cents, rounds to 5.
	got := money.FromCents(1005).MulRate(decimal.RequireFromString("0.005"))
	assert.Equal(t, int64(5), got.Cents())

	// 100 cents * 0.005 = 0.5 cents, half rounds up to 1.
	got = money.FromCents(100).MulRate(decimal.RequireFromString("0.005"))
	assert.Equal(t, int64(1), got.Cents())

	// $1000 * 1% = $10.00.
	got = money.FromCents(100000).MulRate(decimal.RequireFromString("0.01"))
	assert.Equal(t, int64(1000), got.Cents())
}

func TestArithmetic(t *testing.T) {
	a := money.FromCents(250)
	b := money.FromCents(100)

	assert.Equal(t, int64(350), a.Add(b).Cents())
	assert.Equal(t, int64(150), a.Sub(b).Cents())
	assert.Equal(t, int64(-250), a.Neg().Cents())
	assert.Equal(t, int64(250), a.Neg().Abs().Cents())
	assert.True(t, b.LessThan(a))
	assert.True(t, money.Zero.IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, a.Neg().IsNegative())
}

func TestString_MainUnits(t *testing.T) {
	require.Equal(t, "10.50", money.FromCents(1050).String())
	require.Equal(t, "-0.01", money.FromCents(-1).String())
}
