package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromString(t *testing.T) {
	t.Run("parses dot decimal", func(t *testing.T) {
		m, err := NewFromString("12.34", EUR)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), m.Amount())
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("parses negative", func(t *testing.T) {
		m, err := NewFromString("-4.5", USD)
		require.NoError(t, err)
		assert.Equal(t, int64(-450), m.Amount())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewFromString("not-a-number", EUR)
		assert.Error(t, err)
	})

	t.Run("zero-decimal currency", func(t *testing.T) {
		m, err := NewFromString("500", JPY)
		require.NoError(t, err)
		assert.Equal(t, int64(500), m.Amount())
	})
}

func TestNewFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("1234.567")
	m := NewFromDecimal(d, EUR)
	// Rounded to the currency fraction, no float drift.
	assert.Equal(t, int64(123457), m.Amount())
}

func TestRound(t *testing.T) {
	tests := []struct {
		name  string
		minor int64
		unit  int64
		want  int64
	}{
		{"rounds down", 5234, 1000, 5000},
		{"rounds up", 5634, 1000, 6000},
		{"half rounds away from zero", 5500, 1000, 6000},
		{"negative rounds away from zero", -5500, 1000, -6000},
		{"negative rounds toward zero below half", -5234, 1000, -5000},
		{"already aligned", 5000, 1000, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.minor, EUR).Round(tt.unit)
			assert.Equal(t, tt.want, got.Amount())
		})
	}
}

func TestMinorUnitFactor(t *testing.T) {
	assert.Equal(t, int64(100), MinorUnitFactor(EUR))
	assert.Equal(t, int64(1), MinorUnitFactor(JPY))
	assert.Equal(t, int64(100), MinorUnitFactor("???"))
}

func TestArithmetic(t *testing.T) {
	a := New(1000, EUR)
	b := New(-250, EUR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), sum.Amount())

	_, err = a.Add(New(100, USD))
	assert.Error(t, err)

	assert.Equal(t, int64(250), b.Abs().Amount())
	assert.Equal(t, int64(250), b.Negate().Amount())
	assert.Equal(t, int64(-1000), a.Negate().Amount())
	assert.True(t, b.IsNegative())
	assert.True(t, Zero(EUR).IsZero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "12.34", New(1234, EUR).String())
	assert.Equal(t, "-0.5", New(-50, EUR).String())
}
