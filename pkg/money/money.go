// Package money provides currency-safe financial arithmetic using integer
// minor units (cents). All canonical transaction amounts flow through this
// package so no floating-point value ever reaches a comparison.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	AUD = "AUD"
	JPY = "JPY" // zero-decimal currency
)

// Money represents a monetary value with currency.
// It wraps go-money for safe arithmetic and shopspring/decimal for parsing.
type Money struct {
	m *money.Money
}

// New creates a Money value from minor units and an ISO-4217 currency code.
// For JPY and other zero-decimal currencies, amount is the actual value.
func New(amountMinor int64, currencyCode string) *Money {
	return &Money{m: money.New(amountMinor, currencyCode)}
}

// NewFromDecimal converts a decimal amount to Money using the currency's
// declared fraction (2 for EUR/USD, 0 for JPY).
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(EUR)
	}
	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()
	return New(minor, currencyCode)
}

// NewFromString parses a plain decimal string such as "100.50" or "-4.5".
// Regional separator handling happens upstream in the normalizer; this
// accepts only the canonical dot-decimal form.
func NewFromString(amount string, currencyCode string) (*Money, error) {
	amount = strings.TrimSpace(amount)
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewFromDecimal(d, currencyCode), nil
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// MinorUnitFactor returns 10^fraction for the currency (100 for EUR, 1 for JPY).
func MinorUnitFactor(currencyCode string) int64 {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		return 100
	}
	factor := int64(1)
	for i := 0; i < currency.Fraction; i++ {
		factor *= 10
	}
	return factor
}

// IsZero returns true if the amount is zero
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// IsNegative returns true if the amount is less than zero
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Abs returns the absolute value
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return Zero(EUR)
	}
	return &Money{m: m.m.Absolute()}
}

// Negate returns the value with its sign flipped.
func (m *Money) Negate() *Money {
	if m == nil || m.m == nil {
		return Zero(EUR)
	}
	return New(-m.Amount(), m.Currency())
}

// Add adds two Money values. Returns an error if currencies do not match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}
	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Equals returns true if both values are equal
func (m *Money) Equals(other *Money) bool {
	if m == nil || m.m == nil {
		return other == nil || other.m == nil || other.IsZero()
	}
	if other == nil || other.m == nil {
		return m.IsZero()
	}
	eq, _ := m.m.Equals(other.m)
	return eq
}

// Round rounds the amount to the nearest multiple of unit minor units.
// Halves round away from zero. Round(1000) buckets EUR amounts by tens.
func (m *Money) Round(unit int64) *Money {
	if m == nil || m.m == nil || unit <= 0 {
		return m
	}
	amount := m.Amount()
	negative := amount < 0
	if negative {
		amount = -amount
	}
	remainder := amount % unit
	if remainder >= (unit+1)/2 {
		amount += unit - remainder
	} else {
		amount -= remainder
	}
	if negative {
		amount = -amount
	}
	return New(amount, m.Currency())
}

// ToDecimal converts to decimal.Decimal for display and precise math.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(m.m.Currency().Fraction))
	return d.Div(divisor)
}

// String returns the amount as a decimal string (e.g., "1234.56")
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.ToDecimal().String()
}

// Display returns a formatted string for UIs (e.g., "€1,234.56")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.m.Display()
}
