// Package normalizer casts and validates mapped row values: regional amount
// parsing, per-format date conventions, and description cleanup. All
// transformations are pure.
package normalizer

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-import/pkg/money"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount format")
	ErrEmptyAmount          = errors.New("empty amount")
	ErrAmbiguousDebitCredit = errors.New("exactly one of debit/credit must be populated")
	ErrUnknownTypeFlag      = errors.New("empty type flag")
)

// ParseAmount converts a raw amount string to signed minor units.
// decimalComma selects European separators (1.234,56) over American (1,234.56).
// Parsing goes through shopspring/decimal so no float64 is involved.
func ParseAmount(raw string, currency string, decimalComma bool) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' || r == '(' || r == ')' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, ErrEmptyAmount
	}

	// Accounting negatives: (12.34) means -12.34.
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	if strings.HasPrefix(cleaned, "-") {
		negative = !negative
		cleaned = strings.TrimPrefix(cleaned, "-")
	}
	if cleaned == "" {
		return 0, ErrEmptyAmount
	}

	if decimalComma {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if negative {
		d = d.Neg()
	}

	return money.NewFromDecimal(d, currency).Amount(), nil
}

// ResolveSignedAmount handles the single-signed convention.
func ResolveSignedAmount(amountStr, currency string, decimalComma bool) (int64, error) {
	return ParseAmount(amountStr, currency, decimalComma)
}

// ResolveDebitCredit merges separate debit and credit columns into one signed
// amount. Exactly one of the two must be non-empty: debit becomes an outflow
// (negative), credit an inflow (positive).
func ResolveDebitCredit(debitStr, creditStr, currency string, decimalComma bool) (int64, error) {
	debitStr = strings.TrimSpace(debitStr)
	creditStr = strings.TrimSpace(creditStr)

	if (debitStr == "") == (creditStr == "") {
		return 0, ErrAmbiguousDebitCredit
	}

	if debitStr != "" {
		amount, err := ParseAmount(debitStr, currency, decimalComma)
		if err != nil {
			return 0, err
		}
		if amount > 0 {
			amount = -amount
		}
		return amount, nil
	}

	amount, err := ParseAmount(creditStr, currency, decimalComma)
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		amount = -amount
	}
	return amount, nil
}

// ResolveFlaggedAmount handles the unsigned-magnitude-plus-type-flag
// convention. The flag cell is compared case-insensitively against the
// format's declared debit markers; any other non-empty value means inflow.
func ResolveFlaggedAmount(amountStr, flag string, debitFlags []string, currency string, decimalComma bool) (int64, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return 0, ErrUnknownTypeFlag
	}

	amount, err := ParseAmount(amountStr, currency, decimalComma)
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		amount = -amount
	}

	for _, marker := range debitFlags {
		if strings.EqualFold(flag, marker) {
			return -amount, nil
		}
	}
	return amount, nil
}
