// Package mapper turns raw rows into canonical transactions using the
// winning format descriptor. Mapping is pure: a row either yields one
// transaction or one validation error, never both and never a side effect.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/statement-import/internal/domain/catalog"
	"github.com/FACorreiaa/statement-import/internal/domain/normalizer"
	"github.com/FACorreiaa/statement-import/internal/domain/parser"
	"github.com/FACorreiaa/statement-import/internal/domain/transaction"
)

// ValidationError records one rejected row with the field that failed.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
}

// FieldMapper maps rows for one detected format. Header is the sniffed
// header row, nil for headerless formats.
type FieldMapper struct {
	desc   *catalog.Descriptor
	header []string
}

func New(desc *catalog.Descriptor, header []string) *FieldMapper {
	return &FieldMapper{desc: desc, header: header}
}

// Map produces a canonical transaction from one raw row, or a validation
// error describing why the row was rejected.
func (m *FieldMapper) Map(row parser.RawRow) (*transaction.Canonical, *ValidationError) {
	date, verr := m.mapDate(row)
	if verr != nil {
		return nil, verr
	}

	currency := m.currencyFor(row)

	amountMinor, verr := m.mapAmount(row, currency)
	if verr != nil {
		return nil, verr
	}

	rawDesc := m.cell(row, catalog.FieldDescription)
	cleaned := normalizer.CleanDescription(rawDesc)

	merchant, subtype := m.applyMerchantRules(cleaned)

	return &transaction.Canonical{
		Date:           date,
		AmountMinor:    amountMinor,
		Currency:       currency,
		RawDescription: cleaned,
		Merchant:       merchant,
		Subtype:        subtype,
		SourceFormat:   m.desc.Key,
		SourceLine:     row.Line,
	}, nil
}

func (m *FieldMapper) mapDate(row parser.RawRow) (time.Time, *ValidationError) {
	cell := m.cell(row, catalog.FieldDate)
	if cell == "" {
		return time.Time{}, &ValidationError{Line: row.Line, Field: catalog.FieldDate, Reason: "empty date cell"}
	}
	parsed, err := normalizer.ParseDate(cell, m.desc.DateFormat)
	if err != nil {
		return time.Time{}, &ValidationError{
			Line:   row.Line,
			Field:  catalog.FieldDate,
			Reason: fmt.Sprintf("%q does not match %s", cell, m.desc.DateFormat),
		}
	}
	return parsed, nil
}

func (m *FieldMapper) mapAmount(row parser.RawRow, currency string) (int64, *ValidationError) {
	var (
		minor int64
		err   error
		field string
	)

	switch m.desc.Convention {
	case catalog.SeparateDebitCredit:
		field = catalog.FieldAmount
		debit := m.cell(row, catalog.FieldDebit)
		credit := m.cell(row, catalog.FieldCredit)
		minor, err = normalizer.ResolveDebitCredit(debit, credit, currency, m.desc.DecimalComma)

	case catalog.SingleUnsignedWithTypeFlag:
		field = catalog.FieldAmount
		amount := m.cell(row, catalog.FieldAmount)
		flag := m.cell(row, catalog.FieldTypeFlag)
		minor, err = normalizer.ResolveFlaggedAmount(amount, flag, m.desc.DebitFlags, currency, m.desc.DecimalComma)

	default:
		field = catalog.FieldAmount
		minor, err = normalizer.ResolveSignedAmount(m.cell(row, catalog.FieldAmount), currency, m.desc.DecimalComma)
	}

	if err != nil {
		return 0, &ValidationError{Line: row.Line, Field: field, Reason: err.Error()}
	}
	return minor, nil
}

// currencyFor prefers a per-row currency column over the descriptor default.
func (m *FieldMapper) currencyFor(row parser.RawRow) string {
	if cell := m.cell(row, catalog.FieldCurrency); cell != "" {
		return strings.ToUpper(cell)
	}
	if m.desc.Currency != "" {
		return m.desc.Currency
	}
	return catalog.DefaultCurrency
}

// applyMerchantRules runs the descriptor's rules in declared order; the first
// match wins. No match leaves the cleaned description untagged.
func (m *FieldMapper) applyMerchantRules(description string) (merchant, subtype string) {
	for _, rule := range m.desc.MerchantRules {
		if extracted, ok := rule.Match(description); ok {
			return extracted, rule.Subtype
		}
	}
	return description, ""
}

// cell resolves a canonical field to its value: by header name when both a
// header and a declared name exist, by declared index otherwise.
func (m *FieldMapper) cell(row parser.RawRow, field string) string {
	ref, ok := m.desc.Column(field)
	if !ok {
		return ""
	}
	if len(m.header) > 0 && ref.Name != "" {
		for i, h := range m.header {
			if headerCellEqual(h, ref.Name) {
				if i < len(row.Cells) {
					return strings.TrimSpace(row.Cells[i])
				}
				return ""
			}
		}
	}
	if ref.Index >= 0 && ref.Index < len(row.Cells) {
		return strings.TrimSpace(row.Cells[ref.Index])
	}
	return ""
}

func headerCellEqual(a, b string) bool {
	norm := func(s string) string {
		s = strings.Trim(strings.TrimSpace(s), `"`)
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return norm(a) == norm(b)
}
