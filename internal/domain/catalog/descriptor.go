// Package catalog holds the static registry of bank export formats. A
// Descriptor captures everything the pipeline needs to know about one
// institution's export layout; the registry is built once at startup and
// never mutated.
package catalog

import "regexp"

// AmountConvention describes how a format encodes the transaction amount.
type AmountConvention int

const (
	// SingleSigned is one column carrying a signed decimal.
	SingleSigned AmountConvention = iota
	// SingleUnsignedWithTypeFlag is an unsigned magnitude column plus a
	// separate type/indicator column that decides the sign.
	SingleUnsignedWithTypeFlag
	// SeparateDebitCredit is two columns; exactly one is populated per row.
	SeparateDebitCredit
)

func (c AmountConvention) String() string {
	switch c {
	case SingleSigned:
		return "single-signed"
	case SingleUnsignedWithTypeFlag:
		return "single-unsigned-with-type-flag"
	case SeparateDebitCredit:
		return "separate-debit-credit-columns"
	default:
		return "unknown"
	}
}

// DefaultCurrency is assumed when a format declares no currency and the file
// carries no currency column.
const DefaultCurrency = "EUR"

// Canonical field names used in a descriptor's column mapping.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldDebit       = "debit"
	FieldCredit      = "credit"
	FieldTypeFlag    = "type_flag"
	FieldCurrency    = "currency"
)

// ColumnRef points a canonical field at a source column. Name is matched
// against header cells; Index is the fallback for headerless exports.
type ColumnRef struct {
	Field string
	Name  string
	Index int
}

// MerchantRule maps a description pattern to a subtype tag and extracts the
// merchant substring via the first capture group when present. Rules are
// evaluated in declared order; the first match wins.
type MerchantRule struct {
	Pattern *regexp.Regexp
	Subtype string
}

// Match applies the rule to a raw description. When the pattern has a capture
// group, the group supplies the merchant; otherwise the whole match does.
func (r MerchantRule) Match(description string) (merchant string, ok bool) {
	groups := r.Pattern.FindStringSubmatch(description)
	if groups == nil {
		return "", false
	}
	if len(groups) > 1 && groups[1] != "" {
		return groups[1], true
	}
	return groups[0], true
}

// Descriptor is the immutable metadata for one institution's export format.
type Descriptor struct {
	Key         string // stable registry key, e.g. "pt-cgd"
	Institution string
	Country     string
	Currency    string

	Encoding  string // expected encoding hint ("utf-8", "windows-1252")
	Delimiter rune
	HasHeader bool
	SkipRows  int // metadata lines before the header (or first data row)

	// DateFormat uses DD/MM/YYYY-style tokens, converted to a Go layout by
	// the normalizer.
	DateFormat string

	// DecimalComma is true for formats writing amounts as 1.234,56.
	DecimalComma bool

	// Columns maps canonical fields to source columns, in declared order.
	Columns []ColumnRef

	// SampleHeader is the exact header line this institution emits, used for
	// the exact-match detection bonus. Empty for headerless formats.
	SampleHeader string

	// Identifiers are substrings expected in the file content or filename.
	Identifiers []string

	// MerchantRules are evaluated in order against raw descriptions.
	MerchantRules []MerchantRule

	Convention AmountConvention

	// DebitFlags are the type-flag values meaning outflow, compared
	// case-insensitively. Only used with SingleUnsignedWithTypeFlag.
	DebitFlags []string
}

// Column returns the column reference for a canonical field, or false.
func (d *Descriptor) Column(field string) (ColumnRef, bool) {
	for _, c := range d.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return ColumnRef{}, false
}

// SourceColumnNames returns the declared source column names, in order.
func (d *Descriptor) SourceColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}
