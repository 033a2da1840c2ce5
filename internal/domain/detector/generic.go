package detector

import (
	"strings"

	"github.com/FACorreiaa/statement-import/internal/domain/catalog"
)

// GenericKey is the descriptor key reported when detection fell back to
// header-based column guessing.
const GenericKey = "generic"

// keyword groups for best-effort column guessing, multi-language the way bank
// exports actually are.
var (
	dateKeywords   = []string{"data mov", "date", "data", "fecha", "datum"}
	descKeywords   = []string{"descri", "description", "merchant", "payee", "name", "nome", "omschrijving", "lançamento", "lancamento", "details", "memo"}
	debitKeywords  = []string{"débito", "debito", "debit", "cargo"}
	creditKeywords = []string{"crédito", "credito", "credit", "abono"}
	amountKeywords = []string{"amount", "valor", "importe", "montante", "bedrag", "value", "montant"}
	currencyKeys   = []string{"currency", "moeda", "moneda", "divisa", "valuta"}
)

// genericDescriptor builds a best-effort descriptor from header text alone.
// Column guessing follows keyword matching; the date convention and decimal
// style are inferred from the first data rows.
func genericDescriptor(sample Sample) *catalog.Descriptor {
	desc := &catalog.Descriptor{
		Key:         GenericKey,
		Institution: "Unknown",
		Currency:    catalog.DefaultCurrency,
		HasHeader:   len(sample.Header) > 0,
		Convention:  catalog.SingleSigned,
	}

	dateIdx := findColumn(sample.Header, dateKeywords)
	descIdx := findColumn(sample.Header, descKeywords)
	debitIdx := findColumn(sample.Header, debitKeywords)
	creditIdx := findColumn(sample.Header, creditKeywords)
	amountIdx := findColumn(sample.Header, amountKeywords)
	currencyIdx := findColumn(sample.Header, currencyKeys)

	addCol := func(field string, idx int) {
		if idx < 0 {
			return
		}
		name := ""
		if idx < len(sample.Header) {
			name = strings.TrimSpace(sample.Header[idx])
		}
		desc.Columns = append(desc.Columns, catalog.ColumnRef{Field: field, Name: name, Index: idx})
	}

	addCol(catalog.FieldDate, dateIdx)
	addCol(catalog.FieldDescription, descIdx)
	if debitIdx >= 0 && creditIdx >= 0 {
		desc.Convention = catalog.SeparateDebitCredit
		addCol(catalog.FieldDebit, debitIdx)
		addCol(catalog.FieldCredit, creditIdx)
	} else {
		addCol(catalog.FieldAmount, amountIdx)
	}
	addCol(catalog.FieldCurrency, currencyIdx)

	desc.DateFormat = guessDateFormat(sampleColumn(sample, dateIdx))
	desc.DecimalComma = guessDecimalComma(sampleColumn(sample, pickAmountIdx(amountIdx, debitIdx, creditIdx)))

	return desc
}

func pickAmountIdx(amountIdx, debitIdx, creditIdx int) int {
	if amountIdx >= 0 {
		return amountIdx
	}
	if debitIdx >= 0 {
		return debitIdx
	}
	return creditIdx
}

// findColumn returns the first header index matching any keyword, or -1.
func findColumn(header []string, keywords []string) int {
	for i, cell := range header {
		h := strings.ToLower(strings.TrimSpace(strings.Trim(cell, `"`)))
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return -1
}

func sampleColumn(sample Sample, idx int) []string {
	if idx < 0 {
		return nil
	}
	var values []string
	for _, row := range sample.Rows {
		if idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// guessDateFormat inspects sample date cells. A first component above 12 is
// definitely a day; otherwise European ordering is assumed, matching the
// majority of the catalog.
func guessDateFormat(samples []string) string {
	for _, s := range samples {
		sep := dateSeparator(s)
		parts := strings.FieldsFunc(s, func(r rune) bool {
			return r == '/' || r == '-' || r == '.'
		})
		if len(parts) < 3 {
			continue
		}
		if len(parts[0]) == 4 {
			return "YYYY" + sep + "MM" + sep + "DD"
		}
		if first := leadingInt(parts[0]); first > 12 && first <= 31 {
			return "DD" + sep + "MM" + sep + "YYYY"
		}
		if second := leadingInt(parts[1]); second > 12 && second <= 31 {
			return "MM" + sep + "DD" + sep + "YYYY"
		}
	}
	// Ambiguous or no samples: European ordering.
	if len(samples) > 0 {
		if sep := dateSeparator(samples[0]); sep != "" {
			return "DD" + sep + "MM" + sep + "YYYY"
		}
	}
	return "DD-MM-YYYY"
}

func dateSeparator(s string) string {
	for _, sep := range []string{"-", "/", "."} {
		if strings.Contains(s, sep) {
			return sep
		}
	}
	return ""
}

func leadingInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// guessDecimalComma looks at amount samples: a comma followed by at most two
// digits at the end marks European decimals; both separators present lets the
// last one decide.
func guessDecimalComma(samples []string) bool {
	europeanHints, usHints := 0, 0
	for _, raw := range samples {
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == ',' || r == '.' {
				return r
			}
			return -1
		}, raw)

		lastComma := strings.LastIndex(cleaned, ",")
		lastDot := strings.LastIndex(cleaned, ".")
		switch {
		case lastComma >= 0 && lastDot >= 0:
			if lastComma > lastDot {
				europeanHints++
			} else {
				usHints++
			}
		case lastComma >= 0:
			if len(cleaned)-lastComma-1 <= 2 {
				europeanHints++
			}
		case lastDot >= 0:
			if len(cleaned)-lastDot-1 <= 2 {
				usHints++
			}
		}
	}
	return europeanHints > usHints
}
