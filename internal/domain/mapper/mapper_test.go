package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-import/internal/domain/catalog"
	"github.com/FACorreiaa/statement-import/internal/domain/parser"
	"github.com/FACorreiaa/statement-import/internal/domain/transaction"
)

func mustDescriptor(t *testing.T, key string) *catalog.Descriptor {
	t.Helper()
	desc, ok := catalog.Default().Get(key)
	require.True(t, ok, "descriptor %s not registered", key)
	return desc
}

func TestMapSeparateDebitCredit(t *testing.T) {
	desc := mustDescriptor(t, "pt-cgd")
	header := []string{"Data mov.", "Data valor", "Descrição", "Débito", "Crédito", "Saldo contabilístico", "Saldo disponível", "Categoria"}
	m := New(desc, header)

	t.Run("debit populated yields negative minor units", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"02-01-2024", "02-01-2024", "COMPRA 4522 PINGO DOCE ALVALADE", "12,34", "", "1.000,00", "1.000,00", ""},
			Line:  4,
		}
		tx, verr := m.Map(row)
		require.Nil(t, verr)
		assert.Equal(t, int64(-1234), tx.AmountMinor)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), tx.Date)
		assert.Equal(t, "EUR", tx.Currency)
		assert.Equal(t, "pt-cgd", tx.SourceFormat)
		assert.Equal(t, 4, tx.SourceLine)
		assert.Equal(t, transaction.SubtypeCardPresent, tx.Subtype)
		assert.Equal(t, "PINGO DOCE ALVALADE", tx.Merchant)
	})

	t.Run("credit populated yields positive minor units", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"03-01-2024", "03-01-2024", "ORDENADO EMPRESA", "", "50,00", "", "", ""},
			Line:  5,
		}
		tx, verr := m.Map(row)
		require.Nil(t, verr)
		assert.Equal(t, int64(5000), tx.AmountMinor)
		assert.Empty(t, tx.Subtype)
		assert.Equal(t, "ORDENADO EMPRESA", tx.Merchant)
	})

	t.Run("both populated is a validation error", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"03-01-2024", "03-01-2024", "X", "10,00", "20,00", "", "", ""},
			Line:  6,
		}
		tx, verr := m.Map(row)
		assert.Nil(t, tx)
		require.NotNil(t, verr)
		assert.Equal(t, 6, verr.Line)
		assert.Equal(t, catalog.FieldAmount, verr.Field)
	})

	t.Run("both empty is a validation error", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"03-01-2024", "03-01-2024", "X", "", "", "", "", ""},
			Line:  7,
		}
		tx, verr := m.Map(row)
		assert.Nil(t, tx)
		assert.NotNil(t, verr)
	})

	t.Run("unparsable date rejects the row", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"not-a-date", "", "X", "10,00", "", "", "", ""},
			Line:  8,
		}
		tx, verr := m.Map(row)
		assert.Nil(t, tx)
		require.NotNil(t, verr)
		assert.Equal(t, catalog.FieldDate, verr.Field)
	})
}

func TestMapTypeFlag(t *testing.T) {
	desc := mustDescriptor(t, "nl-ing")
	header := []string{"Datum", "Naam / Omschrijving", "Rekening", "Tegenrekening", "Code", "Af Bij", "Bedrag (EUR)", "MutatieSoort", "Mededelingen"}
	m := New(desc, header)

	t.Run("Af flag makes the amount negative", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"20240102", "Betaalautomaat ALBERT HEIJN", "", "", "BA", "Af", "23,45", "", ""},
			Line:  2,
		}
		tx, verr := m.Map(row)
		require.Nil(t, verr)
		assert.Equal(t, int64(-2345), tx.AmountMinor)
		assert.Equal(t, transaction.SubtypeCardPresent, tx.Subtype)
		assert.Equal(t, "ALBERT HEIJN", tx.Merchant)
	})

	t.Run("Bij flag keeps the amount positive", func(t *testing.T) {
		row := parser.RawRow{
			Cells: []string{"20240103", "Overschrijving J JANSEN", "", "", "GT", "Bij", "100,00", "", ""},
			Line:  3,
		}
		tx, verr := m.Map(row)
		require.Nil(t, verr)
		assert.Equal(t, int64(10000), tx.AmountMinor)
	})
}

func TestMapSingleSigned(t *testing.T) {
	desc := mustDescriptor(t, "uk-revolut")
	m := New(desc, nil)

	row := parser.RawRow{
		Cells: []string{"CARD_PAYMENT", "Current", "2024-01-02 10:15:00", "2024-01-03 09:00:00", "Tesco Stores", "-12.50", "0.00", "GBP", "COMPLETED", "120.00"},
		Line:  2,
	}
	tx, verr := m.Map(row)
	require.Nil(t, verr)
	assert.Equal(t, int64(-1250), tx.AmountMinor)
	assert.Equal(t, "GBP", tx.Currency)
}

func TestCurrencyColumnOverride(t *testing.T) {
	desc := &catalog.Descriptor{
		Key:        "test",
		Currency:   "EUR",
		DateFormat: "YYYY-MM-DD",
		Columns: []catalog.ColumnRef{
			{Field: catalog.FieldDate, Index: 0},
			{Field: catalog.FieldDescription, Index: 1},
			{Field: catalog.FieldAmount, Index: 2},
			{Field: catalog.FieldCurrency, Index: 3},
		},
		Convention: catalog.SingleSigned,
	}
	m := New(desc, nil)

	tx, verr := m.Map(parser.RawRow{Cells: []string{"2024-01-02", "Coffee", "-4.50", "usd"}, Line: 1})
	require.Nil(t, verr)
	assert.Equal(t, "USD", tx.Currency)

	tx, verr = m.Map(parser.RawRow{Cells: []string{"2024-01-02", "Coffee", "-4.50", ""}, Line: 2})
	require.Nil(t, verr)
	assert.Equal(t, "EUR", tx.Currency)
}

func TestMerchantRuleOrder(t *testing.T) {
	desc := mustDescriptor(t, "pt-cgd")
	m := New(desc, nil)

	// The MB WAY rule precedes the generic transfer rule and must win.
	row := parser.RawRow{
		Cells: []string{"02-01-2024", "", "MB WAY JOAO SILVA", "5,00", "", "", "", ""},
		Line:  2,
	}
	tx, verr := m.Map(row)
	require.Nil(t, verr)
	assert.Equal(t, transaction.SubtypeTransfer, tx.Subtype)
	assert.Equal(t, "JOAO SILVA", tx.Merchant)
}
