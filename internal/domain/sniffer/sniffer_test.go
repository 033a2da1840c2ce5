package sniffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/encoding/charmap"
)

func TestSniff(t *testing.T) {
	t.Run("comma delimited with header", func(t *testing.T) {
		data := []byte(
			"Date,Description,Amount,Balance\n" +
				"2024-01-02,Coffee Shop,-4.50,995.50\n" +
				"2024-01-03,Salary,1500.00,2495.50\n" +
				"2024-01-04,Groceries,-62.10,2433.40\n" +
				"2024-01-05,Rent,-800.00,1633.40\n")

		decoded, result, err := Sniff(data)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
		assert.Equal(t, ',', rune(result.Delimiter))
		assert.Equal(t, 4, result.FieldCount)
		assert.True(t, result.HasHeader)
		assert.False(t, result.LowConfidence)
		assert.Equal(t, "us-ascii", result.Encoding)
	})

	t.Run("semicolon beats comma when consistent", func(t *testing.T) {
		data := []byte(
			"Data;Descrição;Débito;Crédito\n" +
				"02-01-2024;COMPRA 1234 MERCADO;12,50;\n" +
				"03-01-2024;TRF ORDENADO;;1.500,00\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.Equal(t, ';', rune(result.Delimiter))
		assert.Equal(t, 4, result.FieldCount)
		// Decimal commas inside semicolon-delimited cells must not flip
		// inference toward comma.
		assert.True(t, result.HasHeader)
	})

	t.Run("pipe delimited without header", func(t *testing.T) {
		data := []byte(
			"02/01/2024|EFTPOS COFFEE SHOP|-4.50|995.50\n" +
				"03/01/2024|SALARY|1500.00|2495.50\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.Equal(t, '|', rune(result.Delimiter))
		assert.Equal(t, 4, result.FieldCount)
		assert.False(t, result.HasHeader)
	})

	t.Run("tab delimited", func(t *testing.T) {
		data := []byte(
			"Date\tDescription\tAmount\n" +
				"2024-01-02\tCoffee\t-4.50\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.Equal(t, '\t', rune(result.Delimiter))
		assert.Equal(t, 3, result.FieldCount)
	})

	t.Run("quoted cells containing delimiters", func(t *testing.T) {
		data := []byte(
			`Date,Description,Amount` + "\n" +
				`2024-01-02,"Shop, Corner",-4.50` + "\n" +
				`2024-01-03,"Cafe ""Blue"", Central",-7.00` + "\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.Equal(t, ',', rune(result.Delimiter))
		assert.Equal(t, 3, result.FieldCount)
		assert.False(t, result.LowConfidence)
	})

	t.Run("trailing empty fields stay consistent", func(t *testing.T) {
		data := []byte(
			"Date;Description;Debit;Credit\n" +
				"02-01-2024;COMPRA;12,50\n" +
				"03-01-2024;TRF;;1.500,00;\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.Equal(t, ';', rune(result.Delimiter))
		assert.Equal(t, 4, result.FieldCount)
		assert.False(t, result.LowConfidence)
	})

	t.Run("single column is low confidence", func(t *testing.T) {
		data := []byte("just one plain line\nanother line\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.True(t, result.LowConfidence)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, err := Sniff(nil)
		assert.ErrorIs(t, err, ErrEmptyFile)

		_, _, err = Sniff([]byte("   \n  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("all numeric first row means no header", func(t *testing.T) {
		data := []byte(
			"2024-01-02,-4.50,995.50\n" +
				"2024-01-03,1500.00,2495.50\n")

		_, result, err := Sniff(data)
		require.NoError(t, err)
		assert.False(t, result.HasHeader)
	})
}

func TestLooksLikeHeaderIgnoresBOM(t *testing.T) {
	lines := []string{
		"\uFEFFDate,Description,Amount",
		"2024-01-02,Coffee,-4.50",
	}
	assert.True(t, looksLikeHeader(lines, ','))
}

func TestDecodeToUTF8(t *testing.T) {
	t.Run("plain ascii passes through", func(t *testing.T) {
		decoded, info, err := DecodeToUTF8([]byte("Date,Amount\n"))
		require.NoError(t, err)
		assert.Equal(t, "Date,Amount\n", string(decoded))
		assert.Equal(t, "us-ascii", info.Encoding)
		assert.False(t, info.Ambiguous)
	})

	t.Run("strips utf-8 BOM", func(t *testing.T) {
		decoded, info, err := DecodeToUTF8([]byte("\xef\xbb\xbfDate,Amount\n"))
		require.NoError(t, err)
		assert.Equal(t, "Date,Amount\n", string(decoded))
		assert.Equal(t, "utf-8", info.Encoding)
	})

	t.Run("decodes utf-16le with BOM", func(t *testing.T) {
		src := "Date,Amount\n"
		raw := []byte{0xff, 0xfe}
		for _, r := range src {
			raw = append(raw, byte(r), 0x00)
		}

		decoded, info, err := DecodeToUTF8(raw)
		require.NoError(t, err)
		assert.Equal(t, src, string(decoded))
		assert.Equal(t, "utf-16le", info.Encoding)
	})

	t.Run("decodes windows-1252", func(t *testing.T) {
		src := "Data;Descrição;Débito\n"
		raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(src))
		require.NoError(t, err)
		require.False(t, strings.Contains(string(raw), "ç"))

		decoded, _, err := DecodeToUTF8(raw)
		require.NoError(t, err)
		assert.Equal(t, src, string(decoded))
	})
}
