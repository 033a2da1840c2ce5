package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		decimalComma bool
		want         int64
		wantErr      error
	}{
		{name: "american decimal", raw: "1,234.56", want: 123456},
		{name: "european decimal", raw: "1.234,56", decimalComma: true, want: 123456},
		{name: "plain", raw: "12.34", want: 1234},
		{name: "negative", raw: "-12.34", want: -1234},
		{name: "currency symbol stripped", raw: "€ 4,50", decimalComma: true, want: 450},
		{name: "accounting parentheses", raw: "(50.00)", want: -5000},
		{name: "integer", raw: "500", want: 50000},
		{name: "empty", raw: "", wantErr: ErrEmptyAmount},
		{name: "letters only", raw: "n/a", wantErr: ErrEmptyAmount},
		{name: "separator soup", raw: "1,2,3.4.5", wantErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw, "EUR", tt.decimalComma)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDebitCredit(t *testing.T) {
	t.Run("debit becomes outflow", func(t *testing.T) {
		got, err := ResolveDebitCredit("12.34", "", "EUR", false)
		require.NoError(t, err)
		assert.Equal(t, int64(-1234), got)
	})

	t.Run("credit becomes inflow", func(t *testing.T) {
		got, err := ResolveDebitCredit("", "50.00", "EUR", false)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), got)
	})

	t.Run("both populated is invalid", func(t *testing.T) {
		_, err := ResolveDebitCredit("12.34", "50.00", "EUR", false)
		assert.ErrorIs(t, err, ErrAmbiguousDebitCredit)
	})

	t.Run("both empty is invalid", func(t *testing.T) {
		_, err := ResolveDebitCredit("", "", "EUR", false)
		assert.ErrorIs(t, err, ErrAmbiguousDebitCredit)
	})

	t.Run("already-negative debit stays negative", func(t *testing.T) {
		got, err := ResolveDebitCredit("-12.34", "", "EUR", false)
		require.NoError(t, err)
		assert.Equal(t, int64(-1234), got)
	})
}

func TestResolveFlaggedAmount(t *testing.T) {
	debitFlags := []string{"Af", "D", "DR"}

	t.Run("debit flag negates", func(t *testing.T) {
		got, err := ResolveFlaggedAmount("12,34", "Af", debitFlags, "EUR", true)
		require.NoError(t, err)
		assert.Equal(t, int64(-1234), got)
	})

	t.Run("flag comparison is case-insensitive", func(t *testing.T) {
		got, err := ResolveFlaggedAmount("12,34", "dr", debitFlags, "EUR", true)
		require.NoError(t, err)
		assert.Equal(t, int64(-1234), got)
	})

	t.Run("other flag means inflow", func(t *testing.T) {
		got, err := ResolveFlaggedAmount("12,34", "Bij", debitFlags, "EUR", true)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), got)
	})

	t.Run("empty flag rejected", func(t *testing.T) {
		_, err := ResolveFlaggedAmount("12,34", "", debitFlags, "EUR", true)
		assert.ErrorIs(t, err, ErrUnknownTypeFlag)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format string
		want   string
	}{
		{"european dashes", "15-01-2024", "DD-MM-YYYY", "2024-01-15"},
		{"european slashes", "15/01/2024", "DD/MM/YYYY", "2024-01-15"},
		{"american", "01/15/2024", "MM/DD/YYYY", "2024-01-15"},
		{"iso", "2024-01-15", "YYYY-MM-DD", "2024-01-15"},
		{"compact", "20240115", "YYYYMMDD", "2024-01-15"},
		{"datetime truncated to date", "2024-01-15 13:45:00", "YYYY-MM-DD HH:mm:ss", "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
			assert.Zero(t, got.Hour())
		})
	}

	t.Run("wrong convention rejected", func(t *testing.T) {
		_, err := ParseDate("15/01/2024", "MM/DD/YYYY")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := ParseDate("  ", "DD-MM-YYYY")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "PINGO DOCE ALVALADE", CleanDescription("  PINGO   DOCE ALVALADE  123456 "))
	assert.Equal(t, "Coffee Shop", CleanDescription("Coffee\tShop"))
}

func TestNormalizeForFingerprint(t *testing.T) {
	t.Run("reference codes vanish", func(t *testing.T) {
		a := NormalizeForFingerprint("EFTPOS 1234567 Coffee Shop")
		b := NormalizeForFingerprint("EFTPOS 9876543 Coffee Shop")
		assert.Equal(t, a, b)
		assert.Equal(t, "coffee shop", a)
	})

	t.Run("noise tokens and punctuation vanish", func(t *testing.T) {
		assert.Equal(t, "netflix com",
			NormalizeForFingerprint("PURCHASE NETFLIX.COM - CARD PAYMENT"))
	})

	t.Run("short numbers survive", func(t *testing.T) {
		assert.Equal(t, "store 42", NormalizeForFingerprint("Store 42"))
	})
}

func TestFingerprintTokens(t *testing.T) {
	tokens := FingerprintTokens("PINGO DOCE ALVALADE LISBOA", 2)
	assert.Equal(t, []string{"pingo", "doce"}, tokens)

	all := FingerprintTokens("PINGO DOCE", 0)
	assert.Len(t, all, 2)
}
