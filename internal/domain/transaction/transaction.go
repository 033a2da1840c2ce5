// Package transaction defines the canonical transaction record produced by the
// import pipeline. Everything downstream of field mapping operates on this type.
package transaction

import (
	"time"

	"github.com/FACorreiaa/statement-import/pkg/money"
)

// Subtype labels assigned by merchant-pattern rules. A transaction with no
// matching rule stays untagged.
const (
	SubtypeCardPresent = "card-present"
	SubtypeDirectDebit = "direct-debit"
	SubtypeTransfer    = "transfer"
	SubtypeATM         = "atm"
	SubtypeFee         = "fee"
	SubtypeStanding    = "standing-order"
)

// Canonical is a normalized transaction record independent of source-bank
// formatting. Amounts are signed minor units: negative = outflow,
// positive = inflow, regardless of the source format's own convention.
type Canonical struct {
	Date           time.Time // calendar date, time component zeroed, UTC
	AmountMinor    int64
	Currency       string
	RawDescription string
	Merchant       string // cleaned merchant string
	Subtype        string // empty when no merchant rule matched
	SourceFormat   string // key of the descriptor that produced this record
	SourceLine     int    // 1-based line number in the export file
}

// Amount returns the amount as a currency-aware value.
func (c *Canonical) Amount() *money.Money {
	return money.New(c.AmountMinor, c.Currency)
}

// IsOutflow reports whether the transaction moves money out of the account.
func (c *Canonical) IsOutflow() bool {
	return c.AmountMinor < 0
}

// YearMonth returns the transaction month as "2006-01", the coarse date
// bucket used by fuzzy fingerprinting.
func (c *Canonical) YearMonth() string {
	return c.Date.Format("2006-01")
}
