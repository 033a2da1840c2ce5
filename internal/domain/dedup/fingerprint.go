// Package dedup classifies normalized transactions against previously
// imported ones: exact fingerprints identify the same event recorded twice,
// fuzzy fingerprints gather candidates for a secondary similarity score.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/FACorreiaa/statement-import/internal/domain/normalizer"
	"github.com/FACorreiaa/statement-import/internal/domain/transaction"
	"github.com/FACorreiaa/statement-import/pkg/money"
)

// ExactKey builds the deterministic fingerprint of one transaction: two rows
// sharing it are the same real event. Reference codes embedded in the
// description do not change the key.
func ExactKey(tx *transaction.Canonical) string {
	payload := fmt.Sprintf("%s|%d|%s",
		tx.Date.Format("2006-01-02"),
		tx.AmountMinor,
		normalizer.NormalizeForFingerprint(tx.RawDescription),
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// FuzzyKey builds the coarse candidate-gathering key: year-month, the amount
// rounded to the nearest roundTo minor units, and the first tokenCount
// normalized merchant tokens. Collisions are candidates, never verdicts.
func FuzzyKey(tx *transaction.Canonical, roundTo int64, tokenCount int) string {
	rounded := money.New(tx.AmountMinor, tx.Currency).Round(roundTo).Amount()
	tokens := normalizer.FingerprintTokens(tx.Merchant, tokenCount)
	return fmt.Sprintf("%s|%d|%s", tx.YearMonth(), rounded, strings.Join(tokens, " "))
}
