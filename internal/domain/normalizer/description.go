package normalizer

import (
	"regexp"
	"strings"
)

var (
	spacePattern    = regexp.MustCompile(`\s+`)
	refCodePattern  = regexp.MustCompile(`\d{4,}`)
	punctPattern    = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
	trailingRefsPat = regexp.MustCompile(`\s+\d{4,}$`)
)

// noiseTokens are payment-rail words that carry no identity: two descriptions
// differing only in these still describe the same merchant.
var noiseTokens = map[string]struct{}{
	"purchase": {}, "payment": {}, "debit": {}, "credit": {},
	"pos": {}, "card": {}, "eftpos": {}, "transfer": {},
	"compra": {}, "pagamento": {}, "pago": {},
}

// CleanDescription trims and collapses whitespace and strips trailing
// reference numbers. It preserves case and wording otherwise.
func CleanDescription(raw string) string {
	result := strings.TrimSpace(raw)
	result = spacePattern.ReplaceAllString(result, " ")
	result = trailingRefsPat.ReplaceAllString(result, "")
	return result
}

// NormalizeForFingerprint reduces a description to its identity-bearing core:
// lowercase, punctuation stripped, numeric runs of length >= 4 removed
// (reference codes), noise tokens dropped, whitespace collapsed. Two exports
// of the same transaction normalize to the same string even when the bank
// re-stamped its reference number.
func NormalizeForFingerprint(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = refCodePattern.ReplaceAllString(s, " ")
	s = punctPattern.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, noisy := noiseTokens[f]; noisy {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// FingerprintTokens returns the normalized tokens of a description, capped at
// limit (0 means all). Used for the fuzzy-key merchant prefix and for
// token-overlap scoring.
func FingerprintTokens(raw string, limit int) []string {
	tokens := strings.Fields(NormalizeForFingerprint(raw))
	if limit > 0 && len(tokens) > limit {
		tokens = tokens[:limit]
	}
	return tokens
}
