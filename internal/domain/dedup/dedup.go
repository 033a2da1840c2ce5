package dedup

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/statement-import/internal/domain/normalizer"
	"github.com/FACorreiaa/statement-import/internal/domain/transaction"
)

// Classification of one transaction relative to the store and the batch.
type Classification string

const (
	ClassNew               Classification = "new"
	ClassExactDuplicate    Classification = "exact-duplicate"
	ClassProbableDuplicate Classification = "probable-duplicate"
)

// Candidate is the slim view of a previously imported transaction that the
// similarity score needs.
type Candidate struct {
	Date        time.Time
	AmountMinor int64
	Description string
	Merchant    string
}

// FingerprintSource is the read-only snapshot of existing fingerprints
// supplied by the persistence layer. The detector never writes through it.
type FingerprintSource interface {
	HasExactFingerprint(key string) bool
	ExistingFuzzyCandidates(key string) []Candidate
}

// Options tune the fuzzy stage. Zero values fall back to the documented
// defaults.
type Options struct {
	Threshold           float64 // combined score needed to flag a probable duplicate
	AmountTolerancePct  float64
	DateToleranceDays   int
	MerchantTokenCount  int
	FuzzyRoundingFactor int64
}

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = 0.85
	}
	if o.AmountTolerancePct == 0 {
		o.AmountTolerancePct = 1.0
	}
	if o.DateToleranceDays == 0 {
		o.DateToleranceDays = 3
	}
	if o.MerchantTokenCount == 0 {
		o.MerchantTokenCount = 2
	}
	if o.FuzzyRoundingFactor == 0 {
		o.FuzzyRoundingFactor = 1000
	}
	return o
}

// Similarity signal weights. They must sum to 1 so the combined score stays
// in [0,1].
const (
	amountWeight      = 0.4
	dateWeight        = 0.3
	descriptionWeight = 0.2
	merchantWeight    = 0.1
)

// Outcome annotates one batch transaction with its classification.
type Outcome struct {
	Tx    *transaction.Canonical
	Class Classification
	// Similarity is the best fuzzy score found, set only for probable
	// duplicates.
	Similarity float64
}

// Detector classifies one batch against one fingerprint snapshot. It keeps
// no state between batches; concurrent imports each build their own.
type Detector struct {
	opts Options
}

func NewDetector(opts Options) *Detector {
	return &Detector{opts: opts.withDefaults()}
}

// Classify processes the batch in order. Exact duplicates keep only the first
// occurrence, store before batch. Fuzzy collisions are scored; only scores at
// or above the threshold flag a probable duplicate, and flagging never drops
// data on its own: the outcome list always covers the whole batch.
func (d *Detector) Classify(batch []*transaction.Canonical, src FingerprintSource) []Outcome {
	outcomes := make([]Outcome, 0, len(batch))
	seenExact := make(map[string]struct{}, len(batch))
	// Earlier batch entries join the candidate pool of later ones.
	batchFuzzy := make(map[string][]Candidate, len(batch))

	for _, tx := range batch {
		exactKey := ExactKey(tx)
		fuzzyKey := FuzzyKey(tx, d.opts.FuzzyRoundingFactor, d.opts.MerchantTokenCount)

		if src.HasExactFingerprint(exactKey) {
			outcomes = append(outcomes, Outcome{Tx: tx, Class: ClassExactDuplicate})
			continue
		}
		if _, dup := seenExact[exactKey]; dup {
			outcomes = append(outcomes, Outcome{Tx: tx, Class: ClassExactDuplicate})
			continue
		}
		seenExact[exactKey] = struct{}{}

		candidates := src.ExistingFuzzyCandidates(fuzzyKey)
		candidates = append(candidates, batchFuzzy[fuzzyKey]...)
		batchFuzzy[fuzzyKey] = append(batchFuzzy[fuzzyKey], Candidate{
			Date:        tx.Date,
			AmountMinor: tx.AmountMinor,
			Description: tx.RawDescription,
			Merchant:    tx.Merchant,
		})

		best := 0.0
		for _, cand := range candidates {
			if score := d.similarity(tx, cand); score > best {
				best = score
			}
		}
		if best >= d.opts.Threshold {
			outcomes = append(outcomes, Outcome{Tx: tx, Class: ClassProbableDuplicate, Similarity: best})
			continue
		}
		outcomes = append(outcomes, Outcome{Tx: tx, Class: ClassNew})
	}

	return outcomes
}

// similarity combines four independent signals with fixed weights.
func (d *Detector) similarity(tx *transaction.Canonical, cand Candidate) float64 {
	score := 0.0
	if amountsClose(tx.AmountMinor, cand.AmountMinor, d.opts.AmountTolerancePct) {
		score += amountWeight
	}
	if datesClose(tx.Date, cand.Date, d.opts.DateToleranceDays) {
		score += dateWeight
	}
	score += descriptionWeight * tokenOverlap(tx.RawDescription, cand.Description)
	if tx.Merchant != "" && strings.EqualFold(tx.Merchant, cand.Merchant) {
		score += merchantWeight
	}
	return score
}

// amountsClose applies the tolerance band as a percentage of the larger
// magnitude. Opposite signs never match.
func amountsClose(a, b int64, tolerancePct float64) bool {
	if (a < 0) != (b < 0) {
		return false
	}
	absA, absB := abs64(a), abs64(b)
	larger := absA
	if absB > larger {
		larger = absB
	}
	if larger == 0 {
		return true
	}
	diff := absA - absB
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) <= float64(larger)*tolerancePct/100
}

func datesClose(a, b time.Time, toleranceDays int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(toleranceDays)*24*time.Hour
}

// tokenOverlap is the fraction of one description's normalized tokens found
// in the other's, relaxed by fuzzy matching so small spelling drift still
// counts. The smaller token set is the denominator.
func tokenOverlap(a, b string) float64 {
	tokensA := strings.Fields(normalizer.NormalizeForFingerprint(a))
	tokensB := strings.Fields(normalizer.NormalizeForFingerprint(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	if len(tokensA) > len(tokensB) {
		tokensA, tokensB = tokensB, tokensA
	}

	matched := 0
	for _, tok := range tokensA {
		for _, other := range tokensB {
			if tok == other || fuzzy.MatchNormalizedFold(tok, other) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(tokensA))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
