package dedup

import "github.com/FACorreiaa/statement-import/internal/domain/transaction"

// MemorySource is an in-memory fingerprint snapshot. The persistence layer
// builds one per import call; it is never mutated while a call runs.
type MemorySource struct {
	exact map[string]struct{}
	fuzzy map[string][]Candidate
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		exact: make(map[string]struct{}),
		fuzzy: make(map[string][]Candidate),
	}
}

func (s *MemorySource) HasExactFingerprint(key string) bool {
	_, ok := s.exact[key]
	return ok
}

func (s *MemorySource) ExistingFuzzyCandidates(key string) []Candidate {
	return s.fuzzy[key]
}

// Record adds one committed transaction's fingerprints to the snapshot, the
// way the store updates itself after accepting an import.
func (s *MemorySource) Record(tx *transaction.Canonical, roundTo int64, tokenCount int) {
	s.exact[ExactKey(tx)] = struct{}{}
	key := FuzzyKey(tx, roundTo, tokenCount)
	s.fuzzy[key] = append(s.fuzzy[key], Candidate{
		Date:        tx.Date,
		AmountMinor: tx.AmountMinor,
		Description: tx.RawDescription,
		Merchant:    tx.Merchant,
	})
}
