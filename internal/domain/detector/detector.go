// Package detector scores catalog descriptors against a sniffed sample and
// picks the best-matching bank format, falling back to a generic descriptor
// inferred from header text when nothing clears the acceptance threshold.
package detector

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/statement-import/internal/domain/catalog"
	"github.com/FACorreiaa/statement-import/internal/domain/normalizer"
)

// Scoring weights. The acceptance threshold is the fraction of a descriptor's
// maximum attainable score the winner must reach.
const (
	identifierWeight    = 2.0
	columnCoverWeight   = 3.0
	exactHeaderBonus    = 2.0
	dateParseCredit     = 1.0
	acceptanceThreshold = 0.3
)

// Sample is the parsed evidence detection works from.
type Sample struct {
	Content      string     // decoded file content (or a prefix of it)
	FilenameHint string     // optional, weak signal only
	Header       []string   // sniffed header cells, nil when headerless
	Rows         [][]string // first data rows
}

// Match is the detection outcome.
type Match struct {
	Descriptor *catalog.Descriptor
	// Confidence is the winner's score normalized by its maximum attainable
	// score, in [0,1].
	Confidence float64
	// Generic is true when no catalog entry cleared the threshold and the
	// descriptor was inferred from header keywords instead.
	Generic bool
}

// Detect scores every registered descriptor against the sample and returns
// the strict-maximum scorer if it clears the acceptance threshold. Ties keep
// the first-registered descriptor. Detection is deterministic: identical
// samples always produce the identical match and confidence.
func Detect(registry *catalog.Registry, sample Sample) Match {
	haystack := strings.ToLower(sample.Content + "\n" + sample.FilenameHint)

	var (
		best      *catalog.Descriptor
		bestScore = -1.0
		bestConf  float64
	)

	for _, desc := range registry.All() {
		score, max := scoreDescriptor(desc, sample, haystack)
		if max == 0 {
			continue
		}
		// Strictly-highest wins; first registered keeps ties.
		if score > bestScore {
			best = desc
			bestScore = score
			bestConf = score / max
		}
	}

	if best != nil && bestConf >= acceptanceThreshold {
		return Match{Descriptor: best, Confidence: bestConf}
	}

	// No catalog entry cleared the threshold: best-effort generic format,
	// confidence reported as the losing best so callers see how close it was.
	return Match{
		Descriptor: genericDescriptor(sample),
		Confidence: bestConf,
		Generic:    true,
	}
}

// scoreDescriptor returns the aggregate score and the maximum attainable
// score for one descriptor.
func scoreDescriptor(desc *catalog.Descriptor, sample Sample, haystack string) (score, max float64) {
	// Identifier hits, deduplicated: each declared identifier counts once no
	// matter how often it appears.
	if len(desc.Identifiers) > 0 {
		max += identifierWeight * float64(len(desc.Identifiers))
		score += identifierWeight * float64(countIdentifierHits(desc.Identifiers, haystack))
	}

	// Fraction of declared source columns present among header cells.
	names := desc.SourceColumnNames()
	if len(names) > 0 && len(sample.Header) > 0 {
		max += columnCoverWeight
		score += columnCoverWeight * columnCoverage(names, sample.Header)
	} else if len(names) > 0 {
		max += columnCoverWeight
	}

	// Exact declared header match after case/whitespace normalization.
	if desc.SampleHeader != "" {
		max += exactHeaderBonus
		if len(sample.Header) > 0 && headerEquals(desc.SampleHeader, sample.Header, desc.Delimiter) {
			score += exactHeaderBonus
		}
	}

	// A sample date cell parsing under the declared convention. Rows above
	// the real header may hold metadata, so every sampled row gets a try.
	max += dateParseCredit
	if dateCol, ok := desc.Column(catalog.FieldDate); ok {
		for _, row := range sample.Rows {
			cell := cellAt(row, sample.Header, dateCol)
			if cell != "" && normalizer.TryParseDate(cell, desc.DateFormat) {
				score += dateParseCredit
				break
			}
		}
	}

	return score, max
}

// countIdentifierHits runs one Aho-Corasick pass over the haystack and
// returns how many distinct identifiers were found.
func countIdentifierHits(identifiers []string, haystack string) int {
	needles := make([][]byte, len(identifiers))
	for i, id := range identifiers {
		needles[i] = []byte(strings.ToLower(id))
	}
	matcher := ahocorasick.NewMatcher(needles)

	hits := matcher.Match([]byte(haystack))
	seen := make(map[int]struct{}, len(hits))
	for _, idx := range hits {
		seen[idx] = struct{}{}
	}
	return len(seen)
}

// columnCoverage is the fraction of declared column names found among the
// header cells, exactly or as a substring, case-insensitively.
func columnCoverage(names []string, header []string) float64 {
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = strings.ToLower(strings.TrimSpace(h))
	}

	found := 0
	for _, name := range names {
		needle := strings.ToLower(strings.TrimSpace(name))
		for _, cell := range cells {
			if cell == "" {
				continue
			}
			if cell == needle || strings.Contains(cell, needle) || strings.Contains(needle, cell) {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(names))
}

// headerEquals compares the declared sample header against the sniffed cells
// after normalizing case, quotes, and whitespace.
func headerEquals(declared string, header []string, delim rune) bool {
	declaredCells := strings.Split(declared, string(delim))
	if len(declaredCells) != len(header) {
		return false
	}
	for i, cell := range declaredCells {
		if normalizeHeaderCell(cell) != normalizeHeaderCell(header[i]) {
			return false
		}
	}
	return true
}

func normalizeHeaderCell(cell string) string {
	cell = strings.Trim(strings.TrimSpace(cell), `"`)
	return strings.Join(strings.Fields(strings.ToLower(cell)), " ")
}

// cellAt resolves a column reference against a row: by header name when a
// header is present, by declared index otherwise.
func cellAt(row []string, header []string, ref catalog.ColumnRef) string {
	if len(header) > 0 && ref.Name != "" {
		for i, h := range header {
			if normalizeHeaderCell(h) == normalizeHeaderCell(ref.Name) {
				if i < len(row) {
					return strings.TrimSpace(row[i])
				}
				return ""
			}
		}
	}
	if ref.Index >= 0 && ref.Index < len(row) {
		return strings.TrimSpace(row[ref.Index])
	}
	return ""
}
