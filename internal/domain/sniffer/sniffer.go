// Package sniffer infers a delimited file's encoding, delimiter, and header
// presence directly from content, with no catalog knowledge.
package sniffer

import (
	"encoding/csv"
	"errors"
	"strings"
	"time"
	"unicode"
)

// sampleLineCount is how many non-empty lines delimiter inference examines.
const sampleLineCount = 10

// candidates is the fixed delimiter candidate set in priority order; earlier
// entries win ties.
var candidates = []rune{',', ';', '\t', '|'}

var ErrEmptyFile = errors.New("file is empty")

// Result holds the sniffed configuration for a delimited file.
type Result struct {
	Encoding   string
	Delimiter  rune
	FieldCount int  // consistent field count under the chosen delimiter
	HasHeader  bool
	// EncodingAmbiguous is set when encoding detection had to guess.
	EncodingAmbiguous bool
	// LowConfidence is set when no delimiter produced a consistent field
	// count of at least two, or when the encoding was ambiguous. Parsing
	// proceeds with the best-effort choice.
	LowConfidence bool
}

// Sniff decodes raw file bytes to UTF-8 and infers delimiter and header
// presence from the first lines. It never fails on odd content; the only
// error is an empty or undecodable input.
func Sniff(data []byte) ([]byte, *Result, error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyFile
	}

	decoded, decodeInfo, err := DecodeToUTF8(data)
	if err != nil {
		return nil, nil, err
	}
	if len(strings.TrimSpace(string(decoded))) == 0 {
		return nil, nil, ErrEmptyFile
	}

	lines := sampleLines(string(decoded), sampleLineCount)

	delimiter, fieldCount, consistent := inferDelimiter(lines)
	result := &Result{
		Encoding:          decodeInfo.Encoding,
		Delimiter:         delimiter,
		FieldCount:        fieldCount,
		EncodingAmbiguous: decodeInfo.Ambiguous,
		LowConfidence:     decodeInfo.Ambiguous || !consistent,
	}
	result.HasHeader = looksLikeHeader(lines, delimiter)

	return decoded, result, nil
}

// sampleLines returns up to max non-empty lines, CR-trimmed.
func sampleLines(content string, max int) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= max {
			break
		}
	}
	return lines
}

// inferDelimiter evaluates every candidate over the sample lines. A candidate
// is consistent when every line yields the same field count, allowing smaller
// counts explainable by empty trailing fields. The candidate with the highest
// consistent field count wins; ties go to the earlier candidate. When no
// candidate is consistent with count >= 2, the best-effort candidate is
// returned with consistent=false.
func inferDelimiter(lines []string) (rune, int, bool) {
	bestDelim := candidates[0]
	bestCount := 0
	found := false

	for _, cand := range candidates {
		count, ok := consistentFieldCount(lines, cand)
		if ok && count >= 2 && count > bestCount {
			bestDelim = cand
			bestCount = count
			found = true
		}
	}
	if found {
		return bestDelim, bestCount, true
	}

	// Best effort: the candidate splitting the first line into the most
	// fields, still honoring candidate priority on ties.
	bestDelim, bestCount = candidates[0], 1
	if len(lines) > 0 {
		for _, cand := range candidates {
			if n := len(SplitLine(lines[0], cand)); n > bestCount {
				bestDelim, bestCount = cand, n
			}
		}
	}
	return bestDelim, bestCount, false
}

// consistentFieldCount returns the dominant field count for a delimiter, and
// whether every sampled line matches it modulo empty trailing fields.
func consistentFieldCount(lines []string, delim rune) (int, bool) {
	if len(lines) == 0 {
		return 0, false
	}

	// Trailing empty fields are writer noise (a stray trailing delimiter)
	// and are ignored for counting.
	counts := make([]int, 0, len(lines))
	freq := make(map[int]int)
	for _, line := range lines {
		fields := SplitLine(line, delim)
		n := len(fields)
		for n > 0 && strings.TrimSpace(fields[n-1]) == "" {
			n--
		}
		counts = append(counts, n)
		freq[n]++
	}

	// Dominant count: most frequent, larger wins ties.
	dominant := 0
	for count, n := range freq {
		if n > freq[dominant] || (n == freq[dominant] && count > dominant) {
			dominant = count
		}
	}

	for _, n := range counts {
		// Smaller counts are explainable: the writer omitted trailing
		// delimiters for empty fields. Larger counts are real extra data.
		if n > dominant {
			return dominant, false
		}
	}
	return dominant, true
}

// SplitLine splits one line on a delimiter, honoring standard quoting.
// Falls back to a naive split when quoting is malformed.
func SplitLine(line string, delim rune) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return fields
}

// looksLikeHeader compares the first two rows cell-by-cell: row 1 is a header
// when a strict majority of its cells are non-numeric and non-date while a
// majority of row 2's aligned cells parse as numbers or dates.
func looksLikeHeader(lines []string, delim rune) bool {
	if len(lines) < 2 {
		return false
	}

	row1 := SplitLine(strings.TrimPrefix(lines[0], "\uFEFF"), delim)
	row2 := SplitLine(lines[1], delim)

	textish := 0
	for _, cell := range row1 {
		if !cellIsValueLike(cell) {
			textish++
		}
	}
	if textish*2 <= len(row1) { // need strict majority
		return false
	}

	aligned := len(row1)
	if len(row2) < aligned {
		aligned = len(row2)
	}
	if aligned == 0 {
		return false
	}
	valueish := 0
	for i := 0; i < aligned; i++ {
		if cellIsValueLike(row2[i]) {
			valueish++
		}
	}
	return valueish*2 >= aligned
}

// cellIsValueLike reports whether a cell parses as a number or a date.
func cellIsValueLike(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}
	if isNumeric(cell) {
		return true
	}
	for _, layout := range []string{
		"2006-01-02", "02/01/2006", "01/02/2006", "02-01-2006",
		"02.01.2006", "2006/01/02", "20060102",
	} {
		if _, err := time.Parse(layout, cell); err == nil {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '-' || r == '+' || r == ' ' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits > 0
}
