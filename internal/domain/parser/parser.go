// Package parser turns decoded delimited text into raw rows, tolerating
// malformed lines up to a configurable error-rate ceiling.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooManyBadRows is returned when the malformed-row rate exceeds the
// configured ceiling and the parse aborts as a whole.
var ErrTooManyBadRows = errors.New("malformed row rate exceeds ceiling")

// RawRow is one data row as split from the file, before any field mapping.
type RawRow struct {
	Cells []string
	Line  int // 1-based line number in the original file
}

// RowError records one rejected row. It is collected, not raised.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Config drives one parse call.
type Config struct {
	Delimiter rune
	SkipRows  int  // metadata lines above the header
	HasHeader bool // first non-skipped record is a header, not data
	// ErrorRateCeiling is the malformed/total fraction above which the
	// parse fails fatally. Zero disables the ceiling.
	ErrorRateCeiling float64
}

// Result is the outcome of a successful (possibly lossy) parse.
type Result struct {
	Header []string
	Rows   []RawRow
	Errors []RowError
	// Total counts data rows considered, accepted and rejected alike.
	Total int
}

// Parse splits decoded content into rows. Quoted cells may contain the
// delimiter and embedded newlines. A row whose field count does not match the
// count established by the header (or the first data row) is recorded as a
// RowError and excluded; the parse itself fails only when the error rate
// exceeds the ceiling.
func Parse(content []byte, cfg Config) (*Result, error) {
	text, skippedLines := dropLeadingLines(string(content), cfg.SkipRows)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = cfg.Delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false

	result := &Result{}
	expected := 0

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Errors = append(result.Errors, RowError{
					Line:   parseErr.Line + skippedLines,
					Reason: parseErr.Err.Error(),
				})
				result.Total++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		if isBlank(record) {
			continue
		}

		line, _ := r.FieldPos(0)
		line += skippedLines

		if result.Header == nil && cfg.HasHeader {
			result.Header = record
			expected = effectiveFieldCount(record)
			continue
		}
		if expected == 0 {
			expected = effectiveFieldCount(record)
		}

		result.Total++
		// A shortfall is fine when it comes entirely from empty trailing
		// cells: the row still carries a value slot for every column.
		if got := effectiveFieldCount(record); got > expected ||
			(got < expected && len(record) < expected) {
			result.Errors = append(result.Errors, RowError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", expected, got),
			})
			continue
		}
		result.Rows = append(result.Rows, RawRow{Cells: record, Line: line})
	}

	if cfg.ErrorRateCeiling > 0 && result.Total > 0 {
		rate := float64(len(result.Errors)) / float64(result.Total)
		if rate > cfg.ErrorRateCeiling {
			return nil, fmt.Errorf("%w: %d of %d rows malformed",
				ErrTooManyBadRows, len(result.Errors), result.Total)
		}
	}

	return result, nil
}

// dropLeadingLines removes metadata lines above the header so they are never
// interpreted as data, returning the remainder and how many lines were cut.
func dropLeadingLines(text string, n int) (string, int) {
	if n <= 0 {
		return text, 0
	}
	dropped := 0
	for dropped < n {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			return "", dropped + 1
		}
		text = text[idx+1:]
		dropped++
	}
	return text, dropped
}

// effectiveFieldCount ignores trailing empty cells so a stray trailing
// delimiter does not fail an otherwise well-formed row.
func effectiveFieldCount(record []string) int {
	n := len(record)
	for n > 0 && strings.TrimSpace(record[n-1]) == "" {
		n--
	}
	return n
}

func isBlank(record []string) bool {
	return effectiveFieldCount(record) == 0
}
