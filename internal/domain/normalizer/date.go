package normalizer

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date format")

// formatTokens maps DD/MM/YYYY-style tokens to Go reference-time layouts.
// Order matters: longer tokens must be replaced before their prefixes.
var formatTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

// LayoutFor converts a descriptor date-format token such as "DD-MM-YYYY"
// into a Go time layout.
func LayoutFor(format string) string {
	layout := format
	for _, t := range formatTokens {
		layout = strings.ReplaceAll(layout, t.token, t.layout)
	}
	return layout
}

// ParseDate parses a date cell under the declared format convention and
// truncates it to a calendar date in UTC. The time component of datetime
// formats is discarded.
func ParseDate(raw string, format string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}

	t, err := time.ParseInLocation(LayoutFor(format), raw, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// TryParseDate reports whether raw parses under the format. Used by format
// detection for the sample-date scoring signal.
func TryParseDate(raw string, format string) bool {
	_, err := ParseDate(raw, format)
	return err == nil
}
