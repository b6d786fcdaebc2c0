package services

import (
	"regexp"
	"strings"

	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
)

// RowFilter decides whether a record passes the optional COLUMN=PATTERN
// predicate. A nil *RowFilter passes everything.
type RowFilter struct {
	column  int
	pattern *regexp.Regexp
}

// NewRowFilter compiles a filter expression of the form COLUMN=PATTERN
// against the input header. COLUMN is a header name when headers are enabled
// and a 0-based index otherwise. PATTERN is an unanchored, case-sensitive
// regular expression; it matches anywhere in the column's raw text.
func NewRowFilter(expr string, header domain.Header) (*RowFilter, error) {
	column, patternText, ok := strings.Cut(expr, "=")
	if !ok {
		return nil, apperrors.NewConfigError("filter %q must be in COLUMN=PATTERN form", expr)
	}
	pattern, err := regexp.Compile(patternText)
	if err != nil {
		return nil, apperrors.NewConfigError("filter pattern %q: %v", patternText, err)
	}
	index, err := ResolveColumn(header, column)
	if err != nil {
		return nil, err
	}
	return &RowFilter{column: index, pattern: pattern}, nil
}

// Matches reports whether the record's filter column contains a match. A
// record too short to have the filter column does not match.
func (f *RowFilter) Matches(record domain.Record) bool {
	if f == nil {
		return true
	}
	if f.column >= len(record) {
		return false
	}
	return f.pattern.FindStringIndex(record[f.column]) != nil
}
