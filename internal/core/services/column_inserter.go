package services

import (
	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
)

// ColumnInserter injects the rendered rate into each record at a position
// computed once from the header and the configured anchor. The anchor is
// never re-resolved per record; a row's own field happening to equal the
// anchor name is irrelevant.
type ColumnInserter struct {
	index int
}

// NewColumnInserter computes the insertion index. With no anchor the new
// column is appended after the last field; with an anchor it lands directly
// after the anchor column. width is the pre-insertion field count.
func NewColumnInserter(header domain.Header, width int, anchor string) (*ColumnInserter, error) {
	if anchor == "" {
		return &ColumnInserter{index: width}, nil
	}
	anchorIndex, err := ResolveColumn(header, anchor)
	if err != nil {
		return nil, err
	}
	if anchorIndex >= width {
		return nil, apperrors.NewConfigError("anchor column index %d is outside a %d-field record", anchorIndex, width)
	}
	return &ColumnInserter{index: anchorIndex + 1}, nil
}

// Index returns the computed insertion position.
func (ci *ColumnInserter) Index() int { return ci.index }

// Apply returns a copy of record with value inserted at the computed index,
// shifting later fields right by one. record must have the pre-insertion
// width the inserter was built for.
func (ci *ColumnInserter) Apply(record domain.Record, value string) domain.Record {
	out := make(domain.Record, 0, len(record)+1)
	out = append(out, record[:ci.index]...)
	out = append(out, value)
	out = append(out, record[ci.index:]...)
	return out
}
