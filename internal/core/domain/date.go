package domain

import (
	"fmt"
	"time"
)

// keyLayout is the canonical rendering used for cache keys and diagnostics.
const keyLayout = "2006-01-02"

// Date is a canonical calendar day. It carries no time-of-day or zone; two
// Dates parsed from different string renderings of the same day compare equal
// and share a cache key.
type Date struct {
	t time.Time
}

// ParseDate parses text against a Go reference layout. It fails when the text
// does not match the layout or names an impossible calendar day, such as
// April 31st.
func ParseDate(text, layout string) (Date, error) {
	t, err := time.Parse(layout, text)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q with layout %q: %w", text, layout, err)
	}
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// NewDate builds a Date from its calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Render formats the date with a Go reference layout. It is total: any valid
// Date renders under any layout.
func (d Date) Render(layout string) string {
	return d.t.Format(layout)
}

// Key returns the canonical ISO form of the date.
func (d Date) Key() string {
	return d.t.Format(keyLayout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.Key() }
