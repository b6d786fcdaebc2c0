package domain

// Record is one CSV row: an ordered sequence of string fields.
type Record []string

// Header names the fields of a CSV input, in field order.
type Header []string

// Index returns the position of the named column, or -1 when the header does
// not contain it.
func (h Header) Index(name string) int {
	for i, col := range h {
		if col == name {
			return i
		}
	}
	return -1
}
