package domain

import "github.com/shopspring/decimal"

// RateScale is the number of decimal places official BNM rates are published
// with. Rendering at a fixed scale keeps the inserted value byte-identical
// for every record sharing a date.
const RateScale = 4

// ResolvedRate associates a canonical date with the exchange rate effective
// on that calendar day. It is the rate as published for the date, not an
// interpolation.
type ResolvedRate struct {
	Date Date
	Rate decimal.Decimal
}

// Rendered returns the fixed-scale string form inserted into output records.
func (r ResolvedRate) Rendered() string {
	return r.Rate.StringFixed(RateScale)
}
