// Package ports declares the interfaces the core pipeline depends on,
// following the repo's ports-and-adapters layout.
package ports

import (
	"context"

	"github.com/dcozonac/csvfx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource fetches the exchange rate effective on a calendar date from an
// external source. Implementations must be idempotent within a run: the same
// date queried twice in succession returns the same answer, which is what
// makes caching sound. A date the source has no rate for is reported by
// wrapping apperrors.ErrNotFound; transport problems wrap
// apperrors.ErrRateUnavailable.
type RateSource interface {
	FetchRate(ctx context.Context, date domain.Date) (decimal.Decimal, error)
}

// RateResolver resolves the rate for a date, consulting its run-scoped cache
// before the external source. A failed resolution surfaces as a
// *apperrors.LookupError.
type RateResolver interface {
	Resolve(ctx context.Context, date domain.Date) (domain.ResolvedRate, error)
}
