package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
	"github.com/dcozonac/csvfx/internal/core/ports"
)

// RateResolverService resolves exchange rates date by date, consulting its
// run-scoped cache before the external source. Failures are cached too: a
// date that failed once is never retried within the run, so repeated bad
// dates cannot hammer the source.
type RateResolverService struct {
	source ports.RateSource
	cache  *RateCache
}

// NewRateResolverService creates a resolver over the given source with a
// fresh cache. The cache lives exactly as long as the resolver; nothing
// persists across runs.
func NewRateResolverService(source ports.RateSource) *RateResolverService {
	return &RateResolverService{
		source: source,
		cache:  NewRateCache(),
	}
}

// Resolve returns the rate effective on date. On a cache hit the recorded
// outcome, success or failure, is replayed without an external call. On a
// miss the source is asked once and the outcome recorded under the canonical
// date.
func (s *RateResolverService) Resolve(ctx context.Context, date domain.Date) (domain.ResolvedRate, error) {
	if entry, ok := s.cache.Get(date); ok {
		return entry.Rate, entry.Err
	}

	rate, err := s.source.FetchRate(ctx, date)
	if err != nil {
		lookupErr := &apperrors.LookupError{Date: date.Key(), Cause: classifyFetchError(err)}
		s.cache.Put(date, CacheEntry{Err: lookupErr})
		return domain.ResolvedRate{}, lookupErr
	}

	resolved := domain.ResolvedRate{Date: date, Rate: rate}
	s.cache.Put(date, CacheEntry{Rate: resolved})
	return resolved, nil
}

// classifyFetchError maps source errors onto the two lookup failure classes.
// Anything the source did not already classify counts as unavailability.
func classifyFetchError(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrRateUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
}
