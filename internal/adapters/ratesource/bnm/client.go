// Package bnm talks to the official exchange-rate export of the National
// Bank of Moldova. It is the outbound adapter behind ports.RateSource.
package bnm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
)

// DefaultBaseURL is the official-rate CSV export endpoint.
const DefaultBaseURL = "https://www.bnm.md/ro/export-official-exchange-rates"

// queryDateLayout is the DD.MM.YYYY form the export endpoint expects.
const queryDateLayout = "02.01.2006"

// preambleLines is how many non-data lines the export puts before the rates.
const preambleLines = 2

// Client fetches official exchange rates for one currency from the BNM
// export endpoint. It implements ports.RateSource; results are stable for a
// given date, so callers may cache them for a run.
type Client struct {
	baseURL  string
	currency string
	http     *http.Client
}

// NewClient creates a client for the given endpoint and ISO currency code.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, currency string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		currency: currency,
		http:     &http.Client{Timeout: timeout},
	}
}

// FetchRate retrieves the official rate effective on date. The export is a
// semicolon-separated document; the rate is the last field of the line for
// the requested currency, published with a comma decimal separator.
func (c *Client) FetchRate(ctx context.Context, date domain.Date) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s?date=%s", c.baseURL, url.QueryEscape(date.Render(queryDateLayout)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: build request: %v", apperrors.ErrRateUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("%w: unexpected status %s", apperrors.ErrRateUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: read body: %v", apperrors.ErrRateUnavailable, err)
	}

	return parseExport(string(body), c.currency)
}

// parseExport scans the export document for the currency's line and parses
// its closing rate field.
func parseExport(body, currency string) (decimal.Decimal, error) {
	marker := ";" + currency + ";"
	for i, line := range strings.Split(body, "\n") {
		if i < preambleLines || !strings.Contains(line, marker) {
			continue
		}
		fields := strings.Split(strings.TrimRight(line, "\r"), ";")
		raw := strings.ReplaceAll(strings.TrimSpace(fields[len(fields)-1]), ",", ".")
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: malformed rate field %q: %v", apperrors.ErrRateUnavailable, raw, err)
		}
		return rate, nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: no %s rate in export", apperrors.ErrNotFound, currency)
}
