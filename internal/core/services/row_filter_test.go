package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
	"github.com/dcozonac/csvfx/internal/core/services"
)

func TestNewRowFilter_ConfigErrors(t *testing.T) {
	header := domain.Header{"DATE", "AMT"}
	tests := []struct {
		name   string
		expr   string
		header domain.Header
	}{
		{name: "no equals sign", expr: "AMT", header: header},
		{name: "invalid pattern", expr: "AMT=[", header: header},
		{name: "unknown column", expr: "MISSING=^1", header: header},
		{name: "headerless non-numeric selector", expr: "AMT=^1", header: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.NewRowFilter(tt.expr, tt.header)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfig)
		})
	}
}

func TestRowFilter_Matches(t *testing.T) {
	header := domain.Header{"DATE", "AMT"}
	filter, err := services.NewRowFilter("AMT=^1", header)
	require.NoError(t, err)

	assert.True(t, filter.Matches(domain.Record{"2020-01-01", "10"}))
	assert.False(t, filter.Matches(domain.Record{"2020-01-01", "20"}))
	// Record too short to have the filter column.
	assert.False(t, filter.Matches(domain.Record{"2020-01-01"}))
}

func TestRowFilter_Unanchored(t *testing.T) {
	filter, err := services.NewRowFilter("DESC=fee", domain.Header{"DESC"})
	require.NoError(t, err)

	// Match anywhere in the value, not full-string equality.
	assert.True(t, filter.Matches(domain.Record{"monthly fee payment"}))
	assert.True(t, filter.Matches(domain.Record{"fee"}))
	assert.False(t, filter.Matches(domain.Record{"Fee"})) // case sensitive
}

func TestRowFilter_HeaderlessIndex(t *testing.T) {
	filter, err := services.NewRowFilter("1=^2", nil)
	require.NoError(t, err)

	assert.True(t, filter.Matches(domain.Record{"x", "20"}))
	assert.False(t, filter.Matches(domain.Record{"x", "10"}))
}

func TestRowFilter_NilPassesEverything(t *testing.T) {
	var filter *services.RowFilter

	assert.True(t, filter.Matches(domain.Record{"anything"}))
	assert.True(t, filter.Matches(nil))
}

func TestRowFilter_EmptyPatternMatchesAll(t *testing.T) {
	filter, err := services.NewRowFilter("AMT=", domain.Header{"DATE", "AMT"})
	require.NoError(t, err)

	assert.True(t, filter.Matches(domain.Record{"2020-01-01", "10"}))
}
