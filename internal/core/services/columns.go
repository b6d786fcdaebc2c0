package services

import (
	"github.com/spf13/cast"

	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
)

// ResolveColumn maps a column selector onto a field index. With a header
// present the selector is a column name; without one it is a 0-based index.
// An unknown name or unparseable index is a configuration error.
func ResolveColumn(header domain.Header, selector string) (int, error) {
	if header != nil {
		index := header.Index(selector)
		if index < 0 {
			return 0, apperrors.NewConfigError("column %q not found in header", selector)
		}
		return index, nil
	}
	index, err := cast.ToIntE(selector)
	if err != nil || index < 0 {
		return 0, apperrors.NewConfigError("column index %q is not a valid 0-based index", selector)
	}
	return index, nil
}
