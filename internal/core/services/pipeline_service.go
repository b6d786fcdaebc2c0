package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/domain"
	"github.com/dcozonac/csvfx/internal/core/ports"
)

// PipelineOptions carries the per-run settings the pipeline needs beyond its
// collaborators. Built once by the caller and read-only here.
type PipelineOptions struct {
	// HasHeaders makes the first input row a header; column selectors are
	// then names instead of 0-based indexes.
	HasHeaders bool
	// DateColumn selects the column holding the record's date.
	DateColumn string
	// InputLayout is the Go reference layout dates are parsed with.
	InputLayout string
	// OutputLayout is the layout dates are rewritten in. Empty means the
	// input layout, which makes the rewrite format-preserving.
	OutputLayout string
	// ExchangeColumn names the inserted rate column in the output header.
	ExchangeColumn string
	// InsertAfter anchors the inserted column; empty appends it last.
	InsertAfter string
	// Filter is an optional COLUMN=PATTERN row predicate.
	Filter string
}

// PipelineResult summarizes a completed run.
type PipelineResult struct {
	Written int
	Skipped int
}

// pipelineLayout is the column geometry resolved once per run: the date
// column, the compiled filter and the insertion point, all as fixed indexes.
type pipelineLayout struct {
	dateIndex int
	filter    *RowFilter
	inserter  *ColumnInserter
}

// PipelineService streams records from a CSV reader to a CSV writer,
// enriching each with the exchange rate effective on its date. Records are
// processed one at a time in input order; a record whose date fails to parse
// or resolve is dropped with a warning and processing continues, while
// structural problems abort the run.
type PipelineService struct {
	resolver ports.RateResolver
	opts     PipelineOptions
	logger   *slog.Logger
}

// NewPipelineService creates a pipeline over the given resolver.
func NewPipelineService(resolver ports.RateResolver, opts PipelineOptions, logger *slog.Logger) *PipelineService {
	if opts.OutputLayout == "" {
		opts.OutputLayout = opts.InputLayout
	}
	return &PipelineService{
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes every record from in and writes the surviving ones to out,
// preserving input order. The writer is flushed before Run returns, on
// failure as well, so a fatal error never leaves buffered rows behind.
func (p *PipelineService) Run(ctx context.Context, in *csv.Reader, out *csv.Writer) (PipelineResult, error) {
	var result PipelineResult
	defer out.Flush()

	// Field-count mismatches must surface as structural errors, not be
	// papered over by a flexible reader.
	in.FieldsPerRecord = 0

	var header domain.Header
	var lay *pipelineLayout
	if p.opts.HasHeaders {
		row, err := in.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result, apperrors.NewConfigError("input has no header row")
			}
			return result, fmt.Errorf("read header: %w", err)
		}
		header = domain.Header(row)
		lay, err = p.resolveLayout(header, len(header))
		if err != nil {
			return result, err
		}
		if err := out.Write(lay.inserter.Apply(domain.Record(header), p.opts.ExchangeColumn)); err != nil {
			return result, fmt.Errorf("write header: %w", err)
		}
	}

	position := 0
	for {
		row, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		position++
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return result, apperrors.NewConfigError("record %d has a field count different from the rest of the input: %v", position, err)
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				p.warnSkip(&result, &apperrors.SkipError{Position: position, Cause: err})
				continue
			}
			return result, fmt.Errorf("read record %d: %w", position, err)
		}

		record := domain.Record(row)
		if lay == nil {
			// Headerless input: the first row fixes the width the
			// configured indexes are checked against.
			lay, err = p.resolveLayout(nil, len(record))
			if err != nil {
				return result, err
			}
		}

		outRecord, err := p.process(ctx, lay, position, record)
		if err != nil {
			var skip *apperrors.SkipError
			if errors.As(err, &skip) {
				p.warnSkip(&result, skip)
				continue
			}
			return result, err
		}
		if outRecord == nil {
			// Filtered out: excluded, not skipped.
			continue
		}
		if err := out.Write(outRecord); err != nil {
			return result, fmt.Errorf("write record %d: %w", position, err)
		}
		result.Written++
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return result, fmt.Errorf("flush output: %w", err)
	}
	return result, nil
}

// resolveLayout fixes the column geometry against the header (or, headerless,
// the first row's width). Selector problems here are structural.
func (p *PipelineService) resolveLayout(header domain.Header, width int) (*pipelineLayout, error) {
	dateIndex, err := ResolveColumn(header, p.opts.DateColumn)
	if err != nil {
		return nil, err
	}
	if dateIndex >= width {
		return nil, apperrors.NewConfigError("date column index %d is outside a %d-field record", dateIndex, width)
	}

	var filter *RowFilter
	if p.opts.Filter != "" {
		filter, err = NewRowFilter(p.opts.Filter, header)
		if err != nil {
			return nil, err
		}
		if filter.column >= width {
			return nil, apperrors.NewConfigError("filter column index %d is outside a %d-field record", filter.column, width)
		}
	}

	inserter, err := NewColumnInserter(header, width, p.opts.InsertAfter)
	if err != nil {
		return nil, err
	}

	return &pipelineLayout{
		dateIndex: dateIndex,
		filter:    filter,
		inserter:  inserter,
	}, nil
}

// process runs one record through the per-record stages. It returns nil with
// no error for a filtered-out record, and a *apperrors.SkipError for a record
// that should be dropped with a warning.
func (p *PipelineService) process(ctx context.Context, lay *pipelineLayout, position int, record domain.Record) (domain.Record, error) {
	if !lay.filter.Matches(record) {
		return nil, nil
	}

	date, err := domain.ParseDate(record[lay.dateIndex], p.opts.InputLayout)
	if err != nil {
		return nil, &apperrors.SkipError{Position: position, Cause: err}
	}

	resolved, err := p.resolver.Resolve(ctx, date)
	if err != nil {
		return nil, &apperrors.SkipError{Position: position, Cause: err}
	}

	out := make(domain.Record, len(record))
	copy(out, record)
	out[lay.dateIndex] = date.Render(p.opts.OutputLayout)
	return lay.inserter.Apply(out, resolved.Rendered()), nil
}

func (p *PipelineService) warnSkip(result *PipelineResult, skip *apperrors.SkipError) {
	result.Skipped++
	p.logger.Warn("skipping record",
		slog.Int("record", skip.Position),
		slog.String("cause", skip.Cause.Error()),
	)
}
