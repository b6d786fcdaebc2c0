package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dcozonac/csvfx/internal/adapters/ratesource/bnm"
	"github.com/dcozonac/csvfx/internal/apperrors"
	"github.com/dcozonac/csvfx/internal/core/services"
	"github.com/dcozonac/csvfx/pkg/config"
)

func main() {
	// Structured logs go to stderr; stdout stays reserved for CSV output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).
		With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	opts, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *config.Options, logger *slog.Logger) error {
	in, err := os.Open(opts.InFile)
	if err != nil {
		return apperrors.NewConfigError("open input: %v", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.Comma = opts.InputDelimiter()

	source := bnm.NewClient(opts.SourceURL, opts.Currency, opts.FetchTimeout)
	resolver := services.NewRateResolverService(source)
	pipeline := services.NewPipelineService(resolver, services.PipelineOptions{
		HasHeaders:     opts.HasHeaders(),
		DateColumn:     opts.DateColumn,
		InputLayout:    opts.InDateLayout,
		OutputLayout:   opts.OutDateLayout,
		ExchangeColumn: opts.ExchangeColumn,
		InsertAfter:    opts.InsertAfter,
		Filter:         opts.Filter,
	}, logger)

	dest, finalize, err := openOutput(opts.OutFile)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(dest)
	writer.Comma = opts.OutputDelimiter()

	result, runErr := pipeline.Run(ctx, reader, writer)
	if finErr := finalize(runErr); finErr != nil && runErr == nil {
		return finErr
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("Run completed",
		slog.Int("records_written", result.Written),
		slog.Int("records_skipped", result.Skipped),
	)
	return nil
}

// openOutput returns the destination writer and a finalize hook. File output
// is staged next to the destination and renamed into place only on a clean
// run, so a fatal error never leaves a truncated-looking output file behind.
func openOutput(path string) (io.Writer, func(error) error, error) {
	if path == "" {
		return os.Stdout, func(error) error { return nil }, nil
	}

	staging, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, nil, apperrors.NewConfigError("create output staging file: %v", err)
	}

	finalize := func(runErr error) error {
		closeErr := staging.Close()
		if runErr != nil {
			os.Remove(staging.Name())
			return nil
		}
		if closeErr != nil {
			os.Remove(staging.Name())
			return fmt.Errorf("close output: %w", closeErr)
		}
		return os.Rename(staging.Name(), path)
	}
	return staging, finalize, nil
}
