// Package config loads one run's options from command-line flags with
// environment fallback (CSVFX_ prefix, .env honoured when present).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dcozonac/csvfx/internal/apperrors"
)

const defaultSourceURL = "https://www.bnm.md/ro/export-official-exchange-rates"

// Options holds one run's configuration. Built once by Load and read-only
// afterwards; nothing mutates it during the run.
type Options struct {
	InFile         string `validate:"required"`
	NoHeaders      bool
	InDateLayout   string `validate:"required"`
	InDelimiter    string `validate:"required,len=1"`
	DateColumn     string `validate:"required"`
	OutFile        string
	OutDelimiter   string `validate:"required,len=1"`
	OutDateLayout  string
	ExchangeColumn string `validate:"required"`
	InsertAfter    string
	Filter         string
	SourceURL      string        `validate:"required,url"`
	Currency       string        `validate:"required,len=3"`
	FetchTimeout   time.Duration `validate:"required"`
}

// HasHeaders reports whether the input carries a header row.
func (o *Options) HasHeaders() bool { return !o.NoHeaders }

// InputDelimiter returns the input field delimiter as a rune.
func (o *Options) InputDelimiter() rune { return []rune(o.InDelimiter)[0] }

// OutputDelimiter returns the output field delimiter as a rune.
func (o *Options) OutputDelimiter() rune { return []rune(o.OutDelimiter)[0] }

// Load parses args (flags), applies environment fallbacks and defaults, and
// validates the result. Configuration problems wrap apperrors.ErrConfig.
func Load(args []string) (*Options, error) {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("csvfx", pflag.ContinueOnError)
	flags.StringP("in-file", "i", "", "path to the input CSV file")
	flags.Bool("in-no-headers", false, "set when the input has no header row; column options become 0-based indexes")
	flags.String("in-date-format", "01/02/2006", "Go date layout of the input date column")
	flags.String("in-column-delimiter", ",", "input field delimiter")
	flags.StringP("in-date-column", "d", "", "date column: header name, or 0-based index without headers")
	flags.StringP("out-file", "o", "", "output path; stdout when omitted")
	flags.String("out-column-delimiter", "", "output field delimiter; defaults to the input delimiter")
	flags.String("out-date-format", "", "Go date layout for rewritten dates; defaults to the input layout")
	flags.String("out-exchange-column", "Exchange Rate", "name of the inserted rate column")
	flags.String("out-exchange-insert-after", "", "column the rate is inserted after; appended last when omitted")
	flags.StringP("filter", "f", "", "row filter in COLUMN=PATTERN form")
	flags.String("source-url", defaultSourceURL, "base URL of the exchange-rate export")
	flags.String("currency", "USD", "ISO currency code to take from the export")
	flags.Duration("fetch-timeout", 30*time.Second, "HTTP timeout for rate lookups")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			// Usage was already printed by pflag; let the caller exit cleanly.
			return nil, err
		}
		return nil, apperrors.NewConfigError("parse flags: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CSVFX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	opts := &Options{
		InFile:         v.GetString("in-file"),
		NoHeaders:      v.GetBool("in-no-headers"),
		InDateLayout:   v.GetString("in-date-format"),
		InDelimiter:    v.GetString("in-column-delimiter"),
		DateColumn:     v.GetString("in-date-column"),
		OutFile:        v.GetString("out-file"),
		OutDelimiter:   v.GetString("out-column-delimiter"),
		OutDateLayout:  v.GetString("out-date-format"),
		ExchangeColumn: v.GetString("out-exchange-column"),
		InsertAfter:    v.GetString("out-exchange-insert-after"),
		Filter:         v.GetString("filter"),
		SourceURL:      v.GetString("source-url"),
		Currency:       strings.ToUpper(v.GetString("currency")),
		FetchTimeout:   v.GetDuration("fetch-timeout"),
	}

	if opts.OutDelimiter == "" {
		opts.OutDelimiter = opts.InDelimiter
	}
	if opts.Filter != "" && !strings.Contains(opts.Filter, "=") {
		return nil, apperrors.NewConfigError("filter %q must be in COLUMN=PATTERN form", opts.Filter)
	}

	if err := validator.New().Struct(opts); err != nil {
		return nil, apperrors.NewConfigError("invalid options: %v", err)
	}
	return opts, nil
}
