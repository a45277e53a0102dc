package helpers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/schema"
)

// ============================================================================
// CSV LOADER — Booking feed → engine.Dataset
// ============================================================================
// Reads the header, resolves columns, then normalizes rows in chunks.
// Rows with a bad required field are skipped and counted, unless Strict.
// The Dataset is returned only after the whole feed has been read.
// ============================================================================

const (
	DefaultChunkSize = 1000
	DefaultMaxErrors = 10
)

// LoadOptions controls Load.
type LoadOptions struct {
	Strict    bool               // abort on the first malformed row
	ChunkSize int                // rows per progress report
	MaxErrors int                // row errors kept in LoadReport.Errors
	Progress  func(rowsRead int) // called after every chunk and at the end
	Logger    *slog.Logger
}

// LoadReport summarizes a load.
type LoadReport struct {
	Rows           int           `json:"rows"`
	Loaded         int           `json:"loaded"`
	Skipped        int           `json:"skipped"`
	Errors         []error       `json:"-"`
	UnknownColumns []string      `json:"unknownColumns,omitempty"`
	MissingColumns []string      `json:"missingColumns,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
}

// LoadResult is a loaded Dataset with its report.
type LoadResult struct {
	Dataset *engine.Dataset
	Report  LoadReport
	Source  string
}

func (o *LoadOptions) setDefaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxErrors <= 0 {
		o.MaxErrors = DefaultMaxErrors
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Load reads a booking CSV feed into a Dataset.
func Load(ctx context.Context, r io.Reader, opts LoadOptions) (*engine.Dataset, LoadReport, error) {
	opts.setDefaults()
	start := time.Now()
	var report LoadReport

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, ErrEmptyFeed
	}
	if err != nil {
		return nil, report, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	norm, err := schema.NewNormalizer(headers)
	if err != nil {
		return nil, report, err
	}
	report.UnknownColumns = norm.Header().Unknown
	report.MissingColumns = norm.Header().Missing
	if len(report.UnknownColumns) > 0 {
		opts.Logger.Debug("ignoring unknown columns", "columns", report.UnknownColumns)
	}

	bookings := make([]engine.Booking, 0, opts.ChunkSize)
	for row := 0; ; row++ {
		if row > 0 && row%opts.ChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, report, fmt.Errorf("load interrupted at row %d: %w", row, err)
			}
			if opts.Progress != nil {
				opts.Progress(row)
			}
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.Rows++
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, report, fmt.Errorf("failed to read CSV row %d: %w", row, err)
			}
			if rerr := report.reject(err, opts); rerr != nil {
				return nil, report, rerr
			}
			continue
		}

		b, err := norm.Record(fields, row)
		if err != nil {
			if rerr := report.reject(err, opts); rerr != nil {
				return nil, report, rerr
			}
			continue
		}
		bookings = append(bookings, b)
	}

	report.Loaded = len(bookings)
	report.Elapsed = time.Since(start)
	if opts.Progress != nil {
		opts.Progress(report.Rows)
	}
	opts.Logger.Info("bookings loaded",
		"rows", report.Rows,
		"loaded", report.Loaded,
		"skipped", report.Skipped,
		"elapsed", report.Elapsed)
	return engine.NewDataset(bookings), report, nil
}

func (r *LoadReport) reject(err error, opts LoadOptions) error {
	if opts.Strict {
		return fmt.Errorf("strict load: %w", err)
	}
	r.Skipped++
	if len(r.Errors) < opts.MaxErrors {
		r.Errors = append(r.Errors, err)
		opts.Logger.Warn("skipping malformed row", "error", err)
	}
	return nil
}

// ============================================================================
// CSV WRITER — raw rows back to CSV
// ============================================================================

// WriteCSV writes a header and rows to w.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
