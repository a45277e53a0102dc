package engine

import (
	"io"
	"log/slog"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for BuildSnapshot()
// ============================================================================

const (
	DefaultTableRows      = 20
	LargeDatasetTableRows = 50
	LargeDatasetThreshold = 10000
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	TopN          int     // ranked panels (vehicles, pickups)
	HeatmapTopN   int     // pickups and drops kept in the heatmap
	HistogramBins int     // price-per-distance bins
	Percentile    float64 // histogram domain cutoff
	TableRows     int     // 0 = pick by dataset size
	Logger        *slog.Logger
}

// WithTopN sets how many groups ranked panels keep. It also caps the heatmap
// axes.
func WithTopN(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.TopN = n
			c.HeatmapTopN = n
		}
	}
}

// WithHistogramBins sets the number of price-per-distance bins.
func WithHistogramBins(bins int) Option {
	return func(c *config) {
		if bins > 0 {
			c.HistogramBins = bins
		}
	}
}

// WithPercentile sets the histogram domain cutoff, e.g. 0.95.
func WithPercentile(p float64) Option {
	return func(c *config) {
		if p > 0 && p <= 1 {
			c.Percentile = p
		}
	}
}

// WithTableRows fixes the recent-bookings row count.
// Without it the count is 20, or 50 for datasets above 10 000 bookings.
func WithTableRows(rows int) Option {
	return func(c *config) {
		if rows > 0 {
			c.TableRows = rows
		}
	}
}

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN:          10,
		HeatmapTopN:   DefaultHeatmapTopN,
		HistogramBins: DefaultHistogramBins,
		Percentile:    DefaultPercentile,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// TableRowsFor picks the recent-bookings row count for a dataset size.
func TableRowsFor(datasetLen int) int {
	if datasetLen > LargeDatasetThreshold {
		return LargeDatasetTableRows
	}
	return DefaultTableRows
}
