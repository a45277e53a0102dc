package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spektr-org/ridepulse/config"
	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/helpers"
	"github.com/spektr-org/ridepulse/sample"
)

// ============================================================================
// RIDEPULSE CLI — Ride booking analytics from a CSV feed
// ============================================================================

const version = "0.3.0"

var (
	cfgFile string
	v       = viper.New()

	cfg      *config.Config
	logger   *slog.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:     "ridepulse",
	Short:   "Aggregates and filters ride booking feeds",
	Long:    `ridepulse loads a ride booking CSV feed (local or s3://), normalizes it, and computes dashboard panels: KPIs, rankings, success rates, price distributions, pickup/drop heatmaps and cancellation reasons.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		w, closer, err := config.OpenLogOutput(cfg.Logging)
		if err != nil {
			return err
		}
		closeLog = closer
		logger = config.NewLogger(cfg.Logging, w)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./ridepulse.yaml or $HOME/.ridepulse/ridepulse.yaml)")
	pf.String("source", "", "booking feed: local CSV path or s3://bucket/key")
	pf.String("region", "", "AWS region for s3 sources")
	pf.Int("sample", 0, "generate N synthetic bookings instead of reading a feed")
	pf.Int64("seed", 42, "seed for --sample")
	pf.Bool("strict", false, "abort on the first malformed row")
	pf.Bool("progress", true, "show a load progress bar")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	bindFlag("source.path", "source")
	bindFlag("source.region", "region")
	bindFlag("source.sample", "sample")
	bindFlag("source.sample-seed", "seed")
	bindFlag("load.strict", "strict")
	bindFlag("load.progress", "progress")
	bindFlag("logging.level", "log-level")
	bindFlag("logging.format", "log-format")

	rootCmd.AddCommand(summaryCmd, datesCmd, queryCmd, reportCmd, convertCmd, sampleCmd, schemaCmd)
}

func bindFlag(key, flag string) {
	cobra.CheckErr(v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadDataset reads the configured source, or generates a sample feed.
func loadDataset(ctx context.Context) (*engine.Dataset, helpers.LoadReport, error) {
	opts := helpers.LoadOptions{
		Strict:    cfg.Load.Strict,
		ChunkSize: cfg.Load.ChunkSize,
		MaxErrors: cfg.Load.MaxErrors,
		Logger:    logger,
	}

	if cfg.Source.Sample > 0 {
		so := sample.DefaultOptions(cfg.Source.Sample)
		so.Seed = cfg.Source.SampleSeed
		var buf bytes.Buffer
		if err := helpers.WriteCSV(&buf, sample.Headers(), sample.Generate(so)); err != nil {
			return nil, helpers.LoadReport{}, err
		}
		logger.Info("generated sample feed", "bookings", cfg.Source.Sample, "seed", so.Seed)
		return helpers.Load(ctx, &buf, opts)
	}

	if cfg.Source.Path == "" {
		return nil, helpers.LoadReport{}, errors.New("no source: set --source or --sample")
	}

	if cfg.Load.Progress {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("loading bookings"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		opts.Progress = func(rows int) { _ = bar.Set(rows) }
	}

	res, err := helpers.NewOpener(cfg.Source.Region).LoadSource(ctx, cfg.Source.Path, opts)
	if err != nil {
		return nil, helpers.LoadReport{}, err
	}
	return res.Dataset, res.Report, nil
}

// engineOptions maps the metrics config to engine options.
func engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithTopN(cfg.Metrics.TopN),
		engine.WithHistogramBins(cfg.Metrics.HistogramBins),
		engine.WithPercentile(cfg.Metrics.Percentile),
		engine.WithLogger(logger),
	}
	if cfg.Metrics.TableRows > 0 {
		opts = append(opts, engine.WithTableRows(cfg.Metrics.TableRows))
	}
	return opts
}

// commandContext applies the dashboard timeout, when set.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if cfg.Dashboard.Timeout > 0 {
		return context.WithTimeout(cmd.Context(), cfg.Dashboard.Timeout)
	}
	return context.WithCancel(cmd.Context())
}

// rangeFlags registers --from and --to on cmd.
func rangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "first booking date, inclusive (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last booking date, inclusive (YYYY-MM-DD)")
}

func rangeFrom(cmd *cobra.Command) (engine.Range, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	start, err := parseBound(from)
	if err != nil {
		return engine.Range{}, fmt.Errorf("--from: %w", err)
	}
	end, err := parseBound(to)
	if err != nil {
		return engine.Range{}, fmt.Errorf("--to: %w", err)
	}
	return engine.Range{Start: start, End: end}, nil
}

const dayLayout = "2006-01-02"

// parseBound checks one side of a range. Empty and "*" leave the side open.
// Ranges compare dates as strings, so anything but zero-padded ISO dates
// is rejected.
func parseBound(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return "", nil
	}
	if _, err := parseDay(s); err != nil {
		return "", err
	}
	return s, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
