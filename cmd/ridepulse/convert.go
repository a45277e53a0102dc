package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/export"
	"github.com/spektr-org/ridepulse/helpers"
	"github.com/spektr-org/ridepulse/sample"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Write the normalized bookings as json, csv or parquet",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		outPath, _ := flags.GetString("out")
		formatName, _ := flags.GetString("format")
		if formatName == "" && outPath != "" {
			formatName = filepath.Ext(outPath)
		}
		if formatName == "" {
			formatName = cfg.Export.Format
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		rng, err := rangeFrom(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		ds, _, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		view := engine.FilterRange(ds, rng)
		name := "bookings" + format.Extension()

		var buf bytes.Buffer
		switch format {
		case export.FormatJSON:
			err = export.WriteJSON(&buf, engine.Collect(view))
		case export.FormatCSV:
			err = export.WriteBookingsCSV(&buf, view)
		case export.FormatParquet:
			if outPath == "" {
				return errors.New("parquet output needs --out")
			}
			if err := export.WriteBookingsParquet(outPath, view); err != nil {
				return err
			}
			logger.Info("export written", "path", outPath, "bookings", view.Len())
			if cfg.Export.Bucket == "" {
				return nil
			}
			data, err := os.ReadFile(outPath)
			if err != nil {
				return err
			}
			return upload(ctx, data, name, format)
		default:
			return fmt.Errorf("%w: convert to %s", export.ErrUnsupportedFormat, format)
		}
		if err != nil {
			return err
		}
		return deliver(ctx, cmd.OutOrStdout(), buf.Bytes(), outPath, name, format)
	},
}

func init() {
	f := convertCmd.Flags()
	f.String("format", "", "json, csv or parquet (default from --out extension)")
	f.String("out", "", "output file (default stdout; required for parquet)")
	rangeFlags(convertCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a synthetic booking feed in the source CSV layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		count, _ := flags.GetInt("count")
		outPath, _ := flags.GetString("out")
		r, err := rangeFrom(cmd)
		if err != nil {
			return err
		}

		opts := sample.DefaultOptions(count)
		opts.Seed = cfg.Source.SampleSeed
		if err := applySampleRange(&opts, r); err != nil {
			return err
		}

		rows := sample.Generate(opts)
		w := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := helpers.WriteCSV(w, sample.Headers(), rows); err != nil {
			return err
		}
		logger.Info("sample written", "bookings", len(rows), "seed", opts.Seed)
		return nil
	},
}

func init() {
	f := sampleCmd.Flags()
	f.Int("count", 1000, "number of bookings")
	f.String("out", "", "output file (default stdout)")
	rangeFlags(sampleCmd)
}

func applySampleRange(opts *sample.Options, r engine.Range) error {
	if r.Start != "" {
		t, err := parseDay(r.Start)
		if err != nil {
			return err
		}
		opts.Start = t
	}
	if r.End != "" {
		t, err := parseDay(r.End)
		if err != nil {
			return err
		}
		opts.End = t.Add(24*time.Hour - time.Second)
	}
	return nil
}
