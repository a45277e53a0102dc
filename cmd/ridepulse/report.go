package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ridepulse/dashboard"
	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/export"
)

type sectionReport struct {
	Range    engine.Range          `json:"range"`
	Bookings int                   `json:"bookings"`
	Cached   bool                  `json:"cached"`
	Snapshot *engine.Snapshot      `json:"snapshot"`
	Charts   []*engine.ChartConfig `json:"charts,omitempty"`
}

type reportOutput struct {
	Session  string                    `json:"session"`
	Dates    [2]string                 `json:"dates"`
	Sections map[string]*sectionReport `json:"sections"`
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute dashboard sections and export them",
	Long: `report builds a dashboard session over the feed. Every section starts at
--from/--to; --section-range narrows individual sections. JSON output holds
every section; csv and xlsx hold the section named by --section.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		formatName, _ := flags.GetString("format")
		if formatName == "" {
			formatName = cfg.Export.Format
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if format == export.FormatParquet {
			return fmt.Errorf("%w: report as %s", export.ErrUnsupportedFormat, format)
		}
		perSection, _ := flags.GetStringArray("section-range")
		overrides, err := parseSectionRanges(perSection)
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

		session, err := dashboard.NewSession(ds, cfg.Dashboard.Sections,
			dashboard.WithCacheSize(cfg.Dashboard.CacheSize),
			dashboard.WithLogger(logger),
			dashboard.WithEngineOptions(engineOptions()...),
		)
		if err != nil {
			return err
		}
		results, err := session.ApplyAll(ctx, rng)
		if err != nil {
			return err
		}
		for name, r := range overrides {
			sec, ok := session.Section(name)
			if !ok {
				return fmt.Errorf("unknown section %q", name)
			}
			res, err := sec.Apply(ctx, r)
			if err != nil {
				return err
			}
			results[name] = res
		}

		charts, _ := flags.GetBool("charts")
		report := reportOutput{Session: session.ID, Sections: map[string]*sectionReport{}}
		report.Dates[0], report.Dates[1], _ = session.Bounds()
		for name, res := range results {
			sr := &sectionReport{
				Range:    res.Range,
				Bookings: res.View.Len(),
				Cached:   res.Cached,
				Snapshot: res.Snapshot,
			}
			if charts {
				sr.Charts = res.Snapshot.Charts()
			}
			report.Sections[name] = sr
		}

		selected, _ := flags.GetString("section")
		if selected == "" {
			selected = cfg.Dashboard.Sections[0]
		}
		var buf bytes.Buffer
		switch format {
		case export.FormatJSON:
			err = export.WriteJSON(&buf, report)
		case export.FormatCSV, export.FormatXLSX:
			sr, ok := report.Sections[selected]
			if !ok {
				return fmt.Errorf("unknown section %q", selected)
			}
			if format == export.FormatCSV {
				err = export.WriteSnapshotCSV(&buf, sr.Snapshot)
			} else {
				err = export.WriteSnapshotXLSX(&buf, sr.Snapshot)
			}
		}
		if err != nil {
			return err
		}

		outPath, _ := flags.GetString("out")
		if outPath == "" {
			outPath = cfg.Export.Path
		}
		return deliver(ctx, cmd.OutOrStdout(), buf.Bytes(), outPath, "report-"+session.ID+format.Extension(), format)
	},
}

func init() {
	f := reportCmd.Flags()
	f.String("format", "", "json, csv or xlsx (default from export.format)")
	f.String("out", "", "output file (default stdout)")
	f.String("section", "", "section exported by csv and xlsx (default first section)")
	f.StringArray("section-range", nil, "section=from..to, repeatable; * leaves a side open")
	f.Bool("charts", false, "include render-ready charts in JSON output")
	rangeFlags(reportCmd)
}

// parseSectionRanges reads "name=from..to" items.
func parseSectionRanges(raw []string) (map[string]engine.Range, error) {
	out := make(map[string]engine.Range, len(raw))
	for _, item := range raw {
		name, spec, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid section range %q, want section=from..to", item)
		}
		r, err := parseRange(spec)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(name)] = r
	}
	return out, nil
}

// parseRange reads the Range.String form "from..to".
func parseRange(s string) (engine.Range, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "..")
	if !ok {
		return engine.Range{}, fmt.Errorf("invalid range %q, want from..to", s)
	}
	from, err := parseBound(start)
	if err != nil {
		return engine.Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	to, err := parseBound(end)
	if err != nil {
		return engine.Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return engine.Range{Start: from, End: to}, nil
}

// deliver writes data to path, or stdout when path is empty, and uploads
// it when an export bucket is configured.
func deliver(ctx context.Context, stdout io.Writer, data []byte, path, name string, format export.Format) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("export written", "path", path, "bytes", len(data))
	}
	return upload(ctx, data, name, format)
}

// upload puts data in the export bucket, when one is configured.
func upload(ctx context.Context, data []byte, name string, format export.Format) error {
	if cfg.Export.Bucket == "" {
		return nil
	}
	uploader, err := export.NewUploader(ctx, cfg.Export.Region, cfg.Export.Bucket, cfg.Export.Prefix)
	if err != nil {
		return err
	}
	uri, err := uploader.Upload(ctx, name, data, format.ContentType())
	if err != nil {
		return err
	}
	logger.Info("export uploaded", "uri", uri)
	return nil
}
