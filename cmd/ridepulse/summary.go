package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/export"
	"github.com/spektr-org/ridepulse/helpers"
)

type summaryOutput struct {
	Period   string             `json:"period"`
	KPIs     engine.KPIs        `json:"kpis"`
	Statuses []engine.Group     `json:"statuses"`
	Load     helpers.LoadReport `json:"load"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print headline KPIs for a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, err := rangeFrom(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		ds, report, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		view := engine.FilterRange(ds, rng)
		kpis := engine.ComputeKPIs(view)

		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()
		if asJSON {
			return export.WriteJSON(out, summaryOutput{
				Period:   engine.DerivePeriod(view),
				KPIs:     kpis,
				Statuses: engine.StatusBreakdown(view),
				Load:     report,
			})
		}

		fmt.Fprintf(out, "Period: %s\n", engine.DerivePeriod(view))
		fmt.Fprintln(out, engine.SummaryText(kpis))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, g := range engine.StatusBreakdown(view) {
			fmt.Fprintf(out, "%-28s %8s  %5.1f%%\n", g.Label, engine.FormatInt(g.Count), g.Share)
		}
		if report.Skipped > 0 {
			fmt.Fprintf(out, "(%d malformed rows skipped)\n", report.Skipped)
		}
		return nil
	},
}

func init() {
	rangeFlags(summaryCmd)
	summaryCmd.Flags().Bool("json", false, "print JSON instead of text")
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the distinct booking dates in the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		ds, _, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		dates := engine.DateIndex(ds)
		out := cmd.OutOrStdout()

		if all, _ := cmd.Flags().GetBool("all"); all {
			for _, d := range dates {
				fmt.Fprintln(out, d)
			}
			return nil
		}
		first, last, ok := engine.DateBounds(dates)
		if !ok {
			fmt.Fprintln(out, "no dates")
			return nil
		}
		fmt.Fprintf(out, "%d dates from %s to %s\n", len(dates), first, last)
		return nil
	},
}

func init() {
	datesCmd.Flags().Bool("all", false, "print every date, one per line")
}
