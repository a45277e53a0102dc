package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/export"
	"github.com/spektr-org/ridepulse/schema"
)

type queryOutput struct {
	Title     string              `json:"title"`
	Matched   int                 `json:"matched"`
	Completed int                 `json:"completed"`
	Chart     *engine.ChartConfig `json:"chart,omitempty"`
	Table     *engine.TableData   `json:"table"`
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Group, reduce and rank bookings by one dimension",
	Example: `  ridepulse query --source bookings.csv --group-by vehicle_type
  ridepulse query --sample 5000 --group-by pickup_location --reducer sum --measure booking_value --top 5
  ridepulse query --source s3://rides/ncr.csv --group-by month --reducer avg --measure ride_distance --filter vehicle_type=Auto`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		groupBy, _ := flags.GetString("group-by")
		kind, _ := flags.GetString("reducer")
		measure, _ := flags.GetString("measure")
		top, _ := flags.GetInt("top")
		rawFilters, _ := flags.GetStringArray("filter")
		format, _ := flags.GetString("format")
		sortBy, _ := flags.GetString("sort")

		key, ok := engine.LookupDimension(groupBy)
		if !ok {
			return fmt.Errorf("unknown dimension %q (known: %s)", groupBy, strings.Join(engine.DimensionNames(), ", "))
		}
		if !flags.Changed("reducer") && measure != "" {
			if m, ok := schema.BookingSchema().Measure(measure); ok {
				kind = m.DefaultAggregation
			}
		}
		reducer, err := engine.ParseReducer(kind, measure)
		if err != nil {
			return fmt.Errorf("%w (measures: %s)", err, strings.Join(engine.MeasureNames(), ", "))
		}
		filters, err := parseFilters(rawFilters)
		if err != nil {
			return err
		}
		if filters.Range, err = rangeFrom(cmd); err != nil {
			return err
		}
		if !engine.IsSortMode(sortBy) {
			return fmt.Errorf("unknown sort %q (known: %s)", sortBy, strings.Join(engine.SortModes(), ", "))
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		ds, _, err := loadDataset(ctx)
		if err != nil {
			return err
		}

		view := engine.ApplyFilters(ds, filters)
		groups := engine.TopN(view, key, reducer, top)
		engine.SortGroups(groups, sortBy)
		completed := engine.CountWhere(view, engine.Booking.IsCompleted)
		title := queryTitle(groupBy, reducer.Kind, measure)
		logger.Debug("query executed",
			"group_by", groupBy,
			"reducer", reducer.Kind,
			"matched", view.Len(),
			"completed", completed,
			"groups", len(groups))

		table := engine.BuildGroupTable(title, groupBy, string(reducer.Kind), groups)
		out := cmd.OutOrStdout()
		switch strings.ToLower(format) {
		case "json":
			return export.WriteJSON(out, queryOutput{
				Title:     title,
				Matched:   view.Len(),
				Completed: completed,
				Chart:     engine.BuildChart(engine.ChartBar, title, groups),
				Table:     table,
			})
		case "csv":
			return writeTableCSV(out, table)
		default:
			fmt.Fprintf(out, "%d bookings matched, %d completed\n\n", view.Len(), completed)
			return writeTableText(out, table)
		}
	},
}

func init() {
	f := queryCmd.Flags()
	f.String("group-by", "vehicle_type", "dimension to group by")
	f.String("reducer", "count", "count, sum or avg; defaults to the measure's usual aggregation when --measure is set")
	f.String("measure", "", "measure for sum and avg, e.g. booking_value")
	f.Int("top", 10, "keep the N largest groups (0 keeps all)")
	f.StringArray("filter", nil, "dimension=value constraint, repeatable; values OR within a dimension")
	f.String("format", "text", "text, csv or json")
	f.String("sort", engine.SortValueDesc, "group order: "+strings.Join(engine.SortModes(), ", "))
	rangeFlags(queryCmd)
}

// parseFilters turns "dim=a,b" pairs into dimension filters.
func parseFilters(raw []string) (engine.Filters, error) {
	f := engine.Filters{Dimensions: map[string][]string{}}
	for _, item := range raw {
		dim, vals, ok := strings.Cut(item, "=")
		dim = strings.TrimSpace(dim)
		if !ok || dim == "" {
			return f, fmt.Errorf("invalid filter %q, want dimension=value", item)
		}
		if _, known := engine.LookupDimension(dim); !known {
			return f, fmt.Errorf("unknown filter dimension %q", dim)
		}
		for _, v := range strings.Split(vals, ",") {
			if v = strings.TrimSpace(v); v != "" {
				f.Dimensions[dim] = append(f.Dimensions[dim], v)
			}
		}
	}
	return f, nil
}

func queryTitle(groupBy string, kind engine.ReducerKind, measure string) string {
	if kind == engine.ReduceCount {
		return "Bookings by " + groupBy
	}
	return fmt.Sprintf("%s of %s by %s", kind, measure, groupBy)
}

func writeTableCSV(w io.Writer, t *engine.TableData) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return nil
}

func writeTableText(w io.Writer, t *engine.TableData) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No matching bookings.")
		return err
	}
	fmt.Fprintln(w, t.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if t.Summary != nil {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Summary.Label, t.Summary.Values["value"], t.Summary.Values["count"])
	}
	return tw.Flush()
}
