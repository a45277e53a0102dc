package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ridepulse/export"
	"github.com/spektr-org/ridepulse/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Describe the booking feed's dimensions and measures",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		sc := schema.BookingSchema()
		out := cmd.OutOrStdout()
		if asJSON {
			return export.WriteJSON(out, sc)
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s (v%s)\n\n", sc.Name, sc.Version)
		fmt.Fprintln(tw, "DIMENSION\tCOLUMN\tTEMPORAL")
		for _, d := range sc.Dimensions {
			col := d.Column
			if col == "" {
				col = "from " + d.DerivedFrom
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Key, col, d.TemporalFormat)
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "MEASURE\tCOLUMN\tUNIT\tDEFAULT\tAGGREGATIONS")
		for _, m := range sc.Measures {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Key, m.Column, m.Unit, m.DefaultAggregation, strings.Join(m.Aggregations, ","))
		}
		return tw.Flush()
	},
}

func init() {
	schemaCmd.Flags().Bool("json", false, "print the schema as JSON")
}
