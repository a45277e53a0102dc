package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/ridepulse/engine"
)

// WriteSnapshotXLSX writes a workbook with one sheet per panel.
func WriteSnapshotXLSX(w io.Writer, snap *engine.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	k := snap.KPIs
	summary := [][]any{
		{"Metric", "Value"},
		{"Total bookings", k.Total},
		{"Completed rides", k.Completed},
		{"Cancelled rides", k.Cancelled},
		{"Completion rate %", engine.RoundTo2(k.CompletionRate)},
		{"Avg distance (km)", engine.RoundTo2(k.AvgDistance)},
		{"Avg driver rating", engine.RoundTo2(k.AvgRating)},
		{"Avg customer rating", engine.RoundTo2(k.AvgCustomerRating)},
		{"Total revenue", engine.RoundTo2(k.TotalRevenue)},
		{"Unique customers", k.UniqueCustomers},
	}
	if err := f.SetSheetName(f.GetSheetName(0), "Summary"); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRows(f, "Summary", summary); err != nil {
		return err
	}

	for _, p := range groupPanels(snap) {
		rows := [][]any{{"Key", "Value", "Count", "Share %"}}
		for _, g := range p.groups {
			rows = append(rows, []any{g.Key, engine.RoundTo2(g.Value), g.Count, engine.RoundTo2(g.Share)})
		}
		if err := addSheet(f, p.name, rows); err != nil {
			return err
		}
	}

	success := [][]any{{"Bucket", "Demand", "Completed", "Success %"}}
	for _, r := range snap.MonthlySuccess {
		success = append(success, []any{r.Bucket, r.Demand, r.Completed, engine.RoundTo2(r.SuccessRate)})
	}
	for _, r := range engine.HourBuckets(snap.HourlySuccess) {
		success = append(success, []any{r.Bucket, r.Demand, r.Completed, engine.RoundTo2(r.SuccessRate)})
	}
	if err := addSheet(f, "success_rate", success); err != nil {
		return err
	}

	reasons := [][]any{{"Kind", "Reason", "Count", "Percent"}}
	for _, rs := range snap.Reasons {
		for _, item := range rs.Items {
			reasons = append(reasons, []any{rs.Kind.String(), item.Reason, item.Count, engine.RoundTo2(item.Percent)})
		}
	}
	if err := addSheet(f, "reasons", reasons); err != nil {
		return err
	}

	if err := addSheet(f, "heatmap", heatmapMatrix(snap.Heatmap)); err != nil {
		return err
	}

	hist := [][]any{{"Lower", "Upper", "Rides"}}
	for _, b := range snap.PricePerKm.Bins {
		hist = append(hist, []any{engine.RoundTo2(b.Lower), engine.RoundTo2(b.Upper), b.Count})
	}
	hist = append(hist, []any{engine.RoundTo2(snap.PricePerKm.Cutoff), "overflow", snap.PricePerKm.Overflow})
	if err := addSheet(f, "price_per_km", hist); err != nil {
		return err
	}

	if snap.Recent != nil {
		recent := make([][]any, 0, len(snap.Recent.Rows)+1)
		header := make([]any, len(snap.Recent.Columns))
		for i, c := range snap.Recent.Columns {
			header[i] = c.Label
		}
		recent = append(recent, header)
		for _, row := range snap.Recent.Rows {
			cells := make([]any, len(row))
			for i, v := range row {
				cells[i] = v
			}
			recent = append(recent, cells)
		}
		if err := addSheet(f, "recent_bookings", recent); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// heatmapMatrix lays out pickups as rows and drops as columns.
func heatmapMatrix(hm engine.Heatmap) [][]any {
	revenue := make(map[string]float64, len(hm.Cells))
	for _, c := range hm.Cells {
		revenue[c.Pickup+"\x00"+c.Drop] = c.Revenue
	}
	header := []any{"Pickup \\ Drop"}
	for _, d := range hm.Drops {
		header = append(header, d)
	}
	rows := [][]any{header}
	for _, p := range hm.Pickups {
		row := []any{p}
		for _, d := range hm.Drops {
			if v, ok := revenue[p+"\x00"+d]; ok {
				row = append(row, engine.RoundTo2(v))
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			col, err := excelize.ColumnNumberToName(c + 1)
			if err != nil {
				return err
			}
			cell := fmt.Sprintf("%s%d", col, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
