package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from bookings and Groups
// ============================================================================

var bookingColumns = []Column{
	{Key: "booking_id", Label: "Booking ID", Type: "text", Align: "left"},
	{Key: "date", Label: "Date", Type: "text", Align: "left"},
	{Key: "customer_id", Label: "Customer", Type: "text", Align: "left"},
	{Key: "vehicle_type", Label: "Vehicle", Type: "text", Align: "left"},
	{Key: "pickup_location", Label: "Pickup", Type: "text", Align: "left"},
	{Key: "drop_location", Label: "Drop", Type: "text", Align: "left"},
	{Key: "ride_distance", Label: "Distance", Type: "number", Align: "right"},
	{Key: "status", Label: "Status", Type: "text", Align: "center"},
	{Key: "driver_rating", Label: "Rating", Type: "number", Align: "right"},
}

// ============================================================================
// BOOKING TABLE — Row per booking, newest first
// ============================================================================

// BuildBookingTable lists the newest rows bookings of view.
// rows <= 0 picks the row count from the view size.
func BuildBookingTable(view View, rows int) *TableData {
	if rows <= 0 {
		rows = TableRowsFor(view.Len())
	}
	recent := RecentBookings(view, rows)

	table := &TableData{
		Title:   "Recent Bookings",
		Columns: bookingColumns,
		Rows:    make([][]string, 0, len(recent)),
	}
	for _, b := range recent {
		table.Rows = append(table.Rows, []string{
			b.BookingID,
			b.Date,
			b.CustomerID,
			b.VehicleType,
			b.PickupLocation,
			b.DropLocation,
			formatOptional(b.RideDistance, "%.1f km"),
			b.Status,
			formatOptional(b.DriverRating, "%.1f"),
		})
	}
	if view.Len() > len(recent) {
		table.Summary = &Summary{
			Label: fmt.Sprintf("Showing %d of %s bookings", len(recent), FormatInt(view.Len())),
		}
	}
	return table
}

// RecentBookings returns up to n bookings ordered by date and time,
// newest first. Ties keep view order.
func RecentBookings(view View, n int) []Booking {
	idx := make([]int, view.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := view.At(idx[i]), view.At(idx[j])
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.Time > b.Time
	})
	if n >= 0 && len(idx) > n {
		idx = idx[:n]
	}
	out := make([]Booking, len(idx))
	for i, k := range idx {
		out[i] = view.At(k)
	}
	return out
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf(format, *v)
}

// ============================================================================
// AGGREGATED TABLE — Summary rows
// ============================================================================

// BuildGroupTable renders ranked groups with value, count and share columns.
func BuildGroupTable(title, groupLabel, valueLabel string, groups []Group) *TableData {
	if len(groups) == 0 {
		return &TableData{
			Title:   title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	columns := []Column{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: valueLabel, Type: "number", Align: "right"},
		{Key: "count", Label: "Count", Type: "number", Align: "center"},
		{Key: "share", Label: "Share", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(groups))
	var totalValue float64
	var totalCount int

	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			fmt.Sprintf("%.2f", g.Value),
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.1f%%", g.Share),
		})
		totalValue += g.Value
		totalCount += g.Count
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				"value": fmt.Sprintf("%.2f", totalValue),
				"count": FormatInt(totalCount),
			},
		},
	}
}
