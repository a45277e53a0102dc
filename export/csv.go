package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/schema"
)

// WriteBookingsCSV writes a view in the source feed layout. Absent values
// are written as empty cells, so the output loads back unchanged.
func WriteBookingsCSV(w io.Writer, view engine.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < view.Len(); i++ {
		if err := cw.Write(BookingRow(view.At(i))); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// BookingRow renders a booking in schema.Columns order.
func BookingRow(b engine.Booking) []string {
	return []string{
		b.Date,
		b.Time,
		b.BookingID,
		b.Status,
		b.CustomerID,
		b.VehicleType,
		b.PickupLocation,
		b.DropLocation,
		floatCell(b.AvgVTAT),
		floatCell(b.AvgCTAT),
		intCell(b.CancelledByCustomer),
		stringCell(b.CustomerCancelReason),
		intCell(b.CancelledByDriver),
		stringCell(b.DriverCancelReason),
		intCell(b.IncompleteRides),
		stringCell(b.IncompleteReason),
		floatCell(b.BookingValue),
		floatCell(b.RideDistance),
		floatCell(b.DriverRating),
		floatCell(b.CustomerRating),
		stringCell(b.PaymentMethod),
	}
}

// WriteSnapshotCSV flattens every ranked panel into panel,key,value,count,share rows.
func WriteSnapshotCSV(w io.Writer, snap *engine.Snapshot) error {
	cw := csv.NewWriter(w)
	write := func(row ...string) {
		_ = cw.Write(row)
	}

	write("panel", "key", "value", "count", "share")
	k := snap.KPIs
	write("kpi", "total_bookings", strconv.Itoa(k.Total), "", "")
	write("kpi", "completed_rides", strconv.Itoa(k.Completed), "", "")
	write("kpi", "cancelled_rides", strconv.Itoa(k.Cancelled), "", "")
	write("kpi", "completion_rate", num(k.CompletionRate), "", "")
	write("kpi", "avg_distance", num(k.AvgDistance), "", "")
	write("kpi", "avg_rating", num(k.AvgRating), "", "")
	write("kpi", "avg_customer_rating", num(k.AvgCustomerRating), "", "")
	write("kpi", "total_revenue", num(k.TotalRevenue), "", "")
	write("kpi", "unique_customers", strconv.Itoa(k.UniqueCustomers), "", "")

	for _, p := range groupPanels(snap) {
		for _, g := range p.groups {
			write(p.name, g.Key, num(g.Value), strconv.Itoa(g.Count), num(g.Share))
		}
	}
	for _, r := range snap.MonthlySuccess {
		write("monthly_success", r.Bucket, num(r.SuccessRate), strconv.Itoa(r.Demand), "")
	}
	for _, r := range snap.HourlySuccess {
		write("hourly_success", fmt.Sprintf("%02d", r.Hour), num(r.SuccessRate), strconv.Itoa(r.Demand), "")
	}
	for _, reasons := range snap.Reasons {
		for _, item := range reasons.Items {
			write(reasons.Kind.String(), item.Reason, strconv.Itoa(item.Count), strconv.Itoa(item.Count), num(item.Percent))
		}
	}
	for _, c := range snap.Heatmap.Cells {
		write("heatmap", c.Pickup+" → "+c.Drop, num(c.Revenue), strconv.Itoa(c.Count), "")
	}
	for i, b := range snap.PricePerKm.Bins {
		write("price_per_km", fmt.Sprintf("bin_%02d", i), num(b.Upper), strconv.Itoa(b.Count), "")
	}
	write("price_per_km", "overflow", num(snap.PricePerKm.Cutoff), strconv.Itoa(snap.PricePerKm.Overflow), "")
	write("price_per_km", "mean", num(snap.PricePerKm.Mean), "", "")

	cw.Flush()
	return cw.Error()
}

type groupPanel struct {
	name   string
	groups []engine.Group
}

func groupPanels(snap *engine.Snapshot) []groupPanel {
	return []groupPanel{
		{"status", snap.Statuses},
		{"vehicle_type", snap.Vehicles},
		{"monthly_bookings", snap.MonthlyBookings},
		{"top_pickups", snap.TopPickups},
		{"payment_revenue", snap.PaymentRevenue},
		{"vehicle_vtat", snap.VehicleVTAT},
		{"vehicle_ctat", snap.VehicleCTAT},
	}
}

func num(v float64) string {
	return strconv.FormatFloat(engine.RoundTo2(v), 'f', -1, 64)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func stringCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
