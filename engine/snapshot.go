package engine

import (
	"context"
	"fmt"
	"time"
)

// ============================================================================
// SNAPSHOT — Every dashboard panel for one view
// ============================================================================
// Entry point: BuildSnapshot(ctx, view, opts...)
//
// Pipeline (one pass per panel, cancellation checked between passes):
//   1. KPIs
//   2. Rankings: status, vehicles, pickups by revenue, payment revenue
//   3. Time series: monthly bookings, monthly + hourly success
//   4. Distribution: price per distance
//   5. Pivot: pickup × drop heatmap
//   6. Reasons: customer, driver, incomplete
//   7. Vehicle turnaround means (VTAT / CTAT)
//   8. Recent bookings table
//
// The view is never modified. All computation is local.
// ============================================================================

// Snapshot holds the computed panels for one view.
type Snapshot struct {
	KPIs            KPIs         `json:"kpis"`
	Statuses        []Group      `json:"statuses"`
	Vehicles        []Group      `json:"vehicles"`
	MonthlyBookings []Group      `json:"monthlyBookings"`
	MonthlySuccess  []BucketRate `json:"monthlySuccess"`
	HourlySuccess   []HourRate   `json:"hourlySuccess"`
	TopPickups      []Group      `json:"topPickups"`
	PaymentRevenue  []Group      `json:"paymentRevenue"`
	PricePerKm      Distribution `json:"pricePerKm"`
	Heatmap         Heatmap      `json:"heatmap"`
	Reasons         []Reasons    `json:"reasons"`
	VehicleVTAT     []Group      `json:"vehicleVtat"`
	VehicleCTAT     []Group      `json:"vehicleCtat"`
	Recent          *TableData   `json:"recentBookings"`
	Summary         string       `json:"summary"`
}

// BuildSnapshot computes every panel for view.
//
// Options:
//   - WithTopN(n) — groups kept in ranked panels and heatmap axes
//   - WithHistogramBins(n), WithPercentile(p) — price-per-distance histogram
//   - WithTableRows(n) — recent-bookings rows
//   - WithLogger(l) — diagnostics
func BuildSnapshot(ctx context.Context, view View, opts ...Option) (*Snapshot, error) {
	cfg := applyOptions(opts)
	start := time.Now()

	rows := cfg.TableRows
	if rows == 0 {
		rows = TableRowsFor(view.Len())
	}

	s := &Snapshot{}
	steps := []struct {
		name string
		run  func()
	}{
		{"kpis", func() {
			s.KPIs = ComputeKPIs(view)
			s.Statuses = StatusBreakdown(view)
		}},
		{"rankings", func() {
			s.Vehicles = TopN(view, KeyVehicleType, Count(), cfg.TopN)
			s.TopPickups = TopN(view, KeyPickupLocation, Sum(FieldBookingValue), cfg.TopN)
			s.PaymentRevenue = TopN(view, KeyPaymentMethod, Sum(FieldBookingValue), 0)
		}},
		{"time_series", func() {
			s.MonthlyBookings = MonthlyBookings(view)
			s.MonthlySuccess = MonthlySuccess(view)
			s.HourlySuccess = HourlySuccess(view)
		}},
		{"distribution", func() {
			s.PricePerKm = PricePerDistance(view, cfg.HistogramBins, cfg.Percentile)
		}},
		{"heatmap", func() {
			s.Heatmap = BuildHeatmap(view, cfg.HeatmapTopN)
		}},
		{"reasons", func() {
			s.Reasons = make([]Reasons, 0, 3)
			for _, kind := range ReasonKinds() {
				s.Reasons = append(s.Reasons, ReasonBreakdown(view, kind))
			}
		}},
		{"turnaround", func() {
			s.VehicleVTAT = MeanBy(view, KeyVehicleType, FieldAvgVTAT)
			s.VehicleCTAT = MeanBy(view, KeyVehicleType, FieldAvgCTAT)
		}},
		{"recent", func() {
			s.Recent = BuildBookingTable(view, rows)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", step.name, err)
		}
		step.run()
	}
	s.Summary = SummaryText(s.KPIs)

	cfg.Logger.Debug("snapshot built",
		"bookings", view.Len(),
		"months", len(s.MonthlyBookings),
		"heatmap_cells", len(s.Heatmap.Cells),
		"elapsed", time.Since(start))
	return s, nil
}
