package engine

import "fmt"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from Groups and derived metrics
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Chart kinds understood by BuildChart.
const (
	ChartBar       = "bar"
	ChartPie       = "pie"
	ChartLine      = "line"
	ChartHistogram = "histogram"
	ChartHeatmap   = "heatmap"
)

// BuildChart produces a single-series ChartConfig from ranked groups.
// Returns nil when there is nothing to draw.
func BuildChart(kind, title string, groups []Group) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}
	if kind == "" {
		kind = ChartBar
	}

	config := &ChartConfig{
		ChartType:  kind,
		Title:      title,
		ShowLegend: kind == ChartPie,
		ShowGrid:   kind != ChartPie,
		Series:     buildSingleSeries(groups, title),
	}
	if kind == ChartPie {
		config.Colors = assignColors(len(groups))
	} else {
		config.Colors = assignColors(len(config.Series))
	}
	return config
}

// HistogramChart renders a Distribution as one bar per bin.
// The overflow bucket is appended when non-empty.
func HistogramChart(title string, d Distribution) *ChartConfig {
	total := d.Overflow
	for _, b := range d.Bins {
		total += b.Count
	}
	if total == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(d.Bins)+1)
	for _, b := range d.Bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper),
			Value: float64(b.Count),
		})
	}
	if d.Overflow > 0 {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf(">%.1f", d.Cutoff),
			Value: float64(d.Overflow),
		})
	}
	return &ChartConfig{
		ChartType: ChartHistogram,
		Title:     title,
		XAxis:     "Fare per km",
		YAxis:     "Rides",
		Series:    []ChartSeries{{Name: "Rides", Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// SuccessChart renders demand and success rate per bucket as two series.
func SuccessChart(title string, rates []BucketRate) *ChartConfig {
	if len(rates) == 0 {
		return nil
	}
	demand := make([]ChartPoint, len(rates))
	success := make([]ChartPoint, len(rates))
	for i, r := range rates {
		demand[i] = ChartPoint{Label: r.Bucket, Value: float64(r.Demand)}
		success[i] = ChartPoint{Label: r.Bucket, Value: RoundTo2(r.SuccessRate)}
	}
	return &ChartConfig{
		ChartType: ChartLine,
		Title:     title,
		YAxis:     "Bookings / Success %",
		Series: []ChartSeries{
			{Name: "Demand", Data: demand, Color: defaultColors[0]},
			{Name: "Success rate", Data: success, Color: defaultColors[1]},
		},
		Colors:     assignColors(2),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// HourBuckets relabels hourly rates as "HH:00" buckets for SuccessChart.
func HourBuckets(hours []HourRate) []BucketRate {
	out := make([]BucketRate, len(hours))
	for i, h := range hours {
		out[i] = BucketRate{
			Bucket:      fmt.Sprintf("%02d:00", h.Hour),
			Demand:      h.Demand,
			Completed:   h.Completed,
			SuccessRate: h.SuccessRate,
		}
	}
	return out
}

// HeatmapChart renders one series per pickup with a point per top drop.
// Unobserved pairs are zero.
func HeatmapChart(title string, hm Heatmap) *ChartConfig {
	if len(hm.Cells) == 0 {
		return nil
	}
	series := make([]ChartSeries, 0, len(hm.Pickups))
	for i, p := range hm.Pickups {
		revenue := make(map[string]float64)
		for _, c := range hm.Cells {
			if c.Pickup == p {
				revenue[c.Drop] = c.Revenue
			}
		}
		points := make([]ChartPoint, len(hm.Drops))
		for j, d := range hm.Drops {
			points[j] = ChartPoint{Label: d, Value: RoundTo2(revenue[d])}
		}
		series = append(series, ChartSeries{
			Name:  p,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return &ChartConfig{
		ChartType:  ChartHeatmap,
		Title:      title,
		XAxis:      "Drop location",
		YAxis:      "Pickup location",
		Series:     series,
		ShowLegend: true,
	}
}

// Charts returns the render-ready charts for a snapshot, skipping empty panels.
func (s *Snapshot) Charts() []*ChartConfig {
	candidates := []*ChartConfig{
		BuildChart(ChartBar, "Bookings by Vehicle Type", s.Vehicles),
		BuildChart(ChartPie, "Booking Status", s.Statuses),
		BuildChart(ChartLine, "Bookings per Month", s.MonthlyBookings),
		SuccessChart("Monthly Success Rate", s.MonthlySuccess),
		SuccessChart("Hourly Success Rate", HourBuckets(s.HourlySuccess)),
		BuildChart(ChartBar, "Top Pickup Locations by Revenue", s.TopPickups),
		BuildChart(ChartPie, "Revenue by Payment Method", s.PaymentRevenue),
		HistogramChart("Fare per km", s.PricePerKm),
		HeatmapChart("Pickup × Drop Revenue", s.Heatmap),
	}
	charts := make([]*ChartConfig, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			charts = append(charts, c)
		}
	}
	return charts
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
