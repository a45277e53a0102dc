package engine

// ============================================================================
// PIVOT — Pickup × Drop revenue heatmap
// ============================================================================
// 1. Restrict to bookings with pickup, drop and BookingValue > 0
// 2. Nested group (pickup → drop) → {revenue, trips}
// 3. Rank pickups and drops by total revenue, keep top N of each
// 4. Emit cells only for observed pairs inside both top sets
// ============================================================================

const DefaultHeatmapTopN = 10

// HeatCell is the revenue and trip count for one pickup/drop pair.
type HeatCell struct {
	Pickup  string  `json:"pickup"`
	Drop    string  `json:"drop"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// Heatmap is a sparse pickup × drop revenue matrix.
// Pickups and Drops are ordered by revenue descending.
type Heatmap struct {
	Pickups []string   `json:"pickups"`
	Drops   []string   `json:"drops"`
	Cells   []HeatCell `json:"cells"`
}

// BuildHeatmap pivots revenue by pickup and drop location.
// topN <= 0 uses DefaultHeatmapTopN.
func BuildHeatmap(view View, topN int) Heatmap {
	if topN <= 0 {
		topN = DefaultHeatmapTopN
	}

	revenue := Where(view, func(b Booking) bool {
		if _, ok := KeyPickupLocation(b); !ok {
			return false
		}
		if _, ok := KeyDropLocation(b); !ok {
			return false
		}
		return b.BookingValue != nil && *b.BookingValue > 0
	})
	ng := GroupByPair(revenue, KeyPickupLocation, KeyDropLocation, FieldBookingValue)

	hm := Heatmap{
		Pickups: topKeys(ng.OuterTotals(), topN),
		Drops:   topKeys(ng.InnerTotals(), topN),
		Cells:   []HeatCell{},
	}
	for _, p := range hm.Pickups {
		for _, d := range hm.Drops {
			c, ok := ng.Lookup(p, d)
			if !ok {
				continue
			}
			hm.Cells = append(hm.Cells, HeatCell{Pickup: p, Drop: d, Revenue: c.Sum, Count: c.Count})
		}
	}
	return hm
}

func topKeys(totals map[string]float64, n int) []string {
	groups := make([]Group, 0, len(totals))
	for k, v := range totals {
		groups = append(groups, Group{Key: k, Label: k, Value: v})
	}
	SortGroups(groups, SortValueDesc)
	if len(groups) > n {
		groups = groups[:n]
	}
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}
