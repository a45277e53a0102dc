package engine

import (
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// METRICS — KPI summary, Top-N rankings, per-key means
// ============================================================================
// Every metric here is a thin composition over GroupBy / Reduce.
// ============================================================================

// KPIs is the headline summary of a view.
type KPIs struct {
	Total             int     `json:"totalBookings"`
	Completed         int     `json:"completedRides"`
	Cancelled         int     `json:"cancelledRides"`
	CompletionRate    float64 `json:"completionRate"` // percent
	AvgDistance       float64 `json:"avgDistance"`
	AvgRating         float64 `json:"avgRating"` // driver rating
	AvgCustomerRating float64 `json:"avgCustomerRating"`
	TotalRevenue      float64 `json:"totalRevenue"`
	UniqueCustomers   int     `json:"uniqueCustomers"`
}

// ComputeKPIs summarizes a view. An empty view yields all zeros.
func ComputeKPIs(view View) KPIs {
	k := KPIs{Total: view.Len()}
	if k.Total == 0 {
		return k
	}

	customers := make([]string, 0, k.Total)
	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		if b.IsCompleted() {
			k.Completed++
		}
		if isCancelledStatus(b.Status) {
			k.Cancelled++
		}
		if b.BookingValue != nil && *b.BookingValue > 0 {
			k.TotalRevenue += *b.BookingValue
		}
		if id, ok := present(b.CustomerID); ok {
			customers = append(customers, id)
		}
	}

	k.CompletionRate = float64(k.Completed) / float64(k.Total) * 100
	k.AvgDistance = Reduce(view, Mean(FieldRideDistance))
	k.AvgRating = Reduce(view, Mean(FieldDriverRating))
	k.AvgCustomerRating = Reduce(view, Mean(FieldCustomerRating))
	k.UniqueCustomers = len(lo.Uniq(customers))
	return k
}

// Cancelled covers every status beginning with "Cancelled".
func isCancelledStatus(status string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(status)), "cancelled")
}

// TopN groups, reduces, sorts descending and keeps the first n groups.
// n <= 0 keeps every group.
func TopN(view View, key KeyFunc, r Reducer, n int) []Group {
	groups := GroupBy(view, key, r).Ranked()
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// MeanBy averages field per key, sorted by key.
func MeanBy(view View, key KeyFunc, field FieldFunc) []Group {
	groups := GroupBy(view, key, Mean(field)).Ranked()
	SortGroups(groups, SortKeyAsc)
	return groups
}

// MonthlyBookings counts bookings per "YYYY-MM", ascending.
func MonthlyBookings(view View) []Group {
	groups := GroupBy(view, KeyMonth, Count()).Ranked()
	SortGroups(groups, SortChronological)
	return groups
}

// StatusBreakdown counts bookings per status, largest first.
func StatusBreakdown(view View) []Group {
	return GroupBy(view, KeyStatus, Count()).Ranked()
}
