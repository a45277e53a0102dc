package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// TEXT BUILDER — Formatting and one-line summaries
// ============================================================================

// Rupee is the currency symbol used for booking values.
const Rupee = "₹"

// FormatCurrency renders amount with thousands separators and two decimals,
// e.g. "₹1,234.50".
func FormatCurrency(amount float64, symbol string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	intPart := cents / 100
	decPart := cents % 100

	intStr := fmt.Sprintf("%d", intPart)
	if len(intStr) > 3 {
		var parts []string
		for len(intStr) > 3 {
			parts = append([]string{intStr[len(intStr)-3:]}, parts...)
			intStr = intStr[:len(intStr)-3]
		}
		parts = append([]string{intStr}, parts...)
		intStr = strings.Join(parts, ",")
	}

	result := fmt.Sprintf("%s%s.%02d", symbol, intStr, decPart)
	if negative {
		result = "-" + result
	}
	return result
}

// FormatInt formats an integer with thousands separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// SummaryText renders the KPI line shown above the dashboard.
func SummaryText(k KPIs) string {
	if k.Total == 0 {
		return "No bookings in the selected range."
	}
	return fmt.Sprintf("%s bookings, %s completed (%.1f%%), %s cancelled. Revenue %s from %s customers. Avg distance %.1f km, avg rating %.2f.",
		FormatInt(k.Total),
		FormatInt(k.Completed),
		k.CompletionRate,
		FormatInt(k.Cancelled),
		FormatCurrency(k.TotalRevenue, Rupee),
		FormatInt(k.UniqueCustomers),
		k.AvgDistance,
		k.AvgRating,
	)
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a human-readable period string from a view.
func DerivePeriod(view View) string {
	if view.Len() == 0 {
		return "No data"
	}
	first, last, ok := DateBounds(DateIndex(view))
	if !ok {
		return "All time"
	}
	if first == last {
		return first
	}
	return fmt.Sprintf("%s – %s", first, last)
}
