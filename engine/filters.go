package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Date Range and Dimension Filtering via View
// ============================================================================
// Single-pass filter: checks every constraint per booking in one loop.
// Returns a SubView (index list into parent); records are not copied.
// ============================================================================

// Range bounds a view by booking date. Both bounds are inclusive ISO dates;
// an empty bound imposes no constraint on that side.
type Range struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsOpen reports whether neither bound is set.
func (r Range) IsOpen() bool { return r.Start == "" && r.End == "" }

// Contains reports whether an ISO date lies within the range.
func (r Range) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}

// String renders the range for logs and cache keys.
func (r Range) String() string {
	start, end := r.Start, r.End
	if start == "" {
		start = "*"
	}
	if end == "" {
		end = "*"
	}
	return start + ".." + end
}

// FilterRange returns the bookings whose date falls within r.
// An inverted range (Start > End) is legal and yields an empty view.
// The result is always a fresh SubView, even when r is open.
func FilterRange(view View, r Range) View {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if r.Contains(view.At(i).Date) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// Filters combines a date range with dimension constraints.
// Dimensions: OR within a dimension, AND across dimensions, case-insensitive.
type Filters struct {
	Range      Range               `json:"range"`
	Dimensions map[string][]string `json:"dimensions,omitempty"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if !f.Range.IsOpen() {
		return false
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of bookings matching the range and every
// dimension filter. Unknown dimension names match nothing.
func ApplyFilters(view View, filters Filters) View {
	type constraint struct {
		key     KeyFunc
		allowed map[string]bool
	}

	constraints := make([]constraint, 0, len(filters.Dimensions))
	for dim, allowed := range filters.Dimensions {
		if len(allowed) == 0 {
			continue
		}
		key, ok := LookupDimension(dim)
		if !ok {
			return newSubView(view, []int{})
		}
		constraints = append(constraints, constraint{key: key, allowed: toLowerSet(allowed)})
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		b := view.At(i)
		if !filters.Range.Contains(b.Date) {
			continue
		}
		pass := true
		for _, c := range constraints {
			val, ok := c.key(b)
			if !ok || !c.allowed[strings.ToLower(val)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
