package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// AGGREGATORS — Grouping, Reduction, and Sorting via View
// ============================================================================
// One parameterized aggregator serves every metric:
//   key extractor (single or pair) + reducer (count / sum / mean).
// Absent values: excluded from means, zero for sums.
// Absent keys:   excluded from the mapping, counted in Absent.
// ============================================================================

// KeyFunc extracts a grouping key. ok=false marks the key as absent.
type KeyFunc func(Booking) (key string, ok bool)

// FieldFunc reads a nullable numeric field. nil means absent.
type FieldFunc func(Booking) *float64

// ReducerKind names a reduction rule.
type ReducerKind string

const (
	ReduceCount ReducerKind = "count"
	ReduceSum   ReducerKind = "sum"
	ReduceMean  ReducerKind = "mean"
)

// Reducer is an aggregation rule applied during grouping.
type Reducer struct {
	Kind  ReducerKind
	Field FieldFunc
}

// Count counts records.
func Count() Reducer { return Reducer{Kind: ReduceCount} }

// Sum adds a nullable field; absent values contribute zero.
func Sum(field FieldFunc) Reducer { return Reducer{Kind: ReduceSum, Field: field} }

// Mean averages a nullable field over records where it is present.
func Mean(field FieldFunc) Reducer { return Reducer{Kind: ReduceMean, Field: field} }

// ============================================================================
// SINGLE-KEY GROUPING
// ============================================================================

// Grouping maps a category key to its reduced value.
// Map iteration order is unspecified; use Ranked for a sorted list.
type Grouping struct {
	Kind    ReducerKind        `json:"reducer"`
	Values  map[string]float64 `json:"values"`
	Records map[string]int     `json:"records"` // records per key
	Present map[string]int     `json:"present"` // records per key with the field present
	Absent  int                `json:"absent"`  // records skipped for a missing key
}

type accumulator struct {
	sum     float64
	present int
	records int
}

// GroupBy groups a view by key and reduces each group with r.
func GroupBy(view View, key KeyFunc, r Reducer) Grouping {
	acc := make(map[string]*accumulator)
	absent := 0

	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		k, ok := key(b)
		if !ok {
			absent++
			continue
		}
		a, exists := acc[k]
		if !exists {
			a = &accumulator{}
			acc[k] = a
		}
		a.records++
		if r.Kind == ReduceCount {
			a.present++
			continue
		}
		if v := readField(r.Field, b); v != nil {
			a.sum += *v
			a.present++
		}
	}

	g := Grouping{
		Kind:    r.Kind,
		Values:  make(map[string]float64, len(acc)),
		Records: make(map[string]int, len(acc)),
		Present: make(map[string]int, len(acc)),
		Absent:  absent,
	}
	for k, a := range acc {
		g.Records[k] = a.records
		g.Present[k] = a.present
		g.Values[k] = a.value(r.Kind)
	}
	return g
}

func (a *accumulator) value(kind ReducerKind) float64 {
	switch kind {
	case ReduceCount:
		return float64(a.records)
	case ReduceMean:
		if a.present == 0 {
			return 0
		}
		return a.sum / float64(a.present)
	default:
		return a.sum
	}
}

// Total sums the reduced values across all keys.
func (g Grouping) Total() float64 {
	var total float64
	for _, v := range g.Values {
		total += v
	}
	return total
}

// Ranked returns the groups sorted by value descending, ties broken by key.
// Share is each value's percentage of the summed values.
func (g Grouping) Ranked() []Group {
	total := g.Total()
	groups := make([]Group, 0, len(g.Values))
	for k, v := range g.Values {
		grp := Group{Key: k, Label: k, Value: v, Count: g.Records[k]}
		if total > 0 {
			grp.Share = v / total * 100
		}
		groups = append(groups, grp)
	}
	SortGroups(groups, SortValueDesc)
	return groups
}

// ============================================================================
// NESTED (TWO-KEY) GROUPING
// ============================================================================

// Cell is the {sum, count} pair kept for every nested group.
type Cell struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// Mean returns Sum/Count, or 0 for an empty cell.
func (c Cell) Mean() float64 {
	if c.Count == 0 {
		return 0
	}
	return c.Sum / float64(c.Count)
}

// NestedGrouping maps outer key → inner key → {sum, count}.
type NestedGrouping struct {
	Cells  map[string]map[string]Cell `json:"cells"`
	Absent int                        `json:"absent"`
}

// GroupByPair groups by outer then inner key, summing field and counting
// records per pair. A record missing either key is counted in Absent.
func GroupByPair(view View, outer, inner KeyFunc, field FieldFunc) NestedGrouping {
	ng := NestedGrouping{Cells: make(map[string]map[string]Cell)}

	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		outerKey, hasOuter := outer(b)
		innerKey, hasInner := inner(b)
		if !hasOuter || !hasInner {
			ng.Absent++
			continue
		}
		row, exists := ng.Cells[outerKey]
		if !exists {
			row = make(map[string]Cell)
			ng.Cells[outerKey] = row
		}
		c := row[innerKey]
		c.Count++
		if v := readField(field, b); v != nil {
			c.Sum += *v
		}
		row[innerKey] = c
	}
	return ng
}

// OuterTotals sums each outer key's cells across all inner partners.
func (ng NestedGrouping) OuterTotals() map[string]float64 {
	totals := make(map[string]float64, len(ng.Cells))
	for outer, row := range ng.Cells {
		for _, c := range row {
			totals[outer] += c.Sum
		}
	}
	return totals
}

// InnerTotals sums each inner key's cells across all outer partners.
func (ng NestedGrouping) InnerTotals() map[string]float64 {
	totals := make(map[string]float64)
	for _, row := range ng.Cells {
		for inner, c := range row {
			totals[inner] += c.Sum
		}
	}
	return totals
}

// Lookup returns the cell for a pair and whether any trip was observed.
func (ng NestedGrouping) Lookup(outer, inner string) (Cell, bool) {
	row, ok := ng.Cells[outer]
	if !ok {
		return Cell{}, false
	}
	c, ok := row[inner]
	return c, ok && c.Count > 0
}

// ============================================================================
// WHOLE-VIEW REDUCTION
// ============================================================================

// Reduce applies r to the whole view as a single group.
// Mean over an empty view (or one with no present values) is 0.
func Reduce(view View, r Reducer) float64 {
	a := accumulator{}
	for i := 0; i < view.Len(); i++ {
		a.records++
		if r.Kind == ReduceCount {
			continue
		}
		if v := readField(r.Field, view.At(i)); v != nil {
			a.sum += *v
			a.present++
		}
	}
	return a.value(r.Kind)
}

// CountWhere counts bookings satisfying pred.
func CountWhere(view View, pred func(Booking) bool) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if pred(view.At(i)) {
			n++
		}
	}
	return n
}

func readField(field FieldFunc, b Booking) *float64 {
	if field == nil {
		return nil
	}
	return field(b)
}

// ============================================================================
// SORTING
// ============================================================================

// Sort modes accepted by SortGroups.
const (
	SortValueDesc     = "value_desc"
	SortValueAsc      = "value_asc"
	SortKeyAsc        = "key_asc"
	SortLabelAsc      = "label_asc"
	SortChronological = "chronological"
)

// SortModes lists the sort modes in display order.
func SortModes() []string {
	return []string{SortValueDesc, SortValueAsc, SortKeyAsc, SortLabelAsc, SortChronological}
}

// IsSortMode reports whether s names a sort mode.
func IsSortMode(s string) bool {
	return lo.Contains(SortModes(), s)
}

// SortGroups sorts groups in place by the specified sort mode.
// Unknown modes keep the current order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool {
			if groups[i].Value != groups[j].Value {
				return groups[i].Value > groups[j].Value
			}
			return groups[i].Key < groups[j].Key
		})
	case SortValueAsc:
		sort.SliceStable(groups, func(i, j int) bool {
			if groups[i].Value != groups[j].Value {
				return groups[i].Value < groups[j].Value
			}
			return groups[i].Key < groups[j].Key
		})
	case SortKeyAsc, SortChronological:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	case SortLabelAsc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label) })
	}
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
