package engine

import (
	"sort"

	"github.com/samber/lo"
)

// DateIndex returns the distinct booking dates of a view in ascending order.
// ISO dates sort lexicographically in chronological order. An empty view
// yields an empty, non-nil slice.
func DateIndex(view View) []string {
	dates := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if d := view.At(i).Date; d != "" {
			dates = append(dates, d)
		}
	}
	dates = lo.Uniq(dates)
	sort.Strings(dates)
	return dates
}

// DateBounds returns the first and last date of an index.
// ok is false when the index is empty.
func DateBounds(index []string) (first, last string, ok bool) {
	if len(index) == 0 {
		return "", "", false
	}
	return index[0], index[len(index)-1], true
}
