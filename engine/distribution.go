package engine

import (
	"math"
	"sort"
)

// ============================================================================
// DISTRIBUTION — Price-per-distance histogram
// ============================================================================
// Series:  BookingValue / RideDistance for rides where both are present and > 0
// Domain:  [0, P95] split into equal-width bins
// Tail:    values above P95 are counted in Overflow, never binned
// Mean:    taken over the full series, tail included
// ============================================================================

const (
	DefaultHistogramBins = 30
	DefaultPercentile    = 0.95
)

// Bin is one equal-width histogram bucket [Lower, Upper).
// The last bin is closed on the right.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Distribution is a histogram over a clipped domain plus summary stats.
type Distribution struct {
	Series     []float64 `json:"-"`
	Percentile float64   `json:"percentile"`
	Cutoff     float64   `json:"cutoff"` // value at Percentile, upper edge of the domain
	Bins       []Bin     `json:"bins"`
	Overflow   int       `json:"overflow"`
	Mean       float64   `json:"mean"`
	MeanBin    int       `json:"meanBin"` // -1 when the mean lies beyond the domain
}

// PricePerDistance builds the fare-per-km histogram for a view.
// bins <= 0 uses DefaultHistogramBins; p outside (0, 1] uses DefaultPercentile.
func PricePerDistance(view View, bins int, p float64) Distribution {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	if p <= 0 || p > 1 {
		p = DefaultPercentile
	}

	series := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		if b.BookingValue == nil || b.RideDistance == nil {
			continue
		}
		if *b.BookingValue <= 0 || *b.RideDistance <= 0 {
			continue
		}
		series = append(series, *b.BookingValue / *b.RideDistance)
	}
	return Histogram(series, bins, p)
}

// Histogram bins series over [0, Quantile(series, p)].
func Histogram(series []float64, bins int, p float64) Distribution {
	d := Distribution{
		Series:     series,
		Percentile: p,
		Bins:       make([]Bin, bins),
		MeanBin:    -1,
	}
	if len(series) == 0 {
		return d
	}

	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)
	d.Cutoff = Quantile(sorted, p)

	var sum float64
	for _, v := range series {
		sum += v
	}
	d.Mean = sum / float64(len(series))

	width := d.Cutoff / float64(bins)
	for i := range d.Bins {
		d.Bins[i].Lower = width * float64(i)
		d.Bins[i].Upper = width * float64(i+1)
	}
	d.Bins[bins-1].Upper = d.Cutoff

	for _, v := range series {
		idx, ok := binIndex(v, width, d.Cutoff, bins)
		if !ok {
			d.Overflow++
			continue
		}
		d.Bins[idx].Count++
	}
	if idx, ok := binIndex(d.Mean, width, d.Cutoff, bins); ok {
		d.MeanBin = idx
	}
	return d
}

func binIndex(v, width, cutoff float64, bins int) (int, bool) {
	if v < 0 || v > cutoff {
		return 0, false
	}
	if width == 0 {
		return 0, true
	}
	idx := int(math.Floor(v / width))
	if idx >= bins {
		idx = bins - 1
	}
	return idx, true
}

// Quantile returns the p-quantile of an ascending slice using linear
// interpolation between closest ranks (R-7). Empty input yields 0.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case p <= 0 || n == 1:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
