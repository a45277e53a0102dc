package engine

// ============================================================================
// SUCCESS RATE — completed / demand per time bucket
// ============================================================================

// BucketRate is demand and completions for one time bucket.
type BucketRate struct {
	Bucket      string  `json:"bucket"`
	Demand      int     `json:"demand"`
	Completed   int     `json:"completed"`
	SuccessRate float64 `json:"successRate"` // percent
}

// HourRate is demand and completions for one hour of day.
type HourRate struct {
	Hour        int     `json:"hour"`
	Demand      int     `json:"demand"`
	Completed   int     `json:"completed"`
	SuccessRate float64 `json:"successRate"` // percent
}

func successRate(completed, demand int) float64 {
	if demand == 0 {
		return 0
	}
	return float64(completed) / float64(demand) * 100
}

// MonthlySuccess reports success rate per "YYYY-MM", ascending.
// Bookings without a usable date are skipped.
func MonthlySuccess(view View) []BucketRate {
	demand := make(map[string]int)
	completed := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		m, ok := b.Month()
		if !ok {
			continue
		}
		demand[m]++
		if b.IsCompleted() {
			completed[m]++
		}
	}

	months := sortedKeys(demand)
	out := make([]BucketRate, 0, len(months))
	for _, m := range months {
		out = append(out, BucketRate{
			Bucket:      m,
			Demand:      demand[m],
			Completed:   completed[m],
			SuccessRate: successRate(completed[m], demand[m]),
		})
	}
	return out
}

// HourlySuccess reports success rate for every hour 0-23.
// The result always has 24 entries; hours without demand report zeros.
func HourlySuccess(view View) []HourRate {
	var demand, completed [24]int
	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		h, ok := b.Hour()
		if !ok {
			continue
		}
		demand[h]++
		if b.IsCompleted() {
			completed[h]++
		}
	}

	out := make([]HourRate, 24)
	for h := range out {
		out[h] = HourRate{
			Hour:        h,
			Demand:      demand[h],
			Completed:   completed[h],
			SuccessRate: successRate(completed[h], demand[h]),
		}
	}
	return out
}
