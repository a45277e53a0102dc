package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// KPI TESTS
// ============================================================================

func TestComputeKPIsAbsentValuesExcluded(t *testing.T) {
	ds := NewDataset([]Booking{
		{Date: "2024-01-01", Status: "Completed", RideDistance: f64(10), DriverRating: f64(4)},
		{Date: "2024-01-01", Status: "Completed"},
		{Date: "2024-01-01", Status: "Cancelled by Customer", RideDistance: f64(5)},
	})
	k := ComputeKPIs(ds)

	assert.Equal(t, 3, k.Total)
	assert.Equal(t, 2, k.Completed)
	assert.Equal(t, 1, k.Cancelled)
	assert.InDelta(t, 7.5, k.AvgDistance, 1e-9)
	assert.InDelta(t, 4.0, k.AvgRating, 1e-9)
	assert.InDelta(t, 66.666, k.CompletionRate, 1e-2)
}

func TestComputeKPIsFixture(t *testing.T) {
	k := ComputeKPIs(fixture())

	assert.Equal(t, 10, k.Total)
	assert.Equal(t, 4, k.Completed)
	assert.Equal(t, 4, k.Cancelled)
	assert.InDelta(t, 1230.0, k.TotalRevenue, 1e-9)
	assert.Equal(t, 5, k.UniqueCustomers)
}

func TestComputeKPIsEmpty(t *testing.T) {
	assert.Equal(t, KPIs{}, ComputeKPIs(NewDataset(nil)))
}

func TestStatusPartitionSumsToTotal(t *testing.T) {
	ds := fixture()
	var sum int
	for _, g := range StatusBreakdown(ds) {
		sum += g.Count
	}
	assert.Equal(t, ds.Len(), sum)
}

// ============================================================================
// TOP-N TESTS
// ============================================================================

func TestTopN(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{"fewer than distinct", 2, 2},
		{"more than distinct", 10, 3},
		{"zero keeps all", 0, 3},
		{"negative keeps all", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := TopN(fixture(), KeyPickupLocation, Sum(FieldBookingValue), tt.n)
			require.Len(t, groups, tt.wantLen)
			for i := 1; i < len(groups); i++ {
				assert.GreaterOrEqual(t, groups[i-1].Value, groups[i].Value)
			}
			assert.Equal(t, "Dwarka", groups[0].Key)
		})
	}
}

func TestMeanBySortedByKey(t *testing.T) {
	groups := MeanBy(fixture(), KeyVehicleType, FieldRideDistance)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Auto", "Bike", "Go Sedan"}, groupKeys(groups))
	assert.InDelta(t, 11.0, groups[0].Value, 1e-9)
	assert.InDelta(t, 4.5, groups[1].Value, 1e-9)
}

func TestMonthlyBookingsChronological(t *testing.T) {
	groups := MonthlyBookings(fixture())
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, groupKeys(groups))
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 4, groups[1].Count)
}

// ============================================================================
// SUCCESS RATE TESTS
// ============================================================================

func TestHourlySuccessAlways24(t *testing.T) {
	for _, view := range []View{fixture(), NewDataset(nil)} {
		hours := HourlySuccess(view)
		require.Len(t, hours, 24)
		for h, r := range hours {
			assert.Equal(t, h, r.Hour)
			if r.Demand == 0 {
				assert.Equal(t, 0.0, r.SuccessRate)
			}
		}
	}
}

func TestHourlySuccessRates(t *testing.T) {
	hours := HourlySuccess(fixture())
	assert.Equal(t, 1, hours[8].Demand)
	assert.Equal(t, 100.0, hours[8].SuccessRate)
	assert.Equal(t, 2, hours[18].Demand)
	assert.Equal(t, 50.0, hours[18].SuccessRate)
	assert.Equal(t, 0, hours[3].Demand)
}

func TestMonthlySuccess(t *testing.T) {
	rates := MonthlySuccess(fixture())
	require.Len(t, rates, 3)
	assert.Equal(t, "2024-01", rates[0].Bucket)
	assert.Equal(t, 3, rates[0].Demand)
	assert.Equal(t, 2, rates[0].Completed)
	assert.InDelta(t, 66.67, RoundTo2(rates[0].SuccessRate), 1e-9)
	assert.InDelta(t, 25.0, rates[1].SuccessRate, 1e-9)
}

// ============================================================================
// REASON TESTS
// ============================================================================

func TestReasonBreakdown(t *testing.T) {
	r := ReasonBreakdown(fixture(), CustomerCancellation)
	assert.Equal(t, CustomerCancellation, r.Kind)
	assert.Equal(t, 3, r.Subtotal)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Wrong Address", r.Items[0].Reason)
	assert.Equal(t, 2, r.Items[0].Count)
	assert.InDelta(t, 66.666, r.Items[0].Percent, 1e-2)
}

func TestReasonPercentagesSumTo100PerKind(t *testing.T) {
	for _, kind := range ReasonKinds() {
		r := ReasonBreakdown(fixture(), kind)
		require.NotEmpty(t, r.Items, kind.String())
		var pct float64
		for _, item := range r.Items {
			pct += item.Percent
		}
		assert.InDelta(t, 100.0, pct, 1e-6, kind.String())
	}
}

func TestReasonNeedsFlagAndText(t *testing.T) {
	ds := NewDataset([]Booking{
		{Date: "2024-01-01", Status: StatusCancelledByDriver, CancelledByDriver: intp(0), DriverCancelReason: strp("Other")},
		{Date: "2024-01-01", Status: StatusCancelledByDriver, CancelledByDriver: intp(1), DriverCancelReason: strp("   ")},
		{Date: "2024-01-01", Status: StatusCancelledByDriver, CancelledByDriver: intp(1)},
	})
	r := ReasonBreakdown(ds, DriverCancellation)
	assert.Equal(t, 0, r.Subtotal)
	assert.Empty(t, r.Items)
}

func TestReasonKindText(t *testing.T) {
	b, err := IncompleteRide.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "incomplete_ride", string(b))
	assert.Equal(t, "reason_kind(9)", ReasonKind(9).String())
}
