package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// GROUP AGGREGATOR TESTS
// ============================================================================

func TestGroupByCount(t *testing.T) {
	g := GroupBy(fixture(), KeyVehicleType, Count())

	assert.Equal(t, ReduceCount, g.Kind)
	assert.Equal(t, 6.0, g.Values["Auto"])
	assert.Equal(t, 3.0, g.Values["Bike"])
	assert.Equal(t, 1.0, g.Values["Go Sedan"])
	assert.Equal(t, 0, g.Absent)
	assert.InDelta(t, 10.0, g.Total(), 1e-9)
}

func TestGroupByAbsentKeyIsCounted(t *testing.T) {
	ds := NewDataset([]Booking{
		{Date: "2024-01-01", Status: StatusCompleted, VehicleType: "Auto"},
		{Date: "2024-01-01", Status: StatusCompleted, VehicleType: "  "},
		{Date: "2024-01-01", Status: StatusCompleted},
	})
	g := GroupBy(ds, KeyVehicleType, Count())

	assert.Len(t, g.Values, 1)
	assert.Equal(t, 2, g.Absent)
}

func TestMeanIgnoresAbsentValues(t *testing.T) {
	base := []Booking{
		{Date: "2024-01-01", Status: StatusCompleted, VehicleType: "Auto", RideDistance: f64(5)},
		{Date: "2024-01-01", Status: StatusCompleted, VehicleType: "Auto", RideDistance: f64(10)},
	}
	withAbsent := append([]Booking{}, base...)
	for i := 0; i < 5; i++ {
		withAbsent = append(withAbsent, Booking{Date: "2024-01-02", Status: StatusNoDriverFound, VehicleType: "Auto"})
	}

	a := GroupBy(NewDataset(base), KeyVehicleType, Mean(FieldRideDistance))
	b := GroupBy(NewDataset(withAbsent), KeyVehicleType, Mean(FieldRideDistance))

	assert.InDelta(t, 7.5, a.Values["Auto"], 1e-9)
	assert.InDelta(t, a.Values["Auto"], b.Values["Auto"], 1e-9)
	assert.Equal(t, 7, b.Records["Auto"])
	assert.Equal(t, 2, b.Present["Auto"])
}

func TestMeanWithNoPresentValuesIsZero(t *testing.T) {
	ds := NewDataset([]Booking{{Date: "2024-01-01", Status: StatusNoDriverFound, VehicleType: "Auto"}})
	assert.Equal(t, 0.0, GroupBy(ds, KeyVehicleType, Mean(FieldRideDistance)).Values["Auto"])
	assert.Equal(t, 0.0, Reduce(ds, Mean(FieldRideDistance)))
	assert.Equal(t, 0.0, Reduce(NewDataset(nil), Mean(FieldRideDistance)))
}

func TestGroupBySum(t *testing.T) {
	g := GroupBy(fixture(), KeyPickupLocation, Sum(FieldBookingValue))
	assert.InDelta(t, 350.0, g.Values["Saket"], 1e-9)
	assert.InDelta(t, 300.0, g.Values["Rohini"], 1e-9)
	assert.InDelta(t, 500.0, g.Values["Dwarka"], 1e-9)
	// cancellations and the incomplete ride have no pickup
	assert.Equal(t, 6, g.Absent)
}

func TestRankedOrderAndShare(t *testing.T) {
	groups := GroupBy(fixture(), KeyVehicleType, Count()).Ranked()
	require.Len(t, groups, 3)

	assert.Equal(t, "Auto", groups[0].Key)
	assert.Equal(t, "Bike", groups[1].Key)
	assert.Equal(t, "Go Sedan", groups[2].Key)
	assert.InDelta(t, 60.0, groups[0].Share, 1e-9)

	var share float64
	for _, g := range groups {
		share += g.Share
	}
	assert.InDelta(t, 100.0, share, 1e-9)
}

func TestRankedTiesBreakByKey(t *testing.T) {
	ds := NewDataset([]Booking{
		{Date: "2024-01-01", Status: StatusCompleted, VehicleType: "Bike"},
		{Date: "2024-01-01", Status: StatusCompleted, VehicleType: "Auto"},
	})
	groups := GroupBy(ds, KeyVehicleType, Count()).Ranked()
	require.Len(t, groups, 2)
	assert.Equal(t, "Auto", groups[0].Key)
	assert.Equal(t, "Bike", groups[1].Key)
}

func TestGroupByPair(t *testing.T) {
	ds := NewDataset([]Booking{
		ride("2024-01-01", "10:00:00", "Auto", "A", "B", 100, 5),
		ride("2024-01-01", "11:00:00", "Auto", "A", "B", 50, 5),
		ride("2024-01-01", "12:00:00", "Auto", "A", "C", 30, 5),
		ride("2024-01-01", "13:00:00", "Auto", "", "C", 30, 5),
	})
	ng := GroupByPair(ds, KeyPickupLocation, KeyDropLocation, FieldBookingValue)

	c, ok := ng.Lookup("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 150.0, c.Sum, 1e-9)
	assert.Equal(t, 2, c.Count)
	assert.InDelta(t, 75.0, c.Mean(), 1e-9)
	assert.Equal(t, 1, ng.Absent)

	_, ok = ng.Lookup("B", "A")
	assert.False(t, ok)

	assert.InDelta(t, 180.0, ng.OuterTotals()["A"], 1e-9)
	assert.InDelta(t, 30.0, ng.InnerTotals()["C"], 1e-9)
}

func TestCountWhere(t *testing.T) {
	assert.Equal(t, 4, CountWhere(fixture(), Booking.IsCompleted))
	assert.Equal(t, 4, CountWhere(fixture(), Booking.IsCancelled))
}

func TestSortGroups(t *testing.T) {
	groups := []Group{
		{Key: "b", Label: "b", Value: 1},
		{Key: "a", Label: "A", Value: 3},
		{Key: "c", Label: "c", Value: 2},
	}
	SortGroups(groups, "value_asc")
	assert.Equal(t, []string{"b", "c", "a"}, groupKeys(groups))
	SortGroups(groups, "key_asc")
	assert.Equal(t, []string{"a", "b", "c"}, groupKeys(groups))
	SortGroups(groups, "value_desc")
	assert.Equal(t, []string{"a", "c", "b"}, groupKeys(groups))
	SortGroups(groups, SortLabelAsc)
	assert.Equal(t, []string{"a", "b", "c"}, groupKeys(groups))
	SortGroups(groups, SortValueAsc)
	SortGroups(groups, "bogus")
	assert.Equal(t, []string{"b", "c", "a"}, groupKeys(groups))
}

func TestSortModes(t *testing.T) {
	for _, mode := range SortModes() {
		assert.True(t, IsSortMode(mode), mode)
	}
	assert.False(t, IsSortMode("alpha_asc"))
	assert.False(t, IsSortMode(""))
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 1.23, RoundTo2(1.234))
	assert.Equal(t, 1.24, RoundTo2(1.236))
	assert.Equal(t, 0.0, RoundTo2(0.001))
}

func groupKeys(groups []Group) []string {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}
