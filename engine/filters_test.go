package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// RANGE FILTER TESTS
// ============================================================================

func TestFilterRange(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want int
	}{
		{"open", Range{}, 10},
		{"january", Range{Start: "2024-01-01", End: "2024-01-31"}, 3},
		{"single date", Range{Start: "2024-02-12", End: "2024-02-12"}, 2},
		{"start only", Range{Start: "2024-03-01"}, 3},
		{"end only", Range{End: "2024-01-05"}, 2},
		{"inverted", Range{Start: "2024-03-01", End: "2024-01-01"}, 0},
		{"outside", Range{Start: "2025-01-01", End: "2025-12-31"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := FilterRange(fixture(), tt.r)
			assert.Equal(t, tt.want, view.Len())
			for i := 0; i < view.Len(); i++ {
				assert.True(t, tt.r.Contains(view.At(i).Date))
			}
		})
	}
}

func TestFilterRangeIdempotent(t *testing.T) {
	r := Range{Start: "2024-01-06", End: "2024-02-12"}
	once := FilterRange(fixture(), r)
	twice := FilterRange(once, r)

	assert.Equal(t, Collect(once), Collect(twice))
}

func TestFilterRangeSingleDateMatchesExactly(t *testing.T) {
	view := FilterRange(fixture(), Range{Start: "2024-01-05", End: "2024-01-05"})
	require.Equal(t, 2, view.Len())
	for _, b := range Collect(view) {
		assert.Equal(t, "2024-01-05", b.Date)
	}
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "*..*", Range{}.String())
	assert.Equal(t, "2024-01-01..*", Range{Start: "2024-01-01"}.String())
	assert.Equal(t, "*..2024-12-31", Range{End: "2024-12-31"}.String())
	assert.True(t, Range{}.IsOpen())
}

// ============================================================================
// DIMENSION FILTER TESTS
// ============================================================================

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    int
	}{
		{"empty", Filters{}, 10},
		{"case insensitive", Filters{Dimensions: map[string][]string{"vehicle_type": {"auto"}}}, 6},
		{"or within dimension", Filters{Dimensions: map[string][]string{"vehicle_type": {"Auto", "Bike"}}}, 9},
		{"and across dimensions", Filters{Dimensions: map[string][]string{
			"vehicle_type": {"Auto"},
			"status":       {"Completed"},
		}}, 2},
		{"with range", Filters{
			Range:      Range{Start: "2024-02-01", End: "2024-02-28"},
			Dimensions: map[string][]string{"Vehicle Type": {"Auto"}},
		}, 3},
		{"unknown dimension", Filters{Dimensions: map[string][]string{"colour": {"red"}}}, 0},
		{"empty values ignored", Filters{Dimensions: map[string][]string{"vehicle_type": {}}}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyFilters(fixture(), tt.filters).Len())
		})
	}
}

func TestFiltersIsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.True(t, Filters{Dimensions: map[string][]string{"status": nil}}.IsEmpty())
	assert.False(t, Filters{Range: Range{Start: "2024-01-01"}}.IsEmpty())

	f := Filters{Dimensions: map[string][]string{"status": {"Completed"}}}
	assert.False(t, f.IsEmpty())
	assert.True(t, f.HasFilter("status"))
	assert.False(t, f.HasFilter("vehicle_type"))
}

// ============================================================================
// VIEW TESTS
// ============================================================================

func TestSubViewFlattens(t *testing.T) {
	ds := fixture()
	first := Where(ds, Booking.IsCompleted)
	second := Where(first, func(b Booking) bool { return b.VehicleType == "Auto" })

	sv, ok := second.(*SubView)
	require.True(t, ok)
	assert.Same(t, ds, sv.parent)
	assert.Equal(t, 2, second.Len())
	assert.Equal(t, Booking{}, second.At(5))
}

func TestDatasetIsNotMutatedByCallers(t *testing.T) {
	ds := fixture()
	copied := ds.Bookings()
	copied[0].Status = "tampered"
	assert.Equal(t, StatusCompleted, ds.At(0).Status)
}

func TestDateIndex(t *testing.T) {
	dates := DateIndex(fixture())
	require.Len(t, dates, 8)
	assert.Equal(t, "2024-01-05", dates[0])
	assert.Equal(t, "2024-03-03", dates[len(dates)-1])

	first, last, ok := DateBounds(dates)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-05", first)
	assert.Equal(t, "2024-03-03", last)

	empty := DateIndex(NewDataset(nil))
	assert.NotNil(t, empty)
	_, _, ok = DateBounds(empty)
	assert.False(t, ok)
}

func TestBookingHourAndMonth(t *testing.T) {
	tests := []struct {
		clock string
		hour  int
		ok    bool
	}{
		{"00:00:00", 0, true},
		{"23:59:59", 23, true},
		{"7:05", 0, false},
		{"25:00:00", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		h, ok := Booking{Time: tt.clock}.Hour()
		assert.Equal(t, tt.ok, ok, tt.clock)
		assert.Equal(t, tt.hour, h, tt.clock)
	}

	m, ok := Booking{Date: "2024-07-19"}.Month()
	assert.True(t, ok)
	assert.Equal(t, "2024-07", m)
	_, ok = Booking{}.Month()
	assert.False(t, ok)
}
