package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// NORMALIZER TESTS
// ============================================================================

// Rows as they appear in the real feed: quoted IDs and "null" cells.
var feedHeader = Columns

func feedRow(overrides map[string]string) []string {
	base := map[string]string{
		ColDate:                 "2024-03-23",
		ColTime:                 "12:29:38",
		ColBookingID:            `"CNR5884300"`,
		ColBookingStatus:        "Completed",
		ColCustomerID:           `"CID1982111"`,
		ColVehicleType:          "eBike",
		ColPickupLocation:       "Palam Vihar",
		ColDropLocation:         "Jhilmil",
		ColAvgVTAT:              "null",
		ColAvgCTAT:              "null",
		ColCancelledByCustomer:  "null",
		ColCustomerCancelReason: "null",
		ColCancelledByDriver:    "null",
		ColDriverCancelReason:   "null",
		ColIncompleteRides:      "null",
		ColIncompleteReason:     "null",
		ColBookingValue:         "358",
		ColRideDistance:         "26.73",
		ColDriverRatings:        "4.1",
		ColCustomerRating:       "4.5",
		ColPaymentMethod:        "UPI",
	}
	for k, v := range overrides {
		base[k] = v
	}
	row := make([]string, len(Columns))
	for i, c := range Columns {
		row[i] = base[c]
	}
	return row
}

func TestRecordCompleted(t *testing.T) {
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)

	b, err := n.Record(feedRow(nil), 0)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-23", b.Date)
	assert.Equal(t, "12:29:38", b.Time)
	assert.Equal(t, "CNR5884300", b.BookingID)
	assert.Equal(t, "CID1982111", b.CustomerID)
	assert.Equal(t, "Completed", b.Status)
	assert.Equal(t, "eBike", b.VehicleType)
	require.NotNil(t, b.BookingValue)
	assert.Equal(t, 358.0, *b.BookingValue)
	require.NotNil(t, b.RideDistance)
	assert.Equal(t, 26.73, *b.RideDistance)
	require.NotNil(t, b.PaymentMethod)
	assert.Equal(t, "UPI", *b.PaymentMethod)

	assert.Nil(t, b.AvgVTAT)
	assert.Nil(t, b.CancelledByCustomer)
	assert.Nil(t, b.CustomerCancelReason)
	assert.Nil(t, b.IncompleteReason)
}

func TestRecordNullNeverBecomesZero(t *testing.T) {
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)

	for _, raw := range []string{"null", "NULL", " Null ", "", "   ", "abc", "NaN", "Inf"} {
		b, err := n.Record(feedRow(map[string]string{
			ColBookingValue:    raw,
			ColRideDistance:    raw,
			ColIncompleteRides: raw,
		}), 1)
		require.NoError(t, err, raw)
		assert.Nil(t, b.BookingValue, raw)
		assert.Nil(t, b.RideDistance, raw)
		assert.Nil(t, b.IncompleteRides, raw)
	}
}

func TestRecordCancellation(t *testing.T) {
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)

	b, err := n.Record(feedRow(map[string]string{
		ColBookingStatus:        "Cancelled by Customer",
		ColCancelledByCustomer:  "1.0",
		ColCustomerCancelReason: " Wrong Address ",
		ColBookingValue:         "null",
		ColPaymentMethod:        "null",
	}), 2)
	require.NoError(t, err)

	require.NotNil(t, b.CancelledByCustomer)
	assert.Equal(t, 1, *b.CancelledByCustomer)
	require.NotNil(t, b.CustomerCancelReason)
	assert.Equal(t, "Wrong Address", *b.CustomerCancelReason)
	assert.Nil(t, b.PaymentMethod)
	assert.True(t, b.IsCancelled())
}

func TestRecordRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]string
		field string
	}{
		{"null date", map[string]string{ColDate: "null"}, ColDate},
		{"empty date", map[string]string{ColDate: ""}, ColDate},
		{"bad date", map[string]string{ColDate: "yesterday"}, ColDate},
		{"null status", map[string]string{ColBookingStatus: "null"}, ColBookingStatus},
		{"blank status", map[string]string{ColBookingStatus: "  "}, ColBookingStatus},
	}
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Record(feedRow(tt.patch), 7)
			var merr *MalformedRecordError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, 7, merr.Row)
			assert.Equal(t, tt.field, merr.Field)
			assert.Contains(t, err.Error(), "row 7")
		})
	}
}

func TestRecordDateLayouts(t *testing.T) {
	tests := []struct {
		raw, date, clock string
	}{
		{"2024-03-23", "2024-03-23", "12:29:38"},
		{"2024/03/23", "2024-03-23", "12:29:38"},
		{"23-03-2024", "2024-03-23", "12:29:38"},
		{"03/23/2024", "2024-03-23", "12:29:38"},
		{`"2024-03-23"`, "2024-03-23", "12:29:38"},
	}
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)
	for _, tt := range tests {
		b, err := n.Record(feedRow(map[string]string{ColDate: tt.raw}), 0)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.date, b.Date, tt.raw)
		assert.Equal(t, tt.clock, b.Time, tt.raw)
	}
}

func TestRecordTimestampFillsTime(t *testing.T) {
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)

	b, err := n.Record(feedRow(map[string]string{ColDate: "2024-03-23 07:05:00", ColTime: "null"}), 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-23", b.Date)
	assert.Equal(t, "07:05:00", b.Time)

	b, err = n.Record(feedRow(map[string]string{ColTime: "7:05 PM"}), 0)
	require.NoError(t, err)
	assert.Equal(t, "19:05:00", b.Time)
}

func TestNormalizeMap(t *testing.T) {
	b, err := Normalize(map[string]string{
		"\uFEFFDate":              "2024-01-01",
		"booking_status":          "Incomplete",
		"Incomplete Rides":        "1",
		"incomplete-rides-reason": "Vehicle Breakdown",
		"Unknown":                 "ignored",
	}, 3)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", b.Date)
	assert.Equal(t, "Incomplete", b.Status)
	require.NotNil(t, b.IncompleteRides)
	assert.Equal(t, 1, *b.IncompleteRides)
	require.NotNil(t, b.IncompleteReason)
	assert.Equal(t, "Vehicle Breakdown", *b.IncompleteReason)
	assert.Empty(t, b.Time)

	_, err = Normalize(map[string]string{"Date": "2024-01-01"}, 4)
	var merr *MalformedRecordError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ColBookingStatus, merr.Field)
}

func TestRecordShortRow(t *testing.T) {
	n, err := NewNormalizer(feedHeader)
	require.NoError(t, err)

	b, err := n.Record([]string{"2024-01-01", "10:00:00", "X", "Completed"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "X", b.BookingID)
	assert.Nil(t, b.BookingValue)
	assert.Empty(t, b.VehicleType)
}
