package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Source column headers of the booking feed.
const (
	ColDate                 = "Date"
	ColTime                 = "Time"
	ColBookingID            = "Booking ID"
	ColBookingStatus        = "Booking Status"
	ColCustomerID           = "Customer ID"
	ColVehicleType          = "Vehicle Type"
	ColPickupLocation       = "Pickup Location"
	ColDropLocation         = "Drop Location"
	ColAvgVTAT              = "Avg VTAT"
	ColAvgCTAT              = "Avg CTAT"
	ColCancelledByCustomer  = "Cancelled Rides by Customer"
	ColCustomerCancelReason = "Reason for cancelling by Customer"
	ColCancelledByDriver    = "Cancelled Rides by Driver"
	ColDriverCancelReason   = "Driver Cancellation Reason"
	ColIncompleteRides      = "Incomplete Rides"
	ColIncompleteReason     = "Incomplete Rides Reason"
	ColBookingValue         = "Booking Value"
	ColRideDistance         = "Ride Distance"
	ColDriverRatings        = "Driver Ratings"
	ColCustomerRating       = "Customer Rating"
	ColPaymentMethod        = "Payment Method"
)

// Columns lists every source column in feed order.
var Columns = []string{
	ColDate, ColTime, ColBookingID, ColBookingStatus, ColCustomerID,
	ColVehicleType, ColPickupLocation, ColDropLocation, ColAvgVTAT, ColAvgCTAT,
	ColCancelledByCustomer, ColCustomerCancelReason, ColCancelledByDriver,
	ColDriverCancelReason, ColIncompleteRides, ColIncompleteReason,
	ColBookingValue, ColRideDistance, ColDriverRatings, ColCustomerRating,
	ColPaymentMethod,
}

// RequiredColumns must be present in every feed.
var RequiredColumns = []string{ColDate, ColBookingStatus}

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

const utf8BOM = "\uFEFF"

// Header maps canonical column names to positions in a source header row.
type Header struct {
	index   map[string]int
	Unknown []string // headers that match no known column
	Missing []string // known optional columns absent from the feed
}

// ValidateHeader resolves a header row. Matching ignores case, surrounding
// whitespace, a leading UTF-8 BOM, and the difference between spaces,
// dashes and underscores.
func ValidateHeader(headers []string) (*Header, error) {
	known := make(map[string]string, len(Columns))
	for _, c := range Columns {
		known[toSnakeCase(c)] = c
	}

	h := &Header{index: make(map[string]int, len(headers))}
	for i, raw := range headers {
		if i == 0 {
			raw = strings.TrimPrefix(raw, utf8BOM)
		}
		col, ok := known[toSnakeCase(strings.TrimSpace(raw))]
		if !ok {
			h.Unknown = append(h.Unknown, raw)
			continue
		}
		if _, dup := h.index[col]; !dup {
			h.index[col] = i
		}
	}

	for _, req := range RequiredColumns {
		if _, ok := h.index[req]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, req)
		}
	}
	for _, c := range Columns {
		if _, ok := h.index[c]; !ok {
			h.Missing = append(h.Missing, c)
		}
	}
	return h, nil
}

// Index returns the position of a column in the source row.
func (h *Header) Index(column string) (int, bool) {
	i, ok := h.index[column]
	return i, ok
}

// Field reads column from a source row. ok is false when the column is not
// in the header or the row is short.
func (h *Header) Field(row []string, column string) (string, bool) {
	i, ok := h.index[column]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "ride_distance" → "Ride Distance", "Vehicle Type" → "Vehicle Type"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
