package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// REGISTRY — Named dimensions and measures over Booking
// ============================================================================
// Usage:
//
//	key, _ := engine.LookupDimension("vehicle_type")
//	field, _ := engine.LookupMeasure("ride_distance")
//	grouping := engine.GroupBy(view, key, engine.Mean(field))
//
// ============================================================================

// Field accessors for the nullable numeric columns.
var (
	FieldBookingValue   FieldFunc = func(b Booking) *float64 { return b.BookingValue }
	FieldRideDistance   FieldFunc = func(b Booking) *float64 { return b.RideDistance }
	FieldDriverRating   FieldFunc = func(b Booking) *float64 { return b.DriverRating }
	FieldCustomerRating FieldFunc = func(b Booking) *float64 { return b.CustomerRating }
	FieldAvgVTAT        FieldFunc = func(b Booking) *float64 { return b.AvgVTAT }
	FieldAvgCTAT        FieldFunc = func(b Booking) *float64 { return b.AvgCTAT }
)

// Key extractors for the categorical columns.
var (
	KeyVehicleType    KeyFunc = func(b Booking) (string, bool) { return present(b.VehicleType) }
	KeyStatus         KeyFunc = func(b Booking) (string, bool) { return present(b.Status) }
	KeyPickupLocation KeyFunc = func(b Booking) (string, bool) { return present(b.PickupLocation) }
	KeyDropLocation   KeyFunc = func(b Booking) (string, bool) { return present(b.DropLocation) }
	KeyCustomerID     KeyFunc = func(b Booking) (string, bool) { return present(b.CustomerID) }
	KeyDate           KeyFunc = func(b Booking) (string, bool) { return present(b.Date) }
	KeyMonth          KeyFunc = func(b Booking) (string, bool) { return b.Month() }
	KeyPaymentMethod  KeyFunc = func(b Booking) (string, bool) {
		if b.PaymentMethod == nil {
			return "", false
		}
		return present(*b.PaymentMethod)
	}
	KeyHour KeyFunc = func(b Booking) (string, bool) {
		h, ok := b.Hour()
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%02d", h), true
	}
)

var dimensions = map[string]KeyFunc{
	"vehicle_type":    KeyVehicleType,
	"status":          KeyStatus,
	"booking_status":  KeyStatus,
	"pickup_location": KeyPickupLocation,
	"drop_location":   KeyDropLocation,
	"customer_id":     KeyCustomerID,
	"payment_method":  KeyPaymentMethod,
	"date":            KeyDate,
	"month":           KeyMonth,
	"hour":            KeyHour,
}

var measures = map[string]FieldFunc{
	"booking_value":   FieldBookingValue,
	"ride_distance":   FieldRideDistance,
	"driver_rating":   FieldDriverRating,
	"driver_ratings":  FieldDriverRating,
	"customer_rating": FieldCustomerRating,
	"avg_vtat":        FieldAvgVTAT,
	"avg_ctat":        FieldAvgCTAT,
}

// LookupDimension resolves a dimension name such as "vehicle_type".
// Names are matched case-insensitively; spaces and dashes act as underscores.
func LookupDimension(name string) (KeyFunc, bool) {
	fn, ok := dimensions[canonicalName(name)]
	return fn, ok
}

// LookupMeasure resolves a measure name such as "ride_distance".
func LookupMeasure(name string) (FieldFunc, bool) {
	fn, ok := measures[canonicalName(name)]
	return fn, ok
}

// DimensionNames lists the registered dimension names, sorted.
func DimensionNames() []string { return sortedKeys(dimensions) }

// MeasureNames lists the registered measure names, sorted.
func MeasureNames() []string { return sortedKeys(measures) }

// ParseReducer builds a Reducer from a name ("count", "sum", "mean"/"avg")
// and an optional measure name.
func ParseReducer(kind, measure string) (Reducer, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "", "count":
		return Count(), nil
	case "sum", "mean", "avg":
		field, ok := LookupMeasure(measure)
		if !ok {
			return Reducer{}, fmt.Errorf("unknown measure %q", measure)
		}
		if kind == "sum" {
			return Sum(field), nil
		}
		return Mean(field), nil
	default:
		return Reducer{}, fmt.Errorf("unknown reducer %q", kind)
	}
}

func present(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func canonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}

func sortedKeys[T any](m map[string]T) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
