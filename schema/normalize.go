package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/ridepulse/engine"
)

// ============================================================================
// NORMALIZER — Raw source row → engine.Booking
// ============================================================================
// The only place that interprets the "null" sentinel.
//
//   numeric fields    "", whitespace, "null", unparseable → nil
//   identifier fields every '"' stripped, trimmed
//   optional text     "", "null" → nil
//   Date, Status      required; missing or bad → *MalformedRecordError
// ============================================================================

// Accepted date layouts, tried in order. Output is always ISO.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
}

// MalformedRecordError reports a row whose required field is missing or
// unparseable.
type MalformedRecordError struct {
	Row    int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// Normalizer converts positional source rows using a resolved Header.
type Normalizer struct {
	header *Header
}

// NewNormalizer validates a header row and returns a Normalizer for it.
func NewNormalizer(headers []string) (*Normalizer, error) {
	h, err := ValidateHeader(headers)
	if err != nil {
		return nil, err
	}
	return &Normalizer{header: h}, nil
}

// Header returns the resolved header.
func (n *Normalizer) Header() *Header { return n.header }

// Record normalizes one positional row. row is the 0-based data row index
// used in error reports.
func (n *Normalizer) Record(fields []string, row int) (engine.Booking, error) {
	return normalize(func(col string) (string, bool) {
		return n.header.Field(fields, col)
	}, row)
}

// Normalize converts a row keyed by source header. Keys are matched the way
// ValidateHeader matches headers.
func Normalize(row map[string]string, index int) (engine.Booking, error) {
	canon := make(map[string]string, len(row))
	for k, v := range row {
		canon[toSnakeCase(strings.TrimSpace(strings.TrimPrefix(k, utf8BOM)))] = v
	}
	return normalize(func(col string) (string, bool) {
		v, ok := canon[toSnakeCase(col)]
		return v, ok
	}, index)
}

func normalize(get func(column string) (string, bool), row int) (engine.Booking, error) {
	str := func(col string) string {
		v, _ := get(col)
		return strings.TrimSpace(v)
	}

	var b engine.Booking

	rawDate, ok := textValue(str(ColDate))
	if !ok {
		return b, &MalformedRecordError{Row: row, Field: ColDate, Reason: "missing"}
	}
	date, clock, err := parseDate(rawDate)
	if err != nil {
		return b, &MalformedRecordError{Row: row, Field: ColDate, Reason: err.Error()}
	}
	b.Date = date

	status, ok := textValue(str(ColBookingStatus))
	if !ok {
		return b, &MalformedRecordError{Row: row, Field: ColBookingStatus, Reason: "missing"}
	}
	b.Status = status

	b.Time = parseClock(str(ColTime))
	if b.Time == "" {
		b.Time = clock
	}

	b.BookingID = identifier(str(ColBookingID))
	b.CustomerID = identifier(str(ColCustomerID))
	b.VehicleType = plainText(str(ColVehicleType))
	b.PickupLocation = plainText(str(ColPickupLocation))
	b.DropLocation = plainText(str(ColDropLocation))

	b.AvgVTAT = floatValue(str(ColAvgVTAT))
	b.AvgCTAT = floatValue(str(ColAvgCTAT))
	b.BookingValue = floatValue(str(ColBookingValue))
	b.RideDistance = floatValue(str(ColRideDistance))
	b.DriverRating = floatValue(str(ColDriverRatings))
	b.CustomerRating = floatValue(str(ColCustomerRating))

	b.CancelledByCustomer = intValue(str(ColCancelledByCustomer))
	b.CancelledByDriver = intValue(str(ColCancelledByDriver))
	b.IncompleteRides = intValue(str(ColIncompleteRides))

	b.CustomerCancelReason = optionalText(str(ColCustomerCancelReason))
	b.DriverCancelReason = optionalText(str(ColDriverCancelReason))
	b.IncompleteReason = optionalText(str(ColIncompleteReason))
	b.PaymentMethod = optionalText(str(ColPaymentMethod))

	return b, nil
}

// ============================================================================
// FIELD PARSERS
// ============================================================================

func isNull(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

func textValue(s string) (string, bool) {
	if isNull(s) {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func plainText(s string) string {
	v, _ := textValue(s)
	return v
}

func optionalText(s string) *string {
	v, ok := textValue(s)
	if !ok {
		return nil
	}
	return &v
}

func identifier(s string) string {
	return plainText(strings.ReplaceAll(s, `"`, ""))
}

func floatValue(s string) *float64 {
	if isNull(s) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// intValue accepts "1" and whole-number floats such as "1.0".
func intValue(s string) *int {
	if isNull(s) {
		return nil
	}
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return &i
	}
	f := floatValue(s)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	i := int(*f)
	return &i
}

// parseDate returns the ISO date and, for timestamp layouts, the clock time.
func parseDate(s string) (date, clock string, err error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	for _, layout := range dateLayouts {
		t, perr := time.Parse(layout, s)
		if perr != nil {
			continue
		}
		if strings.Contains(layout, "15") {
			clock = t.Format("15:04:05")
		}
		return t.Format("2006-01-02"), clock, nil
	}
	return "", "", fmt.Errorf("unrecognized date %q", s)
}

func parseClock(s string) string {
	if isNull(s) {
		return ""
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return ""
}
