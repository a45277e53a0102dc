package engine

// ============================================================================
// RIDEPULSE ENGINE TYPES — Ride-booking analytics
// ============================================================================
// Booking is the typed record every aggregation reads. Nullable fields are
// pointers: nil means "absent", which is never the same as zero.
// ============================================================================

// Booking status values as they appear in the source feed.
const (
	StatusCompleted           = "Completed"
	StatusCancelledByCustomer = "Cancelled by Customer"
	StatusCancelledByDriver   = "Cancelled by Driver"
	StatusNoDriverFound       = "No Driver Found"
	StatusIncomplete          = "Incomplete"
)

// ============================================================================
// BOOKING — one normalized ride-booking event
// ============================================================================

// Booking is one ride-booking event after normalization.
// Date is ISO "YYYY-MM-DD" so lexicographic order equals chronological order.
type Booking struct {
	Date           string `json:"date"`
	Time           string `json:"time"`
	BookingID      string `json:"bookingId"`
	Status         string `json:"bookingStatus"`
	CustomerID     string `json:"customerId"`
	VehicleType    string `json:"vehicleType"`
	PickupLocation string `json:"pickupLocation"`
	DropLocation   string `json:"dropLocation"`

	AvgVTAT *float64 `json:"avgVTAT,omitempty"`
	AvgCTAT *float64 `json:"avgCTAT,omitempty"`

	CancelledByCustomer  *int    `json:"cancelledByCustomer,omitempty"`
	CustomerCancelReason *string `json:"customerCancelReason,omitempty"`
	CancelledByDriver    *int    `json:"cancelledByDriver,omitempty"`
	DriverCancelReason   *string `json:"driverCancelReason,omitempty"`
	IncompleteRides      *int    `json:"incompleteRides,omitempty"`
	IncompleteReason     *string `json:"incompleteReason,omitempty"`

	BookingValue   *float64 `json:"bookingValue,omitempty"`
	RideDistance   *float64 `json:"rideDistance,omitempty"`
	DriverRating   *float64 `json:"driverRating,omitempty"`
	CustomerRating *float64 `json:"customerRating,omitempty"`
	PaymentMethod  *string  `json:"paymentMethod,omitempty"`
}

// IsCompleted reports whether the booking finished successfully.
func (b Booking) IsCompleted() bool {
	return equalFoldTrim(b.Status, StatusCompleted)
}

// IsCancelled reports whether the booking was cancelled by either party.
func (b Booking) IsCancelled() bool {
	return isCancelledStatus(b.Status)
}

// Month returns the "YYYY-MM" bucket of the booking date.
func (b Booking) Month() (string, bool) {
	if len(b.Date) < 7 {
		return "", false
	}
	return b.Date[:7], true
}

// Hour returns the hour of day extracted from Time.
func (b Booking) Hour() (int, bool) {
	if len(b.Time) < 2 || !isDigit(b.Time[0]) || !isDigit(b.Time[1]) {
		return 0, false
	}
	h := int(b.Time[0]-'0')*10 + int(b.Time[1]-'0')
	if h > 23 {
		return 0, false
	}
	return h, true
}

// ============================================================================
// GROUP — ranked aggregation row
// ============================================================================

// Group is one ranked row of a single-key aggregation.
// Builders convert these into ChartConfig or TableData.
type Group struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
	Share float64 `json:"share"` // percent of the summed values
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig is a render-ready chart description.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides a footer line for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
