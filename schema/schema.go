package schema

// ============================================================================
// SCHEMA — Describes the shape of the booking feed for the engine + CLI
// ============================================================================
// Maps source columns to engine dimensions (grouping/filtering) and measures
// (aggregation). The CLI lists it; the normalizer reads the column names.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key            string `json:"key"`
	DisplayName    string `json:"displayName"`
	Column         string `json:"column,omitempty"`      // source header; empty when derived
	DerivedFrom    string `json:"derivedFrom,omitempty"` // source header for derived buckets
	Groupable      bool   `json:"groupable"`
	Filterable     bool   `json:"filterable"`
	IsTemporal     bool   `json:"isTemporal,omitempty"`
	TemporalFormat string `json:"temporalFormat,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Column             string   `json:"column"`
	Unit               string   `json:"unit,omitempty"` // "currency", "km", "minutes", "points"
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(column string) DimensionMeta {
	return DimensionMeta{
		Key:         toSnakeCase(column),
		DisplayName: toDisplayName(column),
		Column:      column,
		Groupable:   true,
		Filterable:  true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, column, unit, defaultAgg string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        toDisplayName(column),
		Column:             column,
		Unit:               unit,
		Aggregations:       []string{"sum", "mean", "count"},
		DefaultAggregation: defaultAgg,
	}
}

// BookingSchema returns the schema of the ride-booking feed.
func BookingSchema() Config {
	month := DimensionMeta{
		Key: "month", DisplayName: "Month", DerivedFrom: ColDate,
		Groupable: true, Filterable: true, IsTemporal: true, TemporalFormat: "2006-01",
	}
	hour := DimensionMeta{
		Key: "hour", DisplayName: "Hour", DerivedFrom: ColTime,
		Groupable: true, Filterable: true, IsTemporal: true, TemporalFormat: "15",
	}
	date := DefaultDimension(ColDate)
	date.IsTemporal = true
	date.TemporalFormat = "2006-01-02"

	return Config{
		Name:        "Ride Bookings",
		Version:     "1.0",
		Description: "One row per ride-booking event",
		Dimensions: []DimensionMeta{
			date,
			month,
			hour,
			DefaultDimension(ColBookingStatus),
			DefaultDimension(ColCustomerID),
			DefaultDimension(ColVehicleType),
			DefaultDimension(ColPickupLocation),
			DefaultDimension(ColDropLocation),
			DefaultDimension(ColPaymentMethod),
		},
		Measures: []MeasureMeta{
			DefaultMeasure("booking_value", ColBookingValue, "currency", "sum"),
			DefaultMeasure("ride_distance", ColRideDistance, "km", "mean"),
			DefaultMeasure("driver_rating", ColDriverRatings, "points", "mean"),
			DefaultMeasure("customer_rating", ColCustomerRating, "points", "mean"),
			DefaultMeasure("avg_vtat", ColAvgVTAT, "minutes", "mean"),
			DefaultMeasure("avg_ctat", ColAvgCTAT, "minutes", "mean"),
		},
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}
