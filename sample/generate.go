package sample

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/spektr-org/ridepulse/engine"
	"github.com/spektr-org/ridepulse/schema"
)

// ============================================================================
// SAMPLE — Synthetic booking feed
// ============================================================================
// Produces raw rows in the source feed layout (schema.Columns), including
// the quoted identifiers and "null" cells the real feed carries, so the
// output goes through the same normalizer as a real file.
// ============================================================================

const null = "null"

var (
	vehicleTypes = []string{"Auto", "Go Mini", "Go Sedan", "Bike", "Premier Sedan", "eBike", "Uber XL"}
	locations    = []string{
		"Connaught Place", "Karol Bagh", "Lajpat Nagar", "Dwarka Sector 21", "Rohini",
		"Sector 18 Noida", "Cyber Hub", "IGI Airport", "New Delhi Railway Station",
		"Saket", "Vasant Kunj", "Greater Noida", "Gurgaon Sector 29", "Hauz Khas",
	}
	paymentMethods        = []string{"UPI", "Cash", "Uber Wallet", "Credit Card", "Debit Card"}
	customerCancelReasons = []string{
		"Wrong Address", "Change of plans", "Driver is not moving towards pickup location",
		"Driver asked to cancel", "AC is not working",
	}
	driverCancelReasons = []string{
		"Personal & Car related issues", "Customer related issue",
		"More than permitted people in there", "The customer was coughing/sick",
	}
	incompleteReasons = []string{"Customer Demand", "Vehicle Breakdown", "Other Issue"}
)

// status weights in percent, summing to 100
var statusWeights = []struct {
	status string
	weight int
}{
	{engine.StatusCompleted, 62},
	{engine.StatusCancelledByDriver, 18},
	{engine.StatusCancelledByCustomer, 7},
	{engine.StatusNoDriverFound, 7},
	{engine.StatusIncomplete, 6},
}

// Options controls Generate.
type Options struct {
	Count     int
	Seed      int64
	Start     time.Time
	End       time.Time
	Customers int // distinct customer pool size
}

// DefaultOptions generates one year of bookings.
func DefaultOptions(count int) Options {
	return Options{
		Count:     count,
		Seed:      42,
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		Customers: 1000,
	}
}

// Headers returns the feed header row.
func Headers() []string {
	out := make([]string, len(schema.Columns))
	copy(out, schema.Columns)
	return out
}

// Generate returns count raw rows, oldest first. Field values depend only
// on the seed; booking IDs are unique per call.
func Generate(opts Options) [][]string {
	if opts.Count <= 0 {
		return [][]string{}
	}
	if opts.Customers <= 0 {
		opts.Customers = 1000
	}
	if !opts.End.After(opts.Start) {
		opts.End = opts.Start.AddDate(1, 0, 0)
	}

	fake := faker.NewWithSeed(rand.NewSource(opts.Seed))
	customers := make([]string, opts.Customers)
	for i := range customers {
		customers[i] = fmt.Sprintf("CID%07d", fake.IntBetween(1000000, 9999999))
	}

	times := make([]time.Time, opts.Count)
	for i := range times {
		times[i] = fake.Time().TimeBetween(opts.Start, opts.End).UTC()
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	rows := make([][]string, opts.Count)
	for i, ts := range times {
		rows[i] = generateRow(fake, ts, customers)
	}
	return rows
}

func generateRow(fake faker.Faker, ts time.Time, customers []string) []string {
	status := pickStatus(fake)
	cells := map[string]string{
		schema.ColDate:           ts.Format("2006-01-02"),
		schema.ColTime:           ts.Format("15:04:05"),
		schema.ColBookingID:      `"CNR` + strings.ToUpper(cuid.Slug()) + `"`,
		schema.ColBookingStatus:  status,
		schema.ColCustomerID:     `"` + fake.RandomStringElement(customers) + `"`,
		schema.ColVehicleType:    fake.RandomStringElement(vehicleTypes),
		schema.ColPickupLocation: fake.RandomStringElement(locations),
		schema.ColDropLocation:   fake.RandomStringElement(locations),
	}

	switch status {
	case engine.StatusCompleted:
		fillTrip(fake, cells)
		cells[schema.ColDriverRatings] = fmt.Sprintf("%.1f", fake.Float64(1, 3, 5))
		cells[schema.ColCustomerRating] = fmt.Sprintf("%.1f", fake.Float64(1, 3, 5))
	case engine.StatusIncomplete:
		fillTrip(fake, cells)
		cells[schema.ColIncompleteRides] = "1"
		cells[schema.ColIncompleteReason] = fake.RandomStringElement(incompleteReasons)
	case engine.StatusCancelledByCustomer:
		cells[schema.ColAvgVTAT] = fmt.Sprintf("%.1f", fake.Float64(1, 2, 20))
		cells[schema.ColCancelledByCustomer] = "1"
		cells[schema.ColCustomerCancelReason] = fake.RandomStringElement(customerCancelReasons)
	case engine.StatusCancelledByDriver:
		cells[schema.ColAvgVTAT] = fmt.Sprintf("%.1f", fake.Float64(1, 2, 20))
		cells[schema.ColCancelledByDriver] = "1"
		cells[schema.ColDriverCancelReason] = fake.RandomStringElement(driverCancelReasons)
	}

	row := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		if v, ok := cells[col]; ok {
			row[i] = v
		} else {
			row[i] = null
		}
	}
	return row
}

// fillTrip sets the fields of a ride that actually moved.
func fillTrip(fake faker.Faker, cells map[string]string) {
	distance := fake.Float64(2, 1, 50)
	perKm := fake.Float64(2, 8, 30)
	cells[schema.ColAvgVTAT] = fmt.Sprintf("%.1f", fake.Float64(1, 2, 20))
	cells[schema.ColAvgCTAT] = fmt.Sprintf("%.1f", fake.Float64(1, 10, 45))
	cells[schema.ColRideDistance] = fmt.Sprintf("%.2f", distance)
	cells[schema.ColBookingValue] = fmt.Sprintf("%.0f", distance*perKm)
	cells[schema.ColPaymentMethod] = fake.RandomStringElement(paymentMethods)
}

func pickStatus(fake faker.Faker) string {
	n := fake.IntBetween(1, 100)
	for _, sw := range statusWeights {
		if n <= sw.weight {
			return sw.status
		}
		n -= sw.weight
	}
	return engine.StatusCompleted
}
