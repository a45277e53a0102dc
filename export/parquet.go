package export

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/spektr-org/ridepulse/engine"
)

// ParquetBooking is the Parquet row layout of a normalized booking.
// Absent values are OPTIONAL nulls.
type ParquetBooking struct {
	Date                 string   `parquet:"name=date,type=BYTE_ARRAY,convertedtype=UTF8"`
	Time                 string   `parquet:"name=time,type=BYTE_ARRAY,convertedtype=UTF8"`
	BookingID            string   `parquet:"name=booking_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status               string   `parquet:"name=booking_status,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerID           string   `parquet:"name=customer_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	VehicleType          string   `parquet:"name=vehicle_type,type=BYTE_ARRAY,convertedtype=UTF8"`
	PickupLocation       string   `parquet:"name=pickup_location,type=BYTE_ARRAY,convertedtype=UTF8"`
	DropLocation         string   `parquet:"name=drop_location,type=BYTE_ARRAY,convertedtype=UTF8"`
	AvgVTAT              *float64 `parquet:"name=avg_vtat,type=DOUBLE,repetitiontype=OPTIONAL"`
	AvgCTAT              *float64 `parquet:"name=avg_ctat,type=DOUBLE,repetitiontype=OPTIONAL"`
	CancelledByCustomer  *int32   `parquet:"name=cancelled_by_customer,type=INT32,repetitiontype=OPTIONAL"`
	CustomerCancelReason *string  `parquet:"name=customer_cancel_reason,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	CancelledByDriver    *int32   `parquet:"name=cancelled_by_driver,type=INT32,repetitiontype=OPTIONAL"`
	DriverCancelReason   *string  `parquet:"name=driver_cancel_reason,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	IncompleteRides      *int32   `parquet:"name=incomplete_rides,type=INT32,repetitiontype=OPTIONAL"`
	IncompleteReason     *string  `parquet:"name=incomplete_reason,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	BookingValue         *float64 `parquet:"name=booking_value,type=DOUBLE,repetitiontype=OPTIONAL"`
	RideDistance         *float64 `parquet:"name=ride_distance,type=DOUBLE,repetitiontype=OPTIONAL"`
	DriverRating         *float64 `parquet:"name=driver_rating,type=DOUBLE,repetitiontype=OPTIONAL"`
	CustomerRating       *float64 `parquet:"name=customer_rating,type=DOUBLE,repetitiontype=OPTIONAL"`
	PaymentMethod        *string  `parquet:"name=payment_method,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
}

// ToParquet converts a booking to its Parquet row.
func ToParquet(b engine.Booking) ParquetBooking {
	return ParquetBooking{
		Date:                 b.Date,
		Time:                 b.Time,
		BookingID:            b.BookingID,
		Status:               b.Status,
		CustomerID:           b.CustomerID,
		VehicleType:          b.VehicleType,
		PickupLocation:       b.PickupLocation,
		DropLocation:         b.DropLocation,
		AvgVTAT:              b.AvgVTAT,
		AvgCTAT:              b.AvgCTAT,
		CancelledByCustomer:  int32Ptr(b.CancelledByCustomer),
		CustomerCancelReason: b.CustomerCancelReason,
		CancelledByDriver:    int32Ptr(b.CancelledByDriver),
		DriverCancelReason:   b.DriverCancelReason,
		IncompleteRides:      int32Ptr(b.IncompleteRides),
		IncompleteReason:     b.IncompleteReason,
		BookingValue:         b.BookingValue,
		RideDistance:         b.RideDistance,
		DriverRating:         b.DriverRating,
		CustomerRating:       b.CustomerRating,
		PaymentMethod:        b.PaymentMethod,
	}
}

// WriteBookingsParquet writes a view to a local Parquet file.
func WriteBookingsParquet(path string, view engine.View) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create local file writer: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(ParquetBooking), 4)
	if err != nil {
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := 0; i < view.Len(); i++ {
		if err := pw.Write(ToParquet(view.At(i))); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}
