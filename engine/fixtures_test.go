package engine

// ============================================================================
// TEST FIXTURES
// ============================================================================

func f64(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }
func strp(v string) *string   { return &v }

// ride builds a completed booking with value and distance.
func ride(date, clock, vehicle, pickup, drop string, value, distance float64) Booking {
	return Booking{
		Date:           date,
		Time:           clock,
		BookingID:      "CNR" + date + clock,
		Status:         StatusCompleted,
		CustomerID:     "CID" + pickup,
		VehicleType:    vehicle,
		PickupLocation: pickup,
		DropLocation:   drop,
		BookingValue:   f64(value),
		RideDistance:   f64(distance),
		PaymentMethod:  strp("UPI"),
	}
}

func customerCancel(date, reason string) Booking {
	return Booking{
		Date:                 date,
		Time:                 "09:00:00",
		Status:               StatusCancelledByCustomer,
		CustomerID:           "CID-cancel",
		VehicleType:          "Auto",
		CancelledByCustomer:  intp(1),
		CustomerCancelReason: strp(reason),
	}
}

func driverCancel(date, reason string) Booking {
	return Booking{
		Date:               date,
		Time:               "18:30:00",
		Status:             StatusCancelledByDriver,
		CustomerID:         "CID-driver",
		VehicleType:        "Bike",
		CancelledByDriver:  intp(1),
		DriverCancelReason: strp(reason),
	}
}

// fixture is a small, mixed feed over three months.
func fixture() *Dataset {
	return NewDataset([]Booking{
		ride("2024-01-05", "08:15:00", "Auto", "Saket", "Rohini", 200, 10),
		ride("2024-01-05", "09:40:00", "Bike", "Saket", "Dwarka", 150, 5),
		customerCancel("2024-01-06", "Wrong Address"),
		ride("2024-02-10", "18:05:00", "Auto", "Rohini", "Saket", 300, 12),
		driverCancel("2024-02-11", "Personal & Car related issues"),
		customerCancel("2024-02-12", "Change of plans"),
		customerCancel("2024-02-12", "Wrong Address"),
		ride("2024-03-01", "23:59:00", "Go Sedan", "Dwarka", "Saket", 500, 20),
		{Date: "2024-03-02", Time: "07:00:00", Status: StatusNoDriverFound, VehicleType: "Auto"},
		{Date: "2024-03-03", Time: "12:00:00", Status: StatusIncomplete, VehicleType: "Bike",
			IncompleteRides: intp(1), IncompleteReason: strp("Vehicle Breakdown"),
			BookingValue: f64(80), RideDistance: f64(4)},
	})
}
