package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingRequest() *BookingRequest {
	return &BookingRequest{
		BusID:        "BUS123",
		RouteID:      "RT123",
		Seats:        []string{"1A", "1B"},
		Passengers:   []Passenger{{Name: "Asha", Age: 30, Gender: "female", SeatNumber: "1A"}, {Name: "Ravi", Age: 32, Gender: "male", SeatNumber: "1B"}},
		PricePerSeat: 550,
	}
}

func TestBookingRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BookingRequest)
		details string
	}{
		{
			name:   "valid",
			mutate: func(r *BookingRequest) {},
		},
		{
			name:    "missing bus",
			mutate:  func(r *BookingRequest) { r.BusID = "" },
			details: "busId, routeId, seats and passengers are required",
		},
		{
			name:    "no seats",
			mutate:  func(r *BookingRequest) { r.Seats = nil },
			details: "At least one seat is required",
		},
		{
			name:    "no passengers",
			mutate:  func(r *BookingRequest) { r.Passengers = nil },
			details: "At least one passenger is required",
		},
		{
			name:    "seat passenger mismatch",
			mutate:  func(r *BookingRequest) { r.Seats = []string{"1A"} },
			details: "Number of seats must match number of passengers",
		},
		{
			name:    "passenger missing name",
			mutate:  func(r *BookingRequest) { r.Passengers[0].Name = "" },
			details: "Each passenger must have name, age, and gender",
		},
		{
			name:    "age out of range",
			mutate:  func(r *BookingRequest) { r.Passengers[0].Age = 130 },
			details: "Passenger age must be a number between 1 and 120",
		},
		{
			name:    "bad gender",
			mutate:  func(r *BookingRequest) { r.Passengers[0].Gender = "robot" },
			details: "Gender must be male, female, or other",
		},
		{
			name:    "zero price",
			mutate:  func(r *BookingRequest) { r.PricePerSeat = 0 },
			details: "pricePerSeat must be greater than zero",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookingRequest()
			tt.mutate(req)

			err := req.Validate()
			if tt.details == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.details, verr.Details)
		})
	}
}

func TestBookingRequestGenderCaseInsensitive(t *testing.T) {
	req := validBookingRequest()
	req.Passengers[0].Gender = "Female"
	assert.NoError(t, req.Validate())
}

func TestBookingRequestTotalAmount(t *testing.T) {
	req := validBookingRequest()
	assert.Equal(t, 1100.0, req.TotalAmount())
}

func TestBookingBeforeCreateDefaults(t *testing.T) {
	booking := &Booking{UserID: "USR1", BusID: "BUS1", RouteID: "RT1"}
	require.NoError(t, booking.BeforeCreate(nil))

	assert.NotEmpty(t, booking.BookingRef)
	assert.True(t, len(booking.BookingRef) > 2 && booking.BookingRef[:2] == "BK")
	assert.False(t, booking.BookingDate.IsZero())
	assert.Equal(t, BookingStatusConfirmed, booking.Status)
	assert.Equal(t, PaymentStatusPending, booking.PaymentStatus)
}
