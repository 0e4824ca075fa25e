package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// Booking statuses
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Passenger is one traveller on a booking, bound to a seat.
type Passenger struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	SeatNumber string `json:"seatNumber"`
}

// Booking is a confirmed seat reservation on a bus journey.
type Booking struct {
	gorm.Model

	BookingRef    string      `json:"bookingReference" gorm:"uniqueIndex"`
	UserID        string      `json:"userId" gorm:"index"`
	BusID         string      `json:"busId" gorm:"index"`
	RouteID       string      `json:"routeId" gorm:"index"`
	Seats         []string    `json:"seats" gorm:"serializer:json"`
	Passengers    []Passenger `json:"passengers" gorm:"serializer:json"`
	Status        string      `json:"status" gorm:"default:confirmed"`
	TotalAmount   float64     `json:"totalAmount"`
	BookingDate   time.Time   `json:"bookingDate"`
	JourneyDate   time.Time   `json:"journeyDate" gorm:"index"`
	PaymentMethod string      `json:"paymentMethod" gorm:"default:card"`
	PaymentStatus string      `json:"paymentStatus" gorm:"default:pending"`
}

// BeforeCreate hook to auto-generate the booking reference
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingRef == "" {
		b.BookingRef = utils.GenerateBookingReference()
	}
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now()
	}
	if b.Status == "" {
		b.Status = BookingStatusConfirmed
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentStatusPending
	}
	return nil
}

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	BusID         string      `json:"busId"`
	RouteID       string      `json:"routeId"`
	Seats         []string    `json:"seats"`
	Passengers    []Passenger `json:"passengers"`
	PricePerSeat  float64     `json:"pricePerSeat"`
	JourneyDate   *time.Time  `json:"journeyDate"`
	PaymentMethod string      `json:"paymentMethod"`
}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// Validate checks seats, passengers and the seat/passenger pairing.
func (r *BookingRequest) Validate() error {
	if r.BusID == "" || r.RouteID == "" {
		return &ValidationError{Details: "busId, routeId, seats and passengers are required"}
	}
	if len(r.Seats) == 0 {
		return &ValidationError{Details: "At least one seat is required"}
	}
	if len(r.Passengers) == 0 {
		return &ValidationError{Details: "At least one passenger is required"}
	}
	for _, p := range r.Passengers {
		if p.Name == "" || p.Age == 0 || p.Gender == "" {
			return &ValidationError{Details: "Each passenger must have name, age, and gender"}
		}
		if p.Age < 1 || p.Age > 120 {
			return &ValidationError{Details: "Passenger age must be a number between 1 and 120"}
		}
		if !validGenders[strings.ToLower(p.Gender)] {
			return &ValidationError{Details: "Gender must be male, female, or other"}
		}
	}
	if len(r.Seats) != len(r.Passengers) {
		return &ValidationError{Details: "Number of seats must match number of passengers"}
	}
	if r.PricePerSeat <= 0 {
		return &ValidationError{Details: "pricePerSeat must be greater than zero"}
	}
	return nil
}

// TotalAmount is the flat per-seat fare times the seat count.
func (r *BookingRequest) TotalAmount() float64 {
	return float64(len(r.Seats)) * r.PricePerSeat
}

// BookingFilter carries list-endpoint query parameters.
type BookingFilter struct {
	UserID    string
	BusID     string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}
