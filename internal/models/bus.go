package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// Bus types
const (
	BusTypeAC      = "AC"
	BusTypeNonAC   = "NON_AC"
	BusTypeSleeper = "SLEEPER"
	BusTypeSeater  = "SEATER"
	BusTypeDeluxe  = "DELUXE"
	BusTypePremium = "PREMIUM"
)

// Bus statuses
const (
	BusStatusActive      = "active"
	BusStatusInactive    = "inactive"
	BusStatusMaintenance = "maintenance"
)

// Seat statuses
const (
	SeatStatusAvailable   = "available"
	SeatStatusBooked      = "booked"
	SeatStatusMaintenance = "maintenance"
)

// Seat is one entry of the generated seat layout.
type Seat struct {
	Number   string  `json:"number"`
	Type     string  `json:"type"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
}

// InsuranceDetails holds the bus insurance policy snapshot.
type InsuranceDetails struct {
	Company      string     `json:"company"`
	PolicyNumber string     `json:"policyNumber"`
	ExpiryDate   *time.Time `json:"expiryDate"`
}

// Bus is a vehicle operated by an agent.
type Bus struct {
	gorm.Model

	BusID             string           `json:"bus_id" gorm:"uniqueIndex"`
	AgentID           string           `json:"agentId" gorm:"index"`
	BusNumber         string           `json:"busNumber" gorm:"uniqueIndex"`
	Type              string           `json:"type"`
	Capacity          int              `json:"capacity"`
	Manufacturer      string           `json:"manufacturer"`
	BusModel          string           `json:"model" gorm:"column:bus_model"`
	YearOfManufacture int              `json:"yearOfManufacture"`
	Amenities         []string         `json:"amenities" gorm:"serializer:json"`
	SeatLayout        []Seat           `json:"seatLayout" gorm:"serializer:json"`
	RouteIDs          []string         `json:"routeIds" gorm:"serializer:json"`
	Status            string           `json:"status" gorm:"default:active"`
	RegistrationNo    string           `json:"registrationNumber"`
	Insurance         InsuranceDetails `json:"insuranceDetails" gorm:"embedded;embeddedPrefix:insurance_"`
}

// BeforeCreate hook to auto-generate BusID, normalize numbers and build the
// seat layout when the agent did not supply one
func (b *Bus) BeforeCreate(tx *gorm.DB) error {
	if b.BusID == "" {
		b.BusID = utils.GenerateSecureID("BUS")
	}
	b.BusNumber = strings.ToUpper(strings.ReplaceAll(b.BusNumber, " ", ""))
	b.RegistrationNo = strings.ToUpper(strings.ReplaceAll(b.RegistrationNo, " ", ""))
	if b.Status == "" {
		b.Status = BusStatusActive
	}
	if len(b.SeatLayout) == 0 && b.Capacity > 0 {
		b.GenerateSeatLayout()
	}
	return nil
}

// GenerateSeatLayout derives seat numbers, positions and prices from the
// capacity. Four seats per row, numbered 1A..1D, 2A.. and so on; columns A
// and D are window seats.
func (b *Bus) GenerateSeatLayout() []Seat {
	seats := make([]Seat, 0, b.Capacity)
	rows := (b.Capacity + 3) / 4

	for row := 1; row <= rows; row++ {
		for col := 1; col <= 4; col++ {
			if (row-1)*4+col > b.Capacity {
				break
			}

			seatType := BusTypeSeater
			if strings.Contains(b.Type, BusTypeSleeper) {
				seatType = BusTypeSleeper
			}
			position := "aisle"
			if col == 1 || col == 4 {
				position = "window"
			}

			seats = append(seats, Seat{
				Number:   fmt.Sprintf("%d%c", row, 'A'+col-1),
				Type:     seatType,
				Position: position,
				Price:    b.baseSeatPrice(seatType, position),
				Status:   SeatStatusAvailable,
			})
		}
	}

	b.SeatLayout = seats
	return seats
}

// baseSeatPrice applies the type and position multipliers to the base fare.
func (b *Bus) baseSeatPrice(seatType, position string) float64 {
	price := 500.0

	if seatType == BusTypeSleeper {
		price *= 1.5
	}
	if b.Type == BusTypeAC {
		price *= 1.2
	}
	if b.Type == BusTypePremium {
		price *= 1.8
	}
	if position == "window" {
		price *= 1.1
	}

	return price
}

// ValidBusTypes lists the accepted bus type values.
var ValidBusTypes = []string{BusTypeAC, BusTypeNonAC, BusTypeSleeper, BusTypeSeater, BusTypeDeluxe, BusTypePremium}

// IsValidBusType reports whether t is an accepted bus type.
func IsValidBusType(t string) bool {
	for _, v := range ValidBusTypes {
		if v == t {
			return true
		}
	}
	return false
}

// BusFilter carries list-endpoint query parameters.
type BusFilter struct {
	AgentID     string
	Type        string
	MinCapacity int
	Page        int
	Limit       int
}
