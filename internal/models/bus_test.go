package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeatLayoutCounts(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"full rows", 40},
		{"partial last row", 38},
		{"single seat", 1},
		{"one row", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &Bus{Type: BusTypeSeater, Capacity: tt.capacity}
			seats := bus.GenerateSeatLayout()
			assert.Len(t, seats, tt.capacity)
		})
	}
}

func TestSeatNumberingAndPositions(t *testing.T) {
	bus := &Bus{Type: BusTypeSeater, Capacity: 8}
	seats := bus.GenerateSeatLayout()
	require.Len(t, seats, 8)

	assert.Equal(t, "1A", seats[0].Number)
	assert.Equal(t, "1B", seats[1].Number)
	assert.Equal(t, "1C", seats[2].Number)
	assert.Equal(t, "1D", seats[3].Number)
	assert.Equal(t, "2A", seats[4].Number)

	// columns A and D are window seats
	assert.Equal(t, "window", seats[0].Position)
	assert.Equal(t, "aisle", seats[1].Position)
	assert.Equal(t, "aisle", seats[2].Position)
	assert.Equal(t, "window", seats[3].Position)

	for _, s := range seats {
		assert.Equal(t, SeatStatusAvailable, s.Status)
	}
}

func TestSeatPricing(t *testing.T) {
	tests := []struct {
		name        string
		busType     string
		aislePrice  float64
		windowPrice float64
	}{
		{"plain seater", BusTypeSeater, 500, 550},
		{"ac seater", BusTypeAC, 600, 660},
		{"premium seater", BusTypePremium, 900, 990},
		{"sleeper", BusTypeSleeper, 750, 825},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &Bus{Type: tt.busType, Capacity: 4}
			seats := bus.GenerateSeatLayout()
			require.Len(t, seats, 4)

			assert.InDelta(t, tt.windowPrice, seats[0].Price, 0.01) // 1A window
			assert.InDelta(t, tt.aislePrice, seats[1].Price, 0.01)  // 1B aisle
		})
	}
}

func TestSleeperSeatsTyped(t *testing.T) {
	bus := &Bus{Type: BusTypeSleeper, Capacity: 4}
	seats := bus.GenerateSeatLayout()
	for _, s := range seats {
		assert.Equal(t, BusTypeSleeper, s.Type)
	}
}

func TestBusBeforeCreateNormalizes(t *testing.T) {
	bus := &Bus{
		BusNumber:      "ka 01 ab 1234",
		RegistrationNo: "reg 99",
		Type:           BusTypeAC,
		Capacity:       8,
	}
	require.NoError(t, bus.BeforeCreate(nil))

	assert.Equal(t, "KA01AB1234", bus.BusNumber)
	assert.Equal(t, "REG99", bus.RegistrationNo)
	assert.Equal(t, BusStatusActive, bus.Status)
	assert.NotEmpty(t, bus.BusID)
	assert.Len(t, bus.SeatLayout, 8)
}

func TestBusBeforeCreateKeepsProvidedLayout(t *testing.T) {
	layout := []Seat{{Number: "1A", Type: BusTypeSeater, Position: "window", Price: 100, Status: SeatStatusAvailable}}
	bus := &Bus{BusNumber: "KA01", Type: BusTypeSeater, Capacity: 8, SeatLayout: layout}
	require.NoError(t, bus.BeforeCreate(nil))

	assert.Len(t, bus.SeatLayout, 1)
}

func TestIsValidBusType(t *testing.T) {
	assert.True(t, IsValidBusType(BusTypeAC))
	assert.True(t, IsValidBusType(BusTypeSleeper))
	assert.False(t, IsValidBusType("HOVERCRAFT"))
	assert.False(t, IsValidBusType(""))
}
