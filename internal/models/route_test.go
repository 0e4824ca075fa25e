package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatedTravelTime(t *testing.T) {
	tests := []struct {
		name     string
		route    Route
		expected int
	}{
		{"stored duration wins", Route{Distance: 150, Duration: 180}, 180},
		{"estimated at 60 km/h", Route{Distance: 150}, 150},
		{"short hop", Route{Distance: 45}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.route.EstimatedTravelTime())
		})
	}
}

func TestHasStop(t *testing.T) {
	route := Route{
		Source:      "Mumbai",
		Destination: "Pune",
		Stops: []RouteStop{
			{Name: "Lonavala", ArrivalTime: "08:30", DepartureTime: "08:40", DistanceFromStart: 80},
			{Name: "Khandala", ArrivalTime: "09:00", DepartureTime: "09:05", DistanceFromStart: 95},
		},
	}

	assert.True(t, route.HasStop("Lonavala"))
	assert.True(t, route.HasStop("lonavala")) // case-insensitive
	assert.False(t, route.HasStop("Satara"))

	var empty Route
	assert.False(t, empty.HasStop("Lonavala"))
}
