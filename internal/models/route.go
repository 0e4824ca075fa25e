package models

import (
	"strings"

	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// RouteStop is an intermediate halt on a route.
type RouteStop struct {
	Name              string  `json:"name"`
	ArrivalTime       string  `json:"arrivalTime"`   // HH:MM
	DepartureTime     string  `json:"departureTime"` // HH:MM
	DistanceFromStart float64 `json:"distanceFromStart"`
}

// Route connects a source and destination city. The pair is unique,
// case-insensitively.
type Route struct {
	gorm.Model

	RouteID     string      `json:"route_id" gorm:"uniqueIndex"`
	Source      string      `json:"source" gorm:"index"`
	Destination string      `json:"destination" gorm:"index"`
	Distance    float64     `json:"distance"` // kilometers
	Duration    int         `json:"duration"` // minutes
	Stops       []RouteStop `json:"stops" gorm:"serializer:json"`
	IsActive    bool        `json:"isActive" gorm:"default:true"`
}

// BeforeCreate hook to auto-generate RouteID and trim endpoints
func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.RouteID == "" {
		r.RouteID = utils.GenerateSecureID("RT")
	}
	r.Source = strings.TrimSpace(r.Source)
	r.Destination = strings.TrimSpace(r.Destination)
	return nil
}

// EstimatedTravelTime returns the stored duration, or an estimate assuming
// an average speed of 60 km/h when none was provided.
func (r *Route) EstimatedTravelTime() int {
	if r.Duration > 0 {
		return r.Duration
	}
	return int(r.Distance) // 60 km/h -> distance in km equals minutes
}

// HasStop reports whether the route halts at the named stop.
func (r *Route) HasStop(name string) bool {
	for _, stop := range r.Stops {
		if strings.EqualFold(stop.Name, name) {
			return true
		}
	}
	return false
}
