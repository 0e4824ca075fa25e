package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onboardAgent logs in and completes the agent profile, returning an access
// token that carries the AGENT role.
func onboardAgent(t *testing.T, app *fiber.App, phone string) string {
	t.Helper()

	access, _ := login(t, app, phone)
	status, env := doJSON(t, app, http.MethodPost, "/api/auth/agent/complete-profile", access, fiber.Map{
		"companyName":    "Verma Travels",
		"gst":            "27ABCDE1234F1Z5",
		"supportContact": "+919812345678",
		"bankDetails": fiber.Map{
			"accountNumber": "9876543210",
			"ifsc":          "ICIC0001234",
			"bankName":      "ICICI Bank",
		},
		"address": fiber.Map{
			"city":    "Mumbai",
			"state":   "Maharashtra",
			"pincode": "400001",
		},
	})
	require.Equal(t, http.StatusOK, status, "details: %+v", env.Error)

	var completed struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &completed))
	require.NotEmpty(t, completed.Tokens.AccessToken)
	return completed.Tokens.AccessToken
}

func TestRouteCreateEstimatesDuration(t *testing.T) {
	app, _ := newTestApp(t)
	agentToken := onboardAgent(t, app, "+919876543210")

	// no duration supplied, estimated from distance at 60 km/h
	status, env := doJSON(t, app, http.MethodPost, "/api/routes", agentToken, fiber.Map{
		"source":      "Mumbai",
		"destination": "Pune",
		"distance":    150,
	})
	require.Equal(t, http.StatusOK, status, "details: %+v", env.Error)

	var route struct {
		RouteID  string  `json:"route_id"`
		Distance float64 `json:"distance"`
		Duration int     `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &route))
	assert.Equal(t, 150, route.Duration)

	// an explicit duration is kept as-is
	status, env = doJSON(t, app, http.MethodPost, "/api/routes", agentToken, fiber.Map{
		"source":      "Mumbai",
		"destination": "Nashik",
		"distance":    170,
		"duration":    210,
	})
	require.Equal(t, http.StatusOK, status, "details: %+v", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &route))
	assert.Equal(t, 210, route.Duration)
}

func TestRouteListFiltersByStop(t *testing.T) {
	app, _ := newTestApp(t)
	agentToken := onboardAgent(t, app, "+919876543210")

	status, env := doJSON(t, app, http.MethodPost, "/api/routes", agentToken, fiber.Map{
		"source":      "Mumbai",
		"destination": "Pune",
		"distance":    150,
		"stops": []fiber.Map{
			{"name": "Lonavala", "arrivalTime": "08:30", "departureTime": "08:40", "distanceFromStart": 80},
		},
	})
	require.Equal(t, http.StatusOK, status, "details: %+v", env.Error)

	status, env = doJSON(t, app, http.MethodPost, "/api/routes", agentToken, fiber.Map{
		"source":      "Mumbai",
		"destination": "Nashik",
		"distance":    170,
	})
	require.Equal(t, http.StatusOK, status, "details: %+v", env.Error)

	var list struct {
		Routes []struct {
			Destination string `json:"destination"`
		} `json:"routes"`
		Count int `json:"count"`
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/routes?stop=lonavala", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Pune", list.Routes[0].Destination)

	status, env = doJSON(t, app, http.MethodGet, "/api/routes?stop=Satara", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Zero(t, list.Count)

	status, env = doJSON(t, app, http.MethodGet, "/api/routes", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Count)
}
