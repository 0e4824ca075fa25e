package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// RouteHandler manages source-destination routes
type RouteHandler struct {
	store storage.Store
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(store storage.Store) *RouteHandler {
	return &RouteHandler{store: store}
}

// CreateRoute handles POST /api/routes. The source-destination pair is
// unique, compared case-insensitively.
func (h *RouteHandler) CreateRoute(c *fiber.Ctx) error {
	var route models.Route
	if err := c.BodyParser(&route); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if route.Source == "" || route.Destination == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Source and destination are required", "VALIDATION_ERROR",
			"Both source and destination are required to create a route")
	}
	if route.Distance <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid distance", "VALIDATION_ERROR", "Distance must be greater than zero")
	}

	if _, err := h.store.FindRoute(route.Source, route.Destination); err == nil {
		return utils.SendError(c, fiber.StatusConflict,
			"Route already exists", "ROUTE_EXISTS",
			fmt.Sprintf("A route from %s to %s already exists", route.Source, route.Destination))
	} else if !errors.Is(err, storage.ErrNotFound) {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create route", "ROUTE_CREATE_ERROR", err.Error())
	}

	route.IsActive = true
	if route.Duration <= 0 {
		route.Duration = route.EstimatedTravelTime()
	}
	created, err := h.store.CreateRoute(&route)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create route", "ROUTE_CREATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, created, "Route created successfully")
}

// ListRoutes handles GET /api/routes. Inactive routes are included only
// when includeInactive=true; stop=<name> keeps routes halting at that stop.
func (h *RouteHandler) ListRoutes(c *fiber.Ctx) error {
	activeOnly := !c.QueryBool("includeInactive")

	routes, err := h.store.GetRoutes(activeOnly)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve routes", "ROUTE_FETCH_ERROR", err.Error())
	}

	if stop := c.Query("stop"); stop != "" {
		filtered := make([]*models.Route, 0, len(routes))
		for _, route := range routes {
			if route.HasStop(stop) {
				filtered = append(filtered, route)
			}
		}
		routes = filtered
	}

	return utils.SendSuccess(c, fiber.Map{
		"routes": routes,
		"count":  len(routes),
	}, "Routes retrieved successfully")
}

// GetRoute handles GET /api/routes/:routeId
func (h *RouteHandler) GetRoute(c *fiber.Ctx) error {
	routeID := c.Params("routeId")

	route, err := h.store.GetRouteByRouteID(routeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Route not found", "ROUTE_NOT_FOUND",
				fmt.Sprintf("No route found with ID %s", routeID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve route", "ROUTE_FETCH_ERROR", err.Error())
	}
	return utils.SendSuccess(c, route, "Route retrieved successfully")
}

// UpdateRoute handles PUT /api/routes/:routeId. Endpoints are immutable;
// distance, duration, stops and the active flag can change.
func (h *RouteHandler) UpdateRoute(c *fiber.Ctx) error {
	routeID := c.Params("routeId")

	route, err := h.store.GetRouteByRouteID(routeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Route not found", "ROUTE_NOT_FOUND",
				fmt.Sprintf("No route found with ID %s", routeID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update route", "ROUTE_UPDATE_ERROR", err.Error())
	}

	var req struct {
		Distance *float64            `json:"distance"`
		Duration *int                `json:"duration"`
		Stops    *[]models.RouteStop `json:"stops"`
		IsActive *bool               `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}

	if req.Distance != nil {
		if *req.Distance <= 0 {
			return utils.SendError(c, fiber.StatusBadRequest,
				"Invalid distance", "VALIDATION_ERROR", "Distance must be greater than zero")
		}
		route.Distance = *req.Distance
	}
	if req.Duration != nil {
		route.Duration = *req.Duration
	}
	if req.Stops != nil {
		route.Stops = *req.Stops
	}
	if req.IsActive != nil {
		route.IsActive = *req.IsActive
	}

	if err := h.store.UpdateRoute(route); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update route", "ROUTE_UPDATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, route, "Route updated successfully")
}

// DeleteRoute handles DELETE /api/routes/:routeId
func (h *RouteHandler) DeleteRoute(c *fiber.Ctx) error {
	routeID := c.Params("routeId")

	if err := h.store.DeleteRoute(routeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Route not found", "ROUTE_NOT_FOUND",
				fmt.Sprintf("No route found with ID %s", routeID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to delete route", "ROUTE_DELETE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, nil, "Route deleted successfully")
}
