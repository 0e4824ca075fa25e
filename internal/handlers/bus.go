package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// BusHandler manages the agent-owned fleet
type BusHandler struct {
	store storage.Store
}

// NewBusHandler creates a new bus handler
func NewBusHandler(store storage.Store) *BusHandler {
	return &BusHandler{store: store}
}

// CreateBus handles POST /api/buses. The bus number is unique across the
// platform after whitespace stripping and uppercasing.
func (h *BusHandler) CreateBus(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var bus models.Bus
	if err := c.BodyParser(&bus); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if bus.BusNumber == "" || bus.Type == "" || bus.Capacity <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Missing required bus fields", "VALIDATION_ERROR",
			"busNumber, type and a positive capacity are required")
	}
	if !models.IsValidBusType(bus.Type) {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid bus type", "VALIDATION_ERROR",
			fmt.Sprintf("Bus type must be one of: %s", strings.Join(models.ValidBusTypes, ", ")))
	}

	normalized := strings.ToUpper(strings.ReplaceAll(bus.BusNumber, " ", ""))
	if _, err := h.store.GetBusByNumber(normalized); err == nil {
		return utils.SendError(c, fiber.StatusConflict,
			"Bus with this number already exists", "BUS_EXISTS",
			fmt.Sprintf("A bus with number %s is already registered", normalized))
	} else if !errors.Is(err, storage.ErrNotFound) {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create bus", "BUS_CREATE_ERROR", err.Error())
	}

	bus.AgentID = claims.UserID
	created, err := h.store.CreateBus(&bus)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create bus", "BUS_CREATE_ERROR", err.Error())
	}

	return utils.SendSuccess(c, created, "Bus created successfully")
}

// ListBuses handles GET /api/buses with pagination and filters
func (h *BusHandler) ListBuses(c *fiber.Ctx) error {
	filter := &models.BusFilter{
		AgentID:     c.Query("agentId"),
		Type:        c.Query("type"),
		MinCapacity: c.QueryInt("minCapacity"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 10),
	}

	buses, total, err := h.store.GetBuses(filter)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve buses", "BUS_FETCH_ERROR", err.Error())
	}

	return utils.SendSuccess(c, fiber.Map{
		"buses": buses,
		"pagination": fiber.Map{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
		},
	}, "Buses retrieved successfully")
}

// GetBus handles GET /api/buses/:busId
func (h *BusHandler) GetBus(c *fiber.Ctx) error {
	busID := c.Params("busId")

	bus, err := h.store.GetBusByBusID(busID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Bus not found", "BUS_NOT_FOUND",
				fmt.Sprintf("No bus found with ID %s", busID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve bus", "BUS_FETCH_ERROR", err.Error())
	}
	return utils.SendSuccess(c, bus, "Bus retrieved successfully")
}

// UpdateBus handles PUT /api/buses/:busId. Only the owning agent or an
// admin may modify a bus.
func (h *BusHandler) UpdateBus(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	busID := c.Params("busId")

	bus, err := h.store.GetBusByBusID(busID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Bus not found", "BUS_NOT_FOUND",
				fmt.Sprintf("No bus found with ID %s", busID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update bus", "BUS_UPDATE_ERROR", err.Error())
	}
	if bus.AgentID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.SendError(c, fiber.StatusForbidden,
			"Not authorized to modify this bus", "FORBIDDEN",
			"Only the owning agent or an admin can modify a bus")
	}

	var req struct {
		Type         *string            `json:"type"`
		Capacity     *int               `json:"capacity"`
		Amenities    *[]string          `json:"amenities"`
		Status       *string            `json:"status"`
		Manufacturer *string            `json:"manufacturer"`
		Model        *string            `json:"model"`
		Insurance    *models.InsuranceDetails `json:"insuranceDetails"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}

	if req.Type != nil {
		if !models.IsValidBusType(*req.Type) {
			return utils.SendError(c, fiber.StatusBadRequest,
				"Invalid bus type", "VALIDATION_ERROR",
				fmt.Sprintf("Bus type must be one of: %s", strings.Join(models.ValidBusTypes, ", ")))
		}
		bus.Type = *req.Type
	}
	if req.Capacity != nil && *req.Capacity > 0 && *req.Capacity != bus.Capacity {
		bus.Capacity = *req.Capacity
		bus.GenerateSeatLayout()
	}
	if req.Amenities != nil {
		bus.Amenities = *req.Amenities
	}
	if req.Status != nil {
		bus.Status = *req.Status
	}
	if req.Manufacturer != nil {
		bus.Manufacturer = *req.Manufacturer
	}
	if req.Model != nil {
		bus.BusModel = *req.Model
	}
	if req.Insurance != nil {
		bus.Insurance = *req.Insurance
	}

	if err := h.store.UpdateBus(bus); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update bus", "BUS_UPDATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, bus, "Bus updated successfully")
}

// DeleteBus handles DELETE /api/buses/:busId
func (h *BusHandler) DeleteBus(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	busID := c.Params("busId")

	bus, err := h.store.GetBusByBusID(busID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Bus not found", "BUS_NOT_FOUND",
				fmt.Sprintf("No bus found with ID %s", busID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to delete bus", "BUS_DELETE_ERROR", err.Error())
	}
	if bus.AgentID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.SendError(c, fiber.StatusForbidden,
			"Not authorized to delete this bus", "FORBIDDEN",
			"Only the owning agent or an admin can delete a bus")
	}

	if err := h.store.DeleteBus(busID); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to delete bus", "BUS_DELETE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, nil, "Bus deleted successfully")
}
