package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// UserHandler handles profile reads and updates
type UserHandler struct {
	store storage.Store
}

// NewUserHandler creates a new user handler
func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	user, err := h.store.GetUserByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"User not found", "USER_NOT_FOUND", "No user found for the authenticated token")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve profile", "USER_FETCH_ERROR", err.Error())
	}
	return utils.SendSuccess(c, user, "Profile retrieved successfully")
}

// UpdateProfile handles PUT /api/users/profile. Only name and email are
// client-mutable; role and status change through dedicated flows.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.Name == "" && req.Email == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Nothing to update", "VALIDATION_ERROR", "Provide name or email to update")
	}
	if req.Name != "" && (len(req.Name) < 2 || len(req.Name) > 100) {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid name", "VALIDATION_ERROR", "Name must be between 2 and 100 characters")
	}

	user, err := h.store.GetUserByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"User not found", "USER_NOT_FOUND", "No user found for the authenticated token")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve profile", "USER_FETCH_ERROR", err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if err := h.store.UpdateUser(user); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update profile", "USER_UPDATE_ERROR", err.Error())
	}

	return utils.SendSuccess(c, user, "Profile updated successfully")
}
