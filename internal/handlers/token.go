package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// TokenHandler handles refresh-token exchange and revocation
type TokenHandler struct {
	auth *services.AuthService
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(auth *services.AuthService) *TokenHandler {
	return &TokenHandler{auth: auth}
}

// Refresh handles POST /api/token/refresh. The old refresh token is rotated
// out and becomes permanently unusable.
func (h *TokenHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.RefreshToken == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Refresh token is required", "REFRESH_TOKEN_MISSING",
			"A refresh token is required to generate a new access token")
	}

	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusForbidden,
				"Invalid or inactive refresh token", "SESSION_NOT_FOUND",
				"The refresh token is invalid or has been revoked")
		case errors.Is(err, services.ErrSessionExpired):
			return utils.SendError(c, fiber.StatusForbidden,
				"Session expired", "SESSION_EXPIRED",
				"The session has expired, user needs to log in again")
		case errors.Is(err, services.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusForbidden,
				"User not found", "USER_NOT_FOUND",
				"The user associated with this refresh token does not exist")
		case errors.Is(err, services.ErrUserInactive):
			return utils.SendError(c, fiber.StatusForbidden,
				"User account inactive", "USER_INACTIVE", "User account is not active")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError,
				"Failed to refresh token", "TOKEN_REFRESH_ERROR", err.Error())
		}
	}

	return utils.SendSuccess(c, pair, "Tokens refreshed successfully")
}

// Revoke handles POST /api/token/revoke (logout of one device by its
// refresh token).
func (h *TokenHandler) Revoke(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.RefreshToken == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Refresh token is required", "REFRESH_TOKEN_MISSING",
			"A refresh token is required to revoke a session")
	}

	if err := h.auth.RevokeByToken(req.RefreshToken); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Session not found", "SESSION_NOT_FOUND",
				"No active session matches the provided refresh token")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to revoke token", "SESSION_REVOKE_ERROR", err.Error())
	}

	return utils.SendSuccess(c, nil, "Session revoked successfully")
}
