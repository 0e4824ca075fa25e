package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// SessionHandler exposes per-device session management
type SessionHandler struct {
	auth *services.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(auth *services.AuthService) *SessionHandler {
	return &SessionHandler{auth: auth}
}

// MySessions handles GET /api/sessions/my-sessions
func (h *SessionHandler) MySessions(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	sessions, err := h.auth.ActiveSessions(claims.UserID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve user sessions", "SESSION_FETCH_ERROR", err.Error())
	}
	return utils.SendSuccess(c, sessions, "Active sessions retrieved successfully")
}

// RevokeSession handles DELETE /api/sessions/revoke/:sessionId
func (h *SessionHandler) RevokeSession(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	sessionID := c.Params("sessionId")

	if err := h.auth.RevokeSession(claims.UserID, sessionID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Session not found", "SESSION_NOT_FOUND",
				"The specified session does not exist or belongs to another user")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to revoke session", "SESSION_REVOKE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, nil, "Session revoked successfully")
}

// RevokeOthers handles DELETE /api/sessions/revoke-others. The caller may
// pass its refresh token in the body to keep the current session alive;
// without it every session goes.
func (h *SessionHandler) RevokeOthers(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.BodyParser(&req) // body is optional

	count, err := h.auth.RevokeOthers(claims.UserID, req.RefreshToken)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to revoke other sessions", "SESSION_REVOKE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, fiber.Map{"revokedCount": count}, "Other sessions revoked successfully")
}

// LogoutAll handles DELETE /api/sessions/logout-all
func (h *SessionHandler) LogoutAll(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	count, err := h.auth.RevokeAll(claims.UserID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to logout all sessions", "SESSION_LOGOUT_ERROR", err.Error())
	}
	return utils.SendSuccess(c, fiber.Map{"revokedCount": count}, "All sessions revoked successfully")
}
