package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

const userContextKey = "authUser"

// Authenticate verifies the Bearer access token and attaches the claims to
// the request context. Verification is stateless: signature and expiry
// only, no session lookup.
func Authenticate(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			return utils.SendError(c, fiber.StatusUnauthorized,
				"Access token required", "TOKEN_MISSING", "Authentication token is required")
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			return utils.SendError(c, fiber.StatusForbidden,
				"Invalid or expired token", "TOKEN_INVALID", "The provided token is invalid or has expired")
		}

		c.Locals(userContextKey, claims)
		return c.Next()
	}
}

// RequireRoles rejects requests whose authenticated role is not listed.
// Must run after Authenticate.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := UserFromCtx(c)
		if claims == nil {
			return utils.SendError(c, fiber.StatusUnauthorized,
				"Access token required", "TOKEN_MISSING", "Authentication token is required")
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return utils.SendError(c, fiber.StatusForbidden,
			"Insufficient permissions", "FORBIDDEN", "Your role is not allowed to perform this action")
	}
}

// UserFromCtx returns the authenticated claims, or nil outside an
// authenticated route.
func UserFromCtx(c *fiber.Ctx) *services.AccessClaims {
	claims, _ := c.Locals(userContextKey).(*services.AccessClaims)
	return claims
}
