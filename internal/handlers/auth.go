package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// AuthHandler handles OTP issuance and verification
type AuthHandler struct {
	otp  *services.OTPService
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(otp *services.OTPService, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{otp: otp, auth: auth}
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.Phone == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Phone number is required", "VALIDATION_ERROR", "Phone number is required to send OTP")
	}

	result, err := h.otp.Issue(c.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhone) {
			return utils.SendError(c, fiber.StatusBadRequest,
				"Invalid phone number format", "OTP_SEND_FAILED", "Invalid phone number format")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to send OTP", "INTERNAL_ERROR", err.Error())
	}

	data := fiber.Map{
		"phoneNumber": result.Phone,
		"otpExpiry":   result.ExpiresAt,
	}
	if result.TestCode != "" {
		// Test environments only; production never echoes the code
		data["otpSent"] = result.TestCode
	}
	return utils.SendSuccess(c, data, "OTP sent successfully")
}

// VerifyOTP handles POST /api/auth/verify-otp. A correct code logs the
// caller in, creating the user on first contact.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.Phone == "" || req.OTP == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Phone number and OTP are required", "VALIDATION_ERROR",
			"Both phone number and OTP are required for verification")
	}

	if err := h.otp.Verify(c.Context(), req.Phone, req.OTP); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			otpFailureMessage(err), "OTP_VERIFICATION_FAILED", otpFailureMessage(err))
	}

	device := models.DeviceInfo{
		DeviceID:    c.Get("device-id"),
		DeviceType:  headerOr(c, "device-type", "unknown"),
		DeviceModel: c.Get("device-model"),
		OS:          headerOr(c, "os", "unknown"),
		Browser:     headerOr(c, "browser", "unknown"),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
	}

	result, err := h.auth.Login(req.Phone, device, c.IP())
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to verify OTP and login", "INTERNAL_ERROR", err.Error())
	}

	message := "Logged in successfully"
	if result.IsNewUser {
		message = "User created and logged in successfully"
	}

	return utils.SendSuccess(c, fiber.Map{
		"user": fiber.Map{
			"id":     result.User.UserID,
			"phone":  result.User.Phone,
			"name":   result.User.Name,
			"email":  result.User.Email,
			"role":   result.User.Role,
			"status": result.User.Status,
		},
		"tokens":    result.Tokens,
		"isNewUser": result.IsNewUser,
	}, message)
}

func otpFailureMessage(err error) string {
	var invalid *services.InvalidCodeError
	switch {
	case errors.Is(err, services.ErrOTPNotFound):
		return "No OTP found for this phone number"
	case errors.Is(err, services.ErrOTPExpired):
		return "OTP has expired"
	case errors.Is(err, services.ErrOTPAttemptsExceeded):
		return "Maximum OTP attempts exceeded. Please request a new OTP."
	case errors.As(err, &invalid):
		return invalid.Error()
	default:
		return "OTP verification failed"
	}
}

func headerOr(c *fiber.Ctx, key, fallback string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return fallback
}
