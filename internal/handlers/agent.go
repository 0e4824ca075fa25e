package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// AgentHandler manages the one-to-one agent extension of a user
type AgentHandler struct {
	store  storage.Store
	tokens *services.TokenService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(store storage.Store, tokens *services.TokenService) *AgentHandler {
	return &AgentHandler{store: store, tokens: tokens}
}

// CompleteProfile handles POST /api/auth/agent/complete-profile. Creating
// the profile promotes the user's role to AGENT, so a fresh token pair is
// returned carrying the new role.
func (h *AgentHandler) CompleteProfile(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var req models.AgentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if err := req.Validate(); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Missing required fields for agent profile", "VALIDATION_ERROR", err.Error())
	}

	user, err := h.store.GetUserByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"User not found", "USER_NOT_FOUND", "No user found for the authenticated token")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to complete agent profile", "AGENT_PROFILE_COMPLETION_ERROR", err.Error())
	}

	if _, err := h.store.GetAgentByUserID(claims.UserID); err == nil {
		return utils.SendError(c, fiber.StatusConflict,
			"Agent profile already exists", "AGENT_PROFILE_EXISTS",
			"An agent profile already exists for this user")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to complete agent profile", "AGENT_PROFILE_COMPLETION_ERROR", err.Error())
	}

	agent := &models.Agent{
		UserID:             user.UserID,
		CompanyName:        req.CompanyName,
		GST:                req.GST,
		BankDetails:        req.BankDetails,
		SupportContact:     req.SupportContact,
		Address:            req.Address,
		VerificationStatus: models.AgentStatusPending,
		IsActive:           true,
	}
	if _, err := h.store.CreateAgent(agent); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to complete agent profile", "AGENT_PROFILE_COMPLETION_ERROR", err.Error())
	}

	user.Role = models.RoleAgent
	if err := h.store.UpdateUser(user); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to complete agent profile", "AGENT_PROFILE_COMPLETION_ERROR", err.Error())
	}

	tokens, err := h.tokens.GeneratePair(user)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to complete agent profile", "AGENT_PROFILE_COMPLETION_ERROR", err.Error())
	}

	return utils.SendSuccess(c, fiber.Map{
		"agent":  agent,
		"user":   user,
		"tokens": tokens,
	}, "Agent profile completed successfully")
}

// GetProfile handles GET /api/auth/agent/profile
func (h *AgentHandler) GetProfile(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	agent, err := h.store.GetAgentByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Agent profile not found", "AGENT_PROFILE_NOT_FOUND",
				"No agent profile exists for this user")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve agent profile", "AGENT_PROFILE_RETRIEVAL_ERROR", err.Error())
	}
	return utils.SendSuccess(c, agent, "Agent profile retrieved successfully")
}

// UpdateProfile handles PUT /api/auth/agent/profile. The verification
// status and user binding are not client-mutable.
func (h *AgentHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var req models.AgentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}

	agent, err := h.store.GetAgentByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Agent profile not found", "AGENT_PROFILE_NOT_FOUND",
				"No agent profile exists for this user")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update agent profile", "AGENT_PROFILE_UPDATE_ERROR", err.Error())
	}

	if req.CompanyName != "" {
		agent.CompanyName = req.CompanyName
	}
	if req.GST != "" {
		agent.GST = req.GST
	}
	if req.SupportContact != "" {
		agent.SupportContact = req.SupportContact
	}
	if req.BankDetails.AccountNumber != "" {
		agent.BankDetails = req.BankDetails
	}
	if req.Address.City != "" {
		agent.Address = req.Address
	}

	if err := h.store.UpdateAgent(agent); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update agent profile", "AGENT_PROFILE_UPDATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, agent, "Agent profile updated successfully")
}

// UploadDocument handles POST /api/auth/agent/documents
func (h *AgentHandler) UploadDocument(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var req struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.Type == "" || req.URL == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Document type and URL are required", "VALIDATION_ERROR",
			"Both type and url are required to upload a document")
	}

	agent, err := h.store.GetAgentByUserID(claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Agent profile not found", "AGENT_PROFILE_NOT_FOUND",
				"No agent profile exists for this user")
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to upload agent document", "DOCUMENT_UPLOAD_ERROR", err.Error())
	}

	doc := &models.AgentDocument{Type: req.Type, URL: req.URL}
	if err := h.store.AddAgentDocument(agent, doc); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to upload agent document", "DOCUMENT_UPLOAD_ERROR", err.Error())
	}

	return utils.SendSuccess(c, fiber.Map{"document": doc}, "Document uploaded successfully")
}
