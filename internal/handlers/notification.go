package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// NotificationHandler exposes the per-user notification inbox
type NotificationHandler struct {
	store         storage.Store
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(store storage.Store, notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{store: store, notifications: notifications}
}

// Send handles POST /api/notifications (admin only)
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var req struct {
		UserID   string                 `json:"userId"`
		Title    string                 `json:"title"`
		Message  string                 `json:"message"`
		Type     string                 `json:"type"`
		Channel  string                 `json:"channel"`
		Priority string                 `json:"priority"`
		Payload  map[string]interface{} `json:"payload"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if req.UserID == "" || req.Title == "" || req.Message == "" {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Missing required notification fields", "VALIDATION_ERROR",
			"userId, title and message are required")
	}
	if !models.IsValidNotificationType(req.Type) {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid notification type", "VALIDATION_ERROR",
			fmt.Sprintf("Type must be one of: %s", strings.Join(models.ValidNotificationTypes, ", ")))
	}
	if req.Channel == "" {
		req.Channel = models.ChannelInApp
	}
	if !models.IsValidChannel(req.Channel) {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid notification channel", "VALIDATION_ERROR",
			"Channel must be SMS, EMAIL, PUSH or IN_APP")
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	notification, err := h.notifications.Notify(req.UserID, req.Title, req.Message, req.Type, req.Channel, req.Priority, req.Payload)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"User not found", "USER_NOT_FOUND",
				fmt.Sprintf("No user found with ID %s", req.UserID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to send notification", "NOTIFICATION_SEND_ERROR", err.Error())
	}

	return utils.SendSuccess(c, notification, "Notification sent successfully")
}

// List handles GET /api/notifications with unreadOnly and type filters
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	unreadOnly := c.QueryBool("unreadOnly")
	notifType := c.Query("type")

	notifications, total, err := h.store.GetNotificationsByUser(claims.UserID, unreadOnly, notifType, page, limit)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve notifications", "NOTIFICATION_FETCH_ERROR", err.Error())
	}

	return utils.SendSuccess(c, fiber.Map{
		"notifications": notifications,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	}, "Notifications retrieved successfully")
}

// MarkRead handles PUT /api/notifications/:notificationId/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	id := c.Params("notificationId")

	notification, err := h.store.GetNotificationByID(id)
	if err != nil || notification.UserID != claims.UserID {
		if err == nil || errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Notification not found", "NOTIFICATION_NOT_FOUND",
				fmt.Sprintf("No notification found with ID %s", id))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to mark notification read", "NOTIFICATION_UPDATE_ERROR", err.Error())
	}

	notification.Read = true
	if err := h.store.UpdateNotification(notification); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to mark notification read", "NOTIFICATION_UPDATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, notification, "Notification marked as read")
}

// MarkAllRead handles PUT /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	count, err := h.store.MarkAllNotificationsRead(claims.UserID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to mark notifications read", "NOTIFICATION_UPDATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, fiber.Map{"markedCount": count}, "All notifications marked as read")
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	count, err := h.store.CountUnreadNotifications(claims.UserID)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to count unread notifications", "NOTIFICATION_FETCH_ERROR", err.Error())
	}
	return utils.SendSuccess(c, fiber.Map{"unreadCount": count}, "Unread count retrieved successfully")
}

// Delete handles DELETE /api/notifications/:notificationId
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	id := c.Params("notificationId")

	notification, err := h.store.GetNotificationByID(id)
	if err != nil || notification.UserID != claims.UserID {
		if err == nil || errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Notification not found", "NOTIFICATION_NOT_FOUND",
				fmt.Sprintf("No notification found with ID %s", id))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to delete notification", "NOTIFICATION_DELETE_ERROR", err.Error())
	}

	if err := h.store.DeleteNotification(id); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to delete notification", "NOTIFICATION_DELETE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, nil, "Notification deleted successfully")
}
