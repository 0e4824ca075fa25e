package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// BookingHandler manages seat reservations
type BookingHandler struct {
	store         storage.Store
	notifications *services.NotificationService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(store storage.Store, notifications *services.NotificationService) *BookingHandler {
	return &BookingHandler{store: store, notifications: notifications}
}

// CreateBooking handles POST /api/bookings. The referenced bus and route
// must exist; a confirmation notification is sent best-effort and never
// fails the booking.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	var req models.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}
	if err := req.Validate(); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return utils.SendError(c, fiber.StatusBadRequest,
				"Booking validation failed", "VALIDATION_ERROR", verr.Details)
		}
		return utils.SendError(c, fiber.StatusBadRequest,
			"Booking validation failed", "VALIDATION_ERROR", err.Error())
	}

	bus, err := h.store.GetBusByBusID(req.BusID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Bus not found", "BUS_NOT_FOUND",
				fmt.Sprintf("No bus found with ID %s", req.BusID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create booking", "BOOKING_CREATE_ERROR", err.Error())
	}
	route, err := h.store.GetRouteByRouteID(req.RouteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Route not found", "ROUTE_NOT_FOUND",
				fmt.Sprintf("No route found with ID %s", req.RouteID))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create booking", "BOOKING_CREATE_ERROR", err.Error())
	}

	journeyDate := time.Now().Add(24 * time.Hour)
	if req.JourneyDate != nil {
		journeyDate = *req.JourneyDate
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	booking := &models.Booking{
		UserID:        claims.UserID,
		BusID:         bus.BusID,
		RouteID:       route.RouteID,
		Seats:         req.Seats,
		Passengers:    req.Passengers,
		Status:        models.BookingStatusConfirmed,
		TotalAmount:   req.TotalAmount(),
		JourneyDate:   journeyDate,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusCompleted,
	}
	created, err := h.store.CreateBooking(booking)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to create booking", "BOOKING_CREATE_ERROR", err.Error())
	}

	// best-effort, a failed notification never fails the booking
	_, _ = h.notifications.Notify(claims.UserID,
		"Booking Confirmed",
		fmt.Sprintf("Your booking %s from %s to %s is confirmed.", created.BookingRef, route.Source, route.Destination),
		"BOOKING_CONFIRMED", models.ChannelSMS, models.PriorityHigh,
		map[string]interface{}{
			"bookingReference": created.BookingRef,
			"busId":            created.BusID,
			"routeId":          created.RouteID,
			"seats":            created.Seats,
			"totalAmount":      created.TotalAmount,
		})

	return utils.SendSuccess(c, created, "Booking created successfully")
}

// ListBookings handles GET /api/bookings, scoped to the caller unless the
// caller is an admin filtering by userId.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)

	filter := &models.BookingFilter{
		UserID: claims.UserID,
		BusID:  c.Query("busId"),
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	}
	if claims.Role == models.RoleAdmin {
		if q := c.Query("userId"); q != "" {
			filter.UserID = q
		}
	}
	if q := c.Query("startDate"); q != "" {
		if t, err := time.Parse("2006-01-02", q); err == nil {
			filter.StartDate = &t
		}
	}
	if q := c.Query("endDate"); q != "" {
		if t, err := time.Parse("2006-01-02", q); err == nil {
			filter.EndDate = &t
		}
	}

	bookings, total, err := h.store.GetBookings(filter)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve bookings", "BOOKING_FETCH_ERROR", err.Error())
	}

	return utils.SendSuccess(c, fiber.Map{
		"bookings": bookings,
		"pagination": fiber.Map{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
		},
	}, "Bookings retrieved successfully")
}

// GetBooking handles GET /api/bookings/:bookingRef
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	ref := c.Params("bookingRef")

	booking, err := h.store.GetBookingByRef(ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Booking not found", "BOOKING_NOT_FOUND",
				fmt.Sprintf("No booking found with reference %s", ref))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to retrieve booking", "BOOKING_FETCH_ERROR", err.Error())
	}
	if booking.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.SendError(c, fiber.StatusForbidden,
			"Not authorized to view this booking", "FORBIDDEN",
			"Bookings are visible only to their owner or an admin")
	}
	return utils.SendSuccess(c, booking, "Booking retrieved successfully")
}

// UpdateBooking handles PUT /api/bookings/:bookingRef. Only status and
// payment status move here; a cancelled booking cannot be revived.
func (h *BookingHandler) UpdateBooking(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	ref := c.Params("bookingRef")

	booking, err := h.store.GetBookingByRef(ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Booking not found", "BOOKING_NOT_FOUND",
				fmt.Sprintf("No booking found with reference %s", ref))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update booking", "BOOKING_UPDATE_ERROR", err.Error())
	}
	if booking.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.SendError(c, fiber.StatusForbidden,
			"Not authorized to modify this booking", "FORBIDDEN",
			"Bookings can be modified only by their owner or an admin")
	}
	if booking.Status == models.BookingStatusCancelled {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Booking is cancelled", "BOOKING_CANCELLED",
			"A cancelled booking cannot be modified")
	}

	var req struct {
		Status        *string `json:"status"`
		PaymentStatus *string `json:"paymentStatus"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Invalid request body", "VALIDATION_ERROR", "Request body must be valid JSON")
	}

	if req.Status != nil {
		switch *req.Status {
		case models.BookingStatusConfirmed, models.BookingStatusPending, models.BookingStatusCompleted:
			booking.Status = *req.Status
		default:
			return utils.SendError(c, fiber.StatusBadRequest,
				"Invalid booking status", "VALIDATION_ERROR",
				"Status must be confirmed, pending or completed; use the cancel endpoint to cancel")
		}
	}
	if req.PaymentStatus != nil {
		switch *req.PaymentStatus {
		case models.PaymentStatusPending, models.PaymentStatusCompleted, models.PaymentStatusFailed, models.PaymentStatusRefunded:
			booking.PaymentStatus = *req.PaymentStatus
		default:
			return utils.SendError(c, fiber.StatusBadRequest,
				"Invalid payment status", "VALIDATION_ERROR",
				"Payment status must be pending, completed, failed or refunded")
		}
	}

	if err := h.store.UpdateBooking(booking); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to update booking", "BOOKING_UPDATE_ERROR", err.Error())
	}
	return utils.SendSuccess(c, booking, "Booking updated successfully")
}

// CancelBooking handles DELETE /api/bookings/:bookingRef. A completed
// payment is marked refunded; the record stays for history.
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	claims := middleware.UserFromCtx(c)
	ref := c.Params("bookingRef")

	booking, err := h.store.GetBookingByRef(ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound,
				"Booking not found", "BOOKING_NOT_FOUND",
				fmt.Sprintf("No booking found with reference %s", ref))
		}
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to cancel booking", "BOOKING_CANCEL_ERROR", err.Error())
	}
	if booking.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.SendError(c, fiber.StatusForbidden,
			"Not authorized to cancel this booking", "FORBIDDEN",
			"Bookings can be cancelled only by their owner or an admin")
	}
	if booking.Status == models.BookingStatusCancelled {
		return utils.SendError(c, fiber.StatusBadRequest,
			"Booking already cancelled", "BOOKING_CANCELLED",
			"This booking has already been cancelled")
	}

	booking.Status = models.BookingStatusCancelled
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		booking.PaymentStatus = models.PaymentStatusRefunded
	}
	if err := h.store.UpdateBooking(booking); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError,
			"Failed to cancel booking", "BOOKING_CANCEL_ERROR", err.Error())
	}

	_, _ = h.notifications.Notify(booking.UserID,
		"Booking Cancelled",
		fmt.Sprintf("Your booking %s has been cancelled.", booking.BookingRef),
		"BOOKING_CANCELLED", models.ChannelSMS, models.PriorityHigh,
		map[string]interface{}{
			"bookingReference": booking.BookingRef,
			"paymentStatus":    booking.PaymentStatus,
		})

	return utils.SendSuccess(c, booking, "Booking cancelled successfully")
}
