package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bharatbus/bharatbus-backend/internal/handlers"
	"github.com/bharatbus/bharatbus-backend/internal/middleware"
	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
)

// Deps carries everything route registration needs.
type Deps struct {
	Store         storage.Store
	OTP           *services.OTPService
	Auth          *services.AuthService
	Tokens        *services.TokenService
	Notifications *services.NotificationService
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.OTP, deps.Auth)
	tokenHandler := handlers.NewTokenHandler(deps.Auth)
	sessionHandler := handlers.NewSessionHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Store)
	agentHandler := handlers.NewAgentHandler(deps.Store, deps.Tokens)
	busHandler := handlers.NewBusHandler(deps.Store)
	routeHandler := handlers.NewRouteHandler(deps.Store)
	bookingHandler := handlers.NewBookingHandler(deps.Store, deps.Notifications)
	notificationHandler := handlers.NewNotificationHandler(deps.Store, deps.Notifications)
	searchHandler := handlers.NewSearchHandler()

	authenticated := middleware.Authenticate(deps.Tokens)
	agentOrAdmin := middleware.RequireRoles(models.RoleAgent, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to BharatBus Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":   "/health",
				"auth":     "/api/auth",
				"buses":    "/api/buses",
				"routes":   "/api/routes",
				"bookings": "/api/bookings",
				"search":   "/api/search",
			},
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := app.Group("/api")

	// OTP login flow, no token required
	auth := api.Group("/auth")
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)

	// Agent onboarding rides under /api/auth for client compatibility
	agent := auth.Group("/agent", authenticated)
	agent.Post("/complete-profile", agentHandler.CompleteProfile)
	agent.Get("/profile", agentHandler.GetProfile)
	agent.Put("/profile", agentHandler.UpdateProfile)
	agent.Post("/documents", agentHandler.UploadDocument)

	// Refresh/revoke take the refresh token in the body, no access token
	token := api.Group("/token")
	token.Post("/refresh", tokenHandler.Refresh)
	token.Post("/revoke", tokenHandler.Revoke)

	sessions := api.Group("/sessions", authenticated)
	sessions.Get("/my-sessions", sessionHandler.MySessions)
	sessions.Delete("/revoke-others", sessionHandler.RevokeOthers)
	sessions.Delete("/logout-all", sessionHandler.LogoutAll)
	sessions.Delete("/revoke/:sessionId", sessionHandler.RevokeSession)

	users := api.Group("/users", authenticated)
	users.Get("/profile", userHandler.GetProfile)
	users.Put("/profile", userHandler.UpdateProfile)

	buses := api.Group("/buses")
	buses.Get("/", busHandler.ListBuses)
	buses.Get("/:busId", busHandler.GetBus)
	buses.Post("/", authenticated, agentOrAdmin, busHandler.CreateBus)
	buses.Put("/:busId", authenticated, agentOrAdmin, busHandler.UpdateBus)
	buses.Delete("/:busId", authenticated, agentOrAdmin, busHandler.DeleteBus)

	busRoutes := api.Group("/routes")
	busRoutes.Get("/", routeHandler.ListRoutes)
	busRoutes.Get("/:routeId", routeHandler.GetRoute)
	busRoutes.Post("/", authenticated, agentOrAdmin, routeHandler.CreateRoute)
	busRoutes.Put("/:routeId", authenticated, agentOrAdmin, routeHandler.UpdateRoute)
	busRoutes.Delete("/:routeId", authenticated, adminOnly, routeHandler.DeleteRoute)

	bookings := api.Group("/bookings", authenticated)
	bookings.Post("/", bookingHandler.CreateBooking)
	bookings.Get("/", bookingHandler.ListBookings)
	bookings.Get("/:bookingRef", bookingHandler.GetBooking)
	bookings.Put("/:bookingRef", bookingHandler.UpdateBooking)
	bookings.Delete("/:bookingRef", bookingHandler.CancelBooking)

	notifications := api.Group("/notifications", authenticated)
	notifications.Post("/", adminOnly, notificationHandler.Send)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Put("/mark-all-read", notificationHandler.MarkAllRead)
	notifications.Put("/:notificationId/read", notificationHandler.MarkRead)
	notifications.Delete("/:notificationId", notificationHandler.Delete)

	// Public fixture-backed catalog
	search := api.Group("/search")
	search.Get("/buses", searchHandler.SearchBuses)
	search.Get("/filter", searchHandler.FilterBuses)
	search.Get("/buses/:id", searchHandler.GetBusDetails)
}
