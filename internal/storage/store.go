package storage

import (
	"errors"
	"time"

	"github.com/bharatbus/bharatbus-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist. Both implementations
// return it so handlers can map lookups to 404 without string matching.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a create collides with a unique constraint
// the memory store enforces itself; the GORM store surfaces the database's
// unique-violation error instead.
var ErrDuplicate = errors.New("duplicate record")

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	GetUserByUserID(userID string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Agent operations
	CreateAgent(agent *models.Agent) (*models.Agent, error)
	GetAgentByUserID(userID string) (*models.Agent, error)
	UpdateAgent(agent *models.Agent) error
	AddAgentDocument(agent *models.Agent, doc *models.AgentDocument) error

	// Bus operations
	CreateBus(bus *models.Bus) (*models.Bus, error)
	GetBusByBusID(busID string) (*models.Bus, error)
	GetBusByNumber(busNumber string) (*models.Bus, error)
	GetBuses(filter *models.BusFilter) ([]*models.Bus, int64, error)
	UpdateBus(bus *models.Bus) error
	DeleteBus(busID string) error

	// Route operations
	CreateRoute(route *models.Route) (*models.Route, error)
	GetRouteByRouteID(routeID string) (*models.Route, error)
	FindRoute(source, destination string) (*models.Route, error)
	GetRoutes(activeOnly bool) ([]*models.Route, error)
	UpdateRoute(route *models.Route) error
	DeleteRoute(routeID string) error

	// Booking operations
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBookingByRef(bookingRef string) (*models.Booking, error)
	GetBookings(filter *models.BookingFilter) ([]*models.Booking, int64, error)
	UpdateBooking(booking *models.Booking) error

	// Notification operations
	CreateNotification(notification *models.Notification) (*models.Notification, error)
	GetNotificationByID(notificationID string) (*models.Notification, error)
	GetNotificationsByUser(userID string, unreadOnly bool, notifType string, page, limit int) ([]*models.Notification, int64, error)
	UpdateNotification(notification *models.Notification) error
	MarkAllNotificationsRead(userID string) (int64, error)
	CountUnreadNotifications(userID string) (int64, error)
	DeleteNotification(notificationID string) error
	GetUnsentNotifications(limit int) ([]*models.Notification, error)

	// Session operations
	CreateSession(session *models.Session) (*models.Session, error)
	GetSessionByID(sessionID string) (*models.Session, error)
	GetActiveSessionByToken(refreshToken string) (*models.Session, error)
	GetActiveSessionsByUser(userID string) ([]*models.Session, error)
	UpdateSession(session *models.Session) error
	RevokeSessionsByUser(userID string, exceptSessionID string) (int64, error)
	GetExpiredActiveSessions(now time.Time) ([]*models.Session, error)
}
