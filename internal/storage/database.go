package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/models"
)

// DatabaseStore implements Store over PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore wraps an open GORM connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// User operations

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DatabaseStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByUserID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// Agent operations

func (s *DatabaseStore) CreateAgent(agent *models.Agent) (*models.Agent, error) {
	if err := s.db.Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *DatabaseStore) GetAgentByUserID(userID string) (*models.Agent, error) {
	var agent models.Agent
	if err := s.db.Preload("Documents").Where("user_id = ?", userID).First(&agent).Error; err != nil {
		return nil, translate(err)
	}
	return &agent, nil
}

func (s *DatabaseStore) UpdateAgent(agent *models.Agent) error {
	return s.db.Omit("Documents").Save(agent).Error
}

func (s *DatabaseStore) AddAgentDocument(agent *models.Agent, doc *models.AgentDocument) error {
	doc.AgentID = agent.ID
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}
	if err := s.db.Create(doc).Error; err != nil {
		return err
	}
	agent.Documents = append(agent.Documents, *doc)
	return nil
}

// Bus operations

func (s *DatabaseStore) CreateBus(bus *models.Bus) (*models.Bus, error) {
	if err := s.db.Create(bus).Error; err != nil {
		return nil, err
	}
	return bus, nil
}

func (s *DatabaseStore) GetBusByBusID(busID string) (*models.Bus, error) {
	var bus models.Bus
	if err := s.db.Where("bus_id = ?", busID).First(&bus).Error; err != nil {
		return nil, translate(err)
	}
	return &bus, nil
}

func (s *DatabaseStore) GetBusByNumber(busNumber string) (*models.Bus, error) {
	var bus models.Bus
	if err := s.db.Where("bus_number = ?", busNumber).First(&bus).Error; err != nil {
		return nil, translate(err)
	}
	return &bus, nil
}

func (s *DatabaseStore) GetBuses(filter *models.BusFilter) ([]*models.Bus, int64, error) {
	query := s.db.Model(&models.Bus{})
	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MinCapacity > 0 {
		query = query.Where("capacity >= ?", filter.MinCapacity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var buses []*models.Bus
	page, limit := normalizePage(filter.Page, filter.Limit)
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&buses).Error
	return buses, total, err
}

func (s *DatabaseStore) UpdateBus(bus *models.Bus) error {
	return s.db.Save(bus).Error
}

func (s *DatabaseStore) DeleteBus(busID string) error {
	result := s.db.Where("bus_id = ?", busID).Delete(&models.Bus{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Route operations

func (s *DatabaseStore) CreateRoute(route *models.Route) (*models.Route, error) {
	if err := s.db.Create(route).Error; err != nil {
		return nil, err
	}
	return route, nil
}

func (s *DatabaseStore) GetRouteByRouteID(routeID string) (*models.Route, error) {
	var route models.Route
	if err := s.db.Where("route_id = ?", routeID).First(&route).Error; err != nil {
		return nil, translate(err)
	}
	return &route, nil
}

func (s *DatabaseStore) FindRoute(source, destination string) (*models.Route, error) {
	var route models.Route
	err := s.db.Where("LOWER(source) = LOWER(?) AND LOWER(destination) = LOWER(?)", source, destination).
		First(&route).Error
	if err != nil {
		return nil, translate(err)
	}
	return &route, nil
}

func (s *DatabaseStore) GetRoutes(activeOnly bool) ([]*models.Route, error) {
	query := s.db.Model(&models.Route{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var routes []*models.Route
	err := query.Order("created_at DESC").Find(&routes).Error
	return routes, err
}

func (s *DatabaseStore) UpdateRoute(route *models.Route) error {
	return s.db.Save(route).Error
}

func (s *DatabaseStore) DeleteRoute(routeID string) error {
	result := s.db.Where("route_id = ?", routeID).Delete(&models.Route{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Booking operations

func (s *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	if err := s.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DatabaseStore) GetBookingByRef(bookingRef string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Where("booking_ref = ?", bookingRef).First(&booking).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (s *DatabaseStore) GetBookings(filter *models.BookingFilter) ([]*models.Booking, int64, error) {
	query := s.db.Model(&models.Booking{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.BusID != "" {
		query = query.Where("bus_id = ?", filter.BusID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("booking_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("booking_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []*models.Booking
	page, limit := normalizePage(filter.Page, filter.Limit)
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (s *DatabaseStore) UpdateBooking(booking *models.Booking) error {
	return s.db.Save(booking).Error
}

// Notification operations

func (s *DatabaseStore) CreateNotification(notification *models.Notification) (*models.Notification, error) {
	if err := s.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *DatabaseStore) GetNotificationByID(notificationID string) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.Where("notification_id = ?", notificationID).First(&notification).Error; err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}

func (s *DatabaseStore) GetNotificationsByUser(userID string, unreadOnly bool, notifType string, page, limit int) ([]*models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if notifType != "" {
		query = query.Where("type = ?", notifType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*models.Notification
	page, limit = normalizePage(page, limit)
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (s *DatabaseStore) UpdateNotification(notification *models.Notification) error {
	return s.db.Save(notification).Error
}

func (s *DatabaseStore) MarkAllNotificationsRead(userID string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (s *DatabaseStore) CountUnreadNotifications(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *DatabaseStore) DeleteNotification(notificationID string) error {
	result := s.db.Where("notification_id = ?", notificationID).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) GetUnsentNotifications(limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	query := s.db.Where("sent = ?", false).Order("scheduled_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

// Session operations

func (s *DatabaseStore) CreateSession(session *models.Session) (*models.Session, error) {
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DatabaseStore) GetSessionByID(sessionID string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *DatabaseStore) GetActiveSessionByToken(refreshToken string) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("refresh_token = ? AND is_active = ?", refreshToken, true).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *DatabaseStore) GetActiveSessionsByUser(userID string) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_active_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *DatabaseStore) UpdateSession(session *models.Session) error {
	return s.db.Save(session).Error
}

func (s *DatabaseStore) RevokeSessionsByUser(userID string, exceptSessionID string) (int64, error) {
	query := s.db.Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true)
	if exceptSessionID != "" {
		query = query.Where("session_id <> ?", exceptSessionID)
	}
	result := query.Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (s *DatabaseStore) GetExpiredActiveSessions(now time.Time) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.Where("is_active = ? AND expires_at < ?", true, now).
		Find(&sessions).Error
	return sessions, err
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
