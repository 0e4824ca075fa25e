package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bharatbus/bharatbus-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development
// (USE_MEMORY_STORE=true). It applies the same ID generation and
// normalization the GORM hooks do, so both stores behave alike.
type MemoryStore struct {
	users         map[string]*models.User         // keyed by UserID
	agents        map[string]*models.Agent        // keyed by UserID
	buses         map[string]*models.Bus          // keyed by BusID
	routes        map[string]*models.Route        // keyed by RouteID
	bookings      map[string]*models.Booking      // keyed by BookingRef
	notifications map[string]*models.Notification // keyed by NotificationID
	sessions      map[string]*models.Session      // keyed by SessionID

	userMu    sync.RWMutex
	agentMu   sync.RWMutex
	busMu     sync.RWMutex
	routeMu   sync.RWMutex
	bookingMu sync.RWMutex
	notifMu   sync.RWMutex
	sessionMu sync.RWMutex

	idCounter uint
	counterMu sync.Mutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*models.User),
		agents:        make(map[string]*models.Agent),
		buses:         make(map[string]*models.Bus),
		routes:        make(map[string]*models.Route),
		bookings:      make(map[string]*models.Booking),
		notifications: make(map[string]*models.Notification),
		sessions:      make(map[string]*models.Session),
	}
}

func (m *MemoryStore) nextID() uint {
	m.counterMu.Lock()
	defer m.counterMu.Unlock()
	m.idCounter++
	return m.idCounter
}

func stamp(createdAt *time.Time, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	_ = user.BeforeCreate(nil)
	user.ID = m.nextID()
	stamp(&user.CreatedAt, &user.UpdatedAt)

	m.userMu.Lock()
	defer m.userMu.Unlock()
	m.users[user.UserID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, user := range m.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByUserID(userID string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.UserID]; !exists {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

// Agent operations

func (m *MemoryStore) CreateAgent(agent *models.Agent) (*models.Agent, error) {
	_ = agent.BeforeCreate(nil)
	agent.ID = m.nextID()
	stamp(&agent.CreatedAt, &agent.UpdatedAt)

	m.agentMu.Lock()
	defer m.agentMu.Unlock()
	m.agents[agent.UserID] = agent
	return agent, nil
}

func (m *MemoryStore) GetAgentByUserID(userID string) (*models.Agent, error) {
	m.agentMu.RLock()
	defer m.agentMu.RUnlock()

	agent, exists := m.agents[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return agent, nil
}

func (m *MemoryStore) UpdateAgent(agent *models.Agent) error {
	m.agentMu.Lock()
	defer m.agentMu.Unlock()

	if _, exists := m.agents[agent.UserID]; !exists {
		return ErrNotFound
	}
	agent.UpdatedAt = time.Now()
	m.agents[agent.UserID] = agent
	return nil
}

func (m *MemoryStore) AddAgentDocument(agent *models.Agent, doc *models.AgentDocument) error {
	m.agentMu.Lock()
	defer m.agentMu.Unlock()

	stored, exists := m.agents[agent.UserID]
	if !exists {
		return ErrNotFound
	}
	doc.ID = m.nextID()
	doc.AgentID = stored.ID
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}
	stored.Documents = append(stored.Documents, *doc)
	stored.UpdatedAt = time.Now()
	return nil
}

// Bus operations

func (m *MemoryStore) CreateBus(bus *models.Bus) (*models.Bus, error) {
	_ = bus.BeforeCreate(nil)
	bus.ID = m.nextID()
	stamp(&bus.CreatedAt, &bus.UpdatedAt)

	m.busMu.Lock()
	defer m.busMu.Unlock()
	m.buses[bus.BusID] = bus
	return bus, nil
}

func (m *MemoryStore) GetBusByBusID(busID string) (*models.Bus, error) {
	m.busMu.RLock()
	defer m.busMu.RUnlock()

	bus, exists := m.buses[busID]
	if !exists {
		return nil, ErrNotFound
	}
	return bus, nil
}

func (m *MemoryStore) GetBusByNumber(busNumber string) (*models.Bus, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(busNumber, " ", ""))

	m.busMu.RLock()
	defer m.busMu.RUnlock()

	for _, bus := range m.buses {
		if bus.BusNumber == normalized {
			return bus, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetBuses(filter *models.BusFilter) ([]*models.Bus, int64, error) {
	m.busMu.RLock()
	defer m.busMu.RUnlock()

	var matched []*models.Bus
	for _, bus := range m.buses {
		if filter.AgentID != "" && bus.AgentID != filter.AgentID {
			continue
		}
		if filter.Type != "" && bus.Type != filter.Type {
			continue
		}
		if filter.MinCapacity > 0 && bus.Capacity < filter.MinCapacity {
			continue
		}
		matched = append(matched, bus)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (m *MemoryStore) UpdateBus(bus *models.Bus) error {
	m.busMu.Lock()
	defer m.busMu.Unlock()

	if _, exists := m.buses[bus.BusID]; !exists {
		return ErrNotFound
	}
	bus.UpdatedAt = time.Now()
	m.buses[bus.BusID] = bus
	return nil
}

func (m *MemoryStore) DeleteBus(busID string) error {
	m.busMu.Lock()
	defer m.busMu.Unlock()

	if _, exists := m.buses[busID]; !exists {
		return ErrNotFound
	}
	delete(m.buses, busID)
	return nil
}

// Route operations

func (m *MemoryStore) CreateRoute(route *models.Route) (*models.Route, error) {
	_ = route.BeforeCreate(nil)
	route.ID = m.nextID()
	stamp(&route.CreatedAt, &route.UpdatedAt)

	m.routeMu.Lock()
	defer m.routeMu.Unlock()
	m.routes[route.RouteID] = route
	return route, nil
}

func (m *MemoryStore) GetRouteByRouteID(routeID string) (*models.Route, error) {
	m.routeMu.RLock()
	defer m.routeMu.RUnlock()

	route, exists := m.routes[routeID]
	if !exists {
		return nil, ErrNotFound
	}
	return route, nil
}

func (m *MemoryStore) FindRoute(source, destination string) (*models.Route, error) {
	m.routeMu.RLock()
	defer m.routeMu.RUnlock()

	for _, route := range m.routes {
		if strings.EqualFold(route.Source, source) && strings.EqualFold(route.Destination, destination) {
			return route, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetRoutes(activeOnly bool) ([]*models.Route, error) {
	m.routeMu.RLock()
	defer m.routeMu.RUnlock()

	var routes []*models.Route
	for _, route := range m.routes {
		if activeOnly && !route.IsActive {
			continue
		}
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})
	return routes, nil
}

func (m *MemoryStore) UpdateRoute(route *models.Route) error {
	m.routeMu.Lock()
	defer m.routeMu.Unlock()

	if _, exists := m.routes[route.RouteID]; !exists {
		return ErrNotFound
	}
	route.UpdatedAt = time.Now()
	m.routes[route.RouteID] = route
	return nil
}

func (m *MemoryStore) DeleteRoute(routeID string) error {
	m.routeMu.Lock()
	defer m.routeMu.Unlock()

	if _, exists := m.routes[routeID]; !exists {
		return ErrNotFound
	}
	delete(m.routes, routeID)
	return nil
}

// Booking operations

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	_ = booking.BeforeCreate(nil)
	booking.ID = m.nextID()
	stamp(&booking.CreatedAt, &booking.UpdatedAt)

	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()
	m.bookings[booking.BookingRef] = booking
	return booking, nil
}

func (m *MemoryStore) GetBookingByRef(bookingRef string) (*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	booking, exists := m.bookings[bookingRef]
	if !exists {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (m *MemoryStore) GetBookings(filter *models.BookingFilter) ([]*models.Booking, int64, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	var matched []*models.Booking
	for _, booking := range m.bookings {
		if filter.UserID != "" && booking.UserID != filter.UserID {
			continue
		}
		if filter.BusID != "" && booking.BusID != filter.BusID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		if filter.StartDate != nil && booking.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && booking.BookingDate.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, booking)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (m *MemoryStore) UpdateBooking(booking *models.Booking) error {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	if _, exists := m.bookings[booking.BookingRef]; !exists {
		return ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	m.bookings[booking.BookingRef] = booking
	return nil
}

// Notification operations

func (m *MemoryStore) CreateNotification(notification *models.Notification) (*models.Notification, error) {
	_ = notification.BeforeCreate(nil)
	notification.ID = m.nextID()
	stamp(&notification.CreatedAt, &notification.UpdatedAt)

	m.notifMu.Lock()
	defer m.notifMu.Unlock()
	m.notifications[notification.NotificationID] = notification
	return notification, nil
}

func (m *MemoryStore) GetNotificationByID(notificationID string) (*models.Notification, error) {
	m.notifMu.RLock()
	defer m.notifMu.RUnlock()

	notification, exists := m.notifications[notificationID]
	if !exists {
		return nil, ErrNotFound
	}
	return notification, nil
}

func (m *MemoryStore) GetNotificationsByUser(userID string, unreadOnly bool, notifType string, page, limit int) ([]*models.Notification, int64, error) {
	m.notifMu.RLock()
	defer m.notifMu.RUnlock()

	var matched []*models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		if notifType != "" && n.Type != notifType {
			continue
		}
		matched = append(matched, n)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, page, limit), total, nil
}

func (m *MemoryStore) UpdateNotification(notification *models.Notification) error {
	m.notifMu.Lock()
	defer m.notifMu.Unlock()

	if _, exists := m.notifications[notification.NotificationID]; !exists {
		return ErrNotFound
	}
	notification.UpdatedAt = time.Now()
	m.notifications[notification.NotificationID] = notification
	return nil
}

func (m *MemoryStore) MarkAllNotificationsRead(userID string) (int64, error) {
	m.notifMu.Lock()
	defer m.notifMu.Unlock()

	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.UpdatedAt = time.Now()
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountUnreadNotifications(userID string) (int64, error) {
	m.notifMu.RLock()
	defer m.notifMu.RUnlock()

	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) DeleteNotification(notificationID string) error {
	m.notifMu.Lock()
	defer m.notifMu.Unlock()

	if _, exists := m.notifications[notificationID]; !exists {
		return ErrNotFound
	}
	delete(m.notifications, notificationID)
	return nil
}

func (m *MemoryStore) GetUnsentNotifications(limit int) ([]*models.Notification, error) {
	m.notifMu.RLock()
	defer m.notifMu.RUnlock()

	var unsent []*models.Notification
	for _, n := range m.notifications {
		if !n.Sent {
			unsent = append(unsent, n)
			if limit > 0 && len(unsent) >= limit {
				break
			}
		}
	}
	return unsent, nil
}

// Session operations

func (m *MemoryStore) CreateSession(session *models.Session) (*models.Session, error) {
	session.ID = m.nextID()
	stamp(&session.CreatedAt, &session.UpdatedAt)

	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	// the refresh token carries a unique index in the database schema
	for _, existing := range m.sessions {
		if existing.RefreshToken == session.RefreshToken {
			return nil, ErrDuplicate
		}
	}

	m.sessions[session.SessionID] = session
	return session, nil
}

func (m *MemoryStore) GetSessionByID(sessionID string) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, ErrNotFound
	}
	return session, nil
}

func (m *MemoryStore) GetActiveSessionByToken(refreshToken string) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	for _, session := range m.sessions {
		if session.RefreshToken == refreshToken && session.IsActive {
			return session, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetActiveSessionsByUser(userID string) ([]*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	var sessions []*models.Session
	for _, session := range m.sessions {
		if session.UserID == userID && session.IsActive {
			sessions = append(sessions, session)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActiveAt.After(sessions[j].LastActiveAt)
	})
	return sessions, nil
}

func (m *MemoryStore) UpdateSession(session *models.Session) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if _, exists := m.sessions[session.SessionID]; !exists {
		return ErrNotFound
	}
	session.UpdatedAt = time.Now()
	m.sessions[session.SessionID] = session
	return nil
}

func (m *MemoryStore) RevokeSessionsByUser(userID string, exceptSessionID string) (int64, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	var count int64
	for _, session := range m.sessions {
		if session.UserID != userID || !session.IsActive {
			continue
		}
		if exceptSessionID != "" && session.SessionID == exceptSessionID {
			continue
		}
		session.IsActive = false
		session.UpdatedAt = time.Now()
		count++
	}
	return count, nil
}

func (m *MemoryStore) GetExpiredActiveSessions(now time.Time) ([]*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	var expired []*models.Session
	for _, session := range m.sessions {
		if session.IsActive && now.After(session.ExpiresAt) {
			expired = append(expired, session)
		}
	}
	return expired, nil
}

// paginate applies page/limit slicing; page and limit default to 1 and 10.
func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
