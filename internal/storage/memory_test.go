package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatbus/bharatbus-backend/internal/models"
)

func TestMemoryStoreUserLifecycle(t *testing.T) {
	store := NewMemoryStore()

	user, err := store.CreateUser(&models.User{Phone: "+91 98765 43210", Name: "Asha"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "+919876543210", user.Phone) // normalized by the create hook
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)

	byPhone, err := store.GetUserByPhone("+919876543210")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, byPhone.UserID)

	_, err = store.GetUserByUserID("USR000")
	assert.ErrorIs(t, err, ErrNotFound)

	user.Name = "Asha Verma"
	require.NoError(t, store.UpdateUser(user))
	updated, err := store.GetUserByUserID(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", updated.Name)
}

func TestMemoryStoreBusNumberLookupNormalized(t *testing.T) {
	store := NewMemoryStore()

	bus, err := store.CreateBus(&models.Bus{BusNumber: "ka 01 ab 1234", Type: models.BusTypeAC, Capacity: 8, AgentID: "USR1"})
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", bus.BusNumber)
	assert.Len(t, bus.SeatLayout, 8)

	found, err := store.GetBusByNumber("KA 01 AB 1234")
	require.NoError(t, err)
	assert.Equal(t, bus.BusID, found.BusID)

	require.NoError(t, store.DeleteBus(bus.BusID))
	assert.ErrorIs(t, store.DeleteBus(bus.BusID), ErrNotFound)
}

func TestMemoryStoreBusPagination(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 15; i++ {
		_, err := store.CreateBus(&models.Bus{
			BusNumber: "KA" + string(rune('A'+i)) + "123",
			Type:      models.BusTypeAC,
			Capacity:  4,
			AgentID:   "USR1",
		})
		require.NoError(t, err)
	}

	buses, total, err := store.GetBuses(&models.BusFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, buses, 10)

	buses, total, err = store.GetBuses(&models.BusFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, buses, 5)

	buses, _, err = store.GetBuses(&models.BusFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, buses)
}

func TestMemoryStoreRouteFindCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateRoute(&models.Route{Source: "Mumbai", Destination: "Pune", Distance: 150})
	require.NoError(t, err)

	route, err := store.FindRoute("mumbai", "PUNE")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", route.Source)

	_, err = store.FindRoute("Pune", "Mumbai")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotificationInbox(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		_, err := store.CreateNotification(&models.Notification{
			UserID:  "USR1",
			Title:   "Test",
			Message: "hello",
			Type:    "SYSTEM_MESSAGE",
			Channel: models.ChannelInApp,
		})
		require.NoError(t, err)
	}
	_, err := store.CreateNotification(&models.Notification{
		UserID:  "USR2",
		Title:   "Other",
		Message: "hi",
		Type:    "SYSTEM_MESSAGE",
		Channel: models.ChannelInApp,
	})
	require.NoError(t, err)

	count, err := store.CountUnreadNotifications("USR1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	marked, err := store.MarkAllNotificationsRead("USR1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)

	count, err = store.CountUnreadNotifications("USR1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// the other user's inbox is untouched
	count, err = store.CountUnreadNotifications("USR2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	notifications, total, err := store.GetNotificationsByUser("USR1", false, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.NotEmpty(t, notifications)

	require.NoError(t, store.DeleteNotification(notifications[0].NotificationID))
	assert.ErrorIs(t, store.DeleteNotification(notifications[0].NotificationID), ErrNotFound)
}

func TestMemoryStoreSessionRevocation(t *testing.T) {
	store := NewMemoryStore()

	mk := func(id, token string) *models.Session {
		s := &models.Session{
			SessionID:    id,
			UserID:       "USR1",
			RefreshToken: token,
			IsActive:     true,
			LastActiveAt: time.Now(),
			ExpiresAt:    time.Now().Add(time.Hour),
		}
		_, err := store.CreateSession(s)
		require.NoError(t, err)
		return s
	}
	mk("s1", "t1")
	mk("s2", "t2")
	mk("s3", "t3")

	session, err := store.GetActiveSessionByToken("t2")
	require.NoError(t, err)
	assert.Equal(t, "s2", session.SessionID)

	count, err := store.RevokeSessionsByUser("USR1", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = store.GetActiveSessionByToken("t2")
	assert.ErrorIs(t, err, ErrNotFound)

	active, err := store.GetActiveSessionsByUser("USR1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "s1", active[0].SessionID)
}

func TestMemoryStoreRejectsDuplicateRefreshToken(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateSession(&models.Session{
		SessionID: "s1", UserID: "USR1", RefreshToken: "t1",
		IsActive: true, ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// the refresh token is unique across sessions, matching the schema
	_, err = store.CreateSession(&models.Session{
		SessionID: "s2", UserID: "USR2", RefreshToken: "t1",
		IsActive: true, ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.CreateSession(&models.Session{
		SessionID: "s3", UserID: "USR2", RefreshToken: "t2",
		IsActive: true, ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestMemoryStoreExpiredSessions(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateSession(&models.Session{
		SessionID: "dead", UserID: "USR1", RefreshToken: "t1",
		IsActive: true, ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	_, err = store.CreateSession(&models.Session{
		SessionID: "alive", UserID: "USR1", RefreshToken: "t2",
		IsActive: true, ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	expired, err := store.GetExpiredActiveSessions(time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "dead", expired[0].SessionID)
}
