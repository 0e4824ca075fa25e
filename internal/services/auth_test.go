package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
)

func newAuthServiceForTest(t *testing.T) (*AuthService, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	tokens := NewTokenService("test-access-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	return NewAuthService(store, tokens), store
}

var testDevice = models.DeviceInfo{
	DeviceType: "mobile",
	OS:         "android",
	Browser:    "chrome",
}

func TestLoginCreatesUserOnFirstContact(t *testing.T) {
	auth, store := newAuthServiceForTest(t)

	result, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.User.UserID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.SessionID)

	session, err := store.GetSessionByID(result.SessionID)
	require.NoError(t, err)
	assert.True(t, session.IsActive)
	assert.Equal(t, "10.0.0.1", session.IP)
	assert.Equal(t, "mobile", session.Device.DeviceType)

	// second login reuses the user but opens a fresh session
	again, err := auth.Login("+919876543210", testDevice, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, again.IsNewUser)
	assert.Equal(t, result.User.UserID, again.User.UserID)
	assert.NotEqual(t, result.SessionID, again.SessionID)

	sessions, err := auth.ActiveSessions(result.User.UserID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestRefreshRotatesToken(t *testing.T) {
	auth, store := newAuthServiceForTest(t)

	login, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)

	pair, err := auth.Refresh(login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)

	// old token is rotated out and dead
	_, err = auth.Refresh(login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// the new one works and the session count did not grow
	_, err = auth.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	sessions, err := store.GetActiveSessionsByUser(login.User.UserID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestRefreshRejectsRevokedSession(t *testing.T) {
	auth, _ := newAuthServiceForTest(t)

	login, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, auth.RevokeByToken(login.Tokens.RefreshToken))

	_, err = auth.Refresh(login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	auth, store := newAuthServiceForTest(t)

	login, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)

	session, err := store.GetSessionByID(login.SessionID)
	require.NoError(t, err)
	session.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.UpdateSession(session))

	_, err = auth.Refresh(login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// the expired session was flipped inactive
	session, err = store.GetSessionByID(login.SessionID)
	require.NoError(t, err)
	assert.False(t, session.IsActive)
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	auth, store := newAuthServiceForTest(t)

	login, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)

	user, err := store.GetUserByUserID(login.User.UserID)
	require.NoError(t, err)
	user.Status = models.UserStatusSuspended
	require.NoError(t, store.UpdateUser(user))

	_, err = auth.Refresh(login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRevokeSessionScopedToOwner(t *testing.T) {
	auth, _ := newAuthServiceForTest(t)

	alice, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)
	bob, err := auth.Login("+919812345678", testDevice, "10.0.0.2")
	require.NoError(t, err)

	// bob cannot revoke alice's session
	err = auth.RevokeSession(bob.User.UserID, alice.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, auth.RevokeSession(alice.User.UserID, alice.SessionID))

	// already revoked
	err = auth.RevokeSession(alice.User.UserID, alice.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRevokeOthersKeepsCurrentSession(t *testing.T) {
	auth, _ := newAuthServiceForTest(t)

	first, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)
	_, err = auth.Login("+919876543210", testDevice, "10.0.0.2")
	require.NoError(t, err)
	_, err = auth.Login("+919876543210", testDevice, "10.0.0.3")
	require.NoError(t, err)

	count, err := auth.RevokeOthers(first.User.UserID, first.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	sessions, err := auth.ActiveSessions(first.User.UserID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, first.SessionID, sessions[0].SessionID)
}

func TestRevokeAll(t *testing.T) {
	auth, _ := newAuthServiceForTest(t)

	login, err := auth.Login("+919876543210", testDevice, "10.0.0.1")
	require.NoError(t, err)
	_, err = auth.Login("+919876543210", testDevice, "10.0.0.2")
	require.NoError(t, err)

	count, err := auth.RevokeAll(login.User.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	sessions, err := auth.ActiveSessions(login.User.UserID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
