package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// Session/refresh errors
var (
	ErrSessionNotFound = errors.New("refresh token is invalid or has been revoked")
	ErrSessionExpired  = errors.New("session has expired")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserInactive    = errors.New("user account is not active")
)

// AuthService owns the login / refresh / revoke flow. One Session row per
// login; refresh rotates the token in place; revocation flips the active
// flag and never deletes.
type AuthService struct {
	store  storage.Store
	tokens *TokenService
}

// LoginResult carries everything verify-otp returns to the client.
type LoginResult struct {
	User      *models.User
	Tokens    *TokenPair
	IsNewUser bool
	SessionID string
}

// NewAuthService creates an auth service over the given store.
func NewAuthService(store storage.Store, tokens *TokenService) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Login resolves or creates the user for a verified phone number, signs a
// token pair and persists the session binding the refresh token to the
// device.
func (s *AuthService) Login(phone string, device models.DeviceInfo, ip string) (*LoginResult, error) {
	phone = utils.NormalizePhone(phone)

	user, err := s.store.GetUserByPhone(phone)
	isNew := false
	if errors.Is(err, storage.ErrNotFound) {
		user, err = s.store.CreateUser(&models.User{
			Phone: phone,
			Name:  fmt.Sprintf("User-%d", time.Now().Unix()),
			Role:  models.RoleUser,
		})
		isNew = true
	}
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.Session{
		SessionID:    uuid.NewString(),
		UserID:       user.UserID,
		RefreshToken: pair.RefreshToken,
		Device:       device,
		IP:           ip,
		IsActive:     true,
		LastActiveAt: now,
		ExpiresAt:    now.Add(s.tokens.RefreshTTL()),
	}
	if _, err := s.store.CreateSession(session); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: pair, IsNewUser: isNew, SessionID: session.SessionID}, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the stored
// token. A token that no longer matches an active session (already rotated,
// revoked, or never issued) yields ErrSessionNotFound.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	session, err := s.store.GetActiveSessionByToken(refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.IsExpired() {
		session.IsActive = false
		_ = s.store.UpdateSession(session)
		return nil, ErrSessionExpired
	}

	user, err := s.store.GetUserByUserID(session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.RefreshToken = pair.RefreshToken
	session.ExpiresAt = now.Add(s.tokens.RefreshTTL())
	session.LastActiveAt = now
	if err := s.store.UpdateSession(session); err != nil {
		return nil, err
	}

	return pair, nil
}

// RevokeByToken deactivates the session bound to a refresh token (logout).
func (s *AuthService) RevokeByToken(refreshToken string) error {
	session, err := s.store.GetActiveSessionByToken(refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	session.IsActive = false
	return s.store.UpdateSession(session)
}

// RevokeSession deactivates one session, scoped to its owner.
func (s *AuthService) RevokeSession(userID, sessionID string) error {
	session, err := s.store.GetSessionByID(sessionID)
	if err != nil || session.UserID != userID || !session.IsActive {
		return ErrSessionNotFound
	}
	session.IsActive = false
	return s.store.UpdateSession(session)
}

// RevokeOthers deactivates every active session of the user except the one
// holding currentRefreshToken. With an empty token it behaves like
// RevokeAll.
func (s *AuthService) RevokeOthers(userID, currentRefreshToken string) (int64, error) {
	keep := ""
	if currentRefreshToken != "" {
		if session, err := s.store.GetActiveSessionByToken(currentRefreshToken); err == nil && session.UserID == userID {
			keep = session.SessionID
		}
	}
	return s.store.RevokeSessionsByUser(userID, keep)
}

// RevokeAll deactivates every active session of the user.
func (s *AuthService) RevokeAll(userID string) (int64, error) {
	return s.store.RevokeSessionsByUser(userID, "")
}

// ActiveSessions lists the user's active sessions, most recent first.
func (s *AuthService) ActiveSessions(userID string) ([]*models.Session, error) {
	return s.store.GetActiveSessionsByUser(userID)
}
