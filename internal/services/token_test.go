package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatbus/bharatbus-backend/internal/models"
)

func newTokenServiceForTest(t *testing.T) *TokenService {
	t.Helper()
	return NewTokenService("test-access-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
}

func testUser() *models.User {
	return &models.User{
		UserID: "USR123456",
		Phone:  "+919876543210",
		Name:   "Test User",
		Role:   models.RoleUser,
		Status: models.UserStatusActive,
	}
}

func TestGeneratePairAndVerify(t *testing.T) {
	svc := newTokenServiceForTest(t)
	user := testUser()

	pair, err := svc.GeneratePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, access.UserID)
	assert.Equal(t, user.Phone, access.Phone)
	assert.Equal(t, models.RoleUser, access.Role)

	refresh, err := svc.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, refresh.UserID)
}

func TestTokensUniquePerIssue(t *testing.T) {
	svc := newTokenServiceForTest(t)
	user := testUser()

	// two pairs issued within the same second must still differ, otherwise
	// rotating a session would hand back the token it was meant to replace
	first, err := svc.GeneratePair(user)
	require.NoError(t, err)
	second, err := svc.GeneratePair(user)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}

func TestTokensUseSeparateSecrets(t *testing.T) {
	svc := newTokenServiceForTest(t)
	pair, err := svc.GeneratePair(testUser())
	require.NoError(t, err)

	// an access token must not pass refresh verification and vice versa
	_, err = svc.VerifyRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTokenServiceForTest(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "hello world"},
		{"tampered", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-access-secret", "test-refresh-secret", -time.Minute, -time.Minute)

	pair, err := svc.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.VerifyRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	svc := newTokenServiceForTest(t)
	other := NewTokenService("different-secret", "another-secret", time.Hour, time.Hour)

	pair, err := other.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
