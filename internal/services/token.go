package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bharatbus/bharatbus-backend/internal/models"
)

// ErrTokenInvalid is returned for any signature, format or expiry failure.
var ErrTokenInvalid = errors.New("invalid or expired token")

// AccessClaims travel inside access tokens. Verification is stateless: a
// revoked session does not invalidate access tokens already issued; they
// ride out their short TTL.
type AccessClaims struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims travel inside refresh tokens.
type RefreshClaims struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

// TokenPair is an access/refresh pair as returned to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService signs and verifies JWTs. Access and refresh tokens use
// independent secrets and expiries.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a token service from the configured secrets.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the refresh expiry for session bookkeeping.
func (t *TokenService) RefreshTTL() time.Duration {
	return t.refreshTTL
}

// GenerateAccessToken signs a short-lived token carrying userId/phone/role.
func (t *TokenService) GenerateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID: user.UserID,
		Phone:  user.Phone,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.accessSecret)
}

// GenerateRefreshToken signs a longer-lived token carrying userId/phone.
// The jti claim makes every issued token unique; iat/exp alone have second
// granularity, and rotation depends on the new token differing from the old.
func (t *TokenService) GenerateRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &RefreshClaims{
		UserID: user.UserID,
		Phone:  user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.refreshSecret)
}

// GeneratePair signs a fresh access/refresh pair for a user.
func (t *TokenService) GeneratePair(user *models.User) (*TokenPair, error) {
	access, err := t.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := t.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken checks signature and expiry and returns the claims.
func (t *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := t.verify(tokenString, claims, t.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks signature and expiry and returns the claims.
func (t *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := t.verify(tokenString, claims, t.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *TokenService) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
