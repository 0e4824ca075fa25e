package models

import (
	"time"

	"gorm.io/gorm"
)

// DeviceInfo is the client metadata captured at login, taken from request
// headers.
type DeviceInfo struct {
	DeviceID    string `json:"deviceId"`
	DeviceType  string `json:"deviceType"`
	DeviceModel string `json:"deviceModel"`
	OS          string `json:"os"`
	Browser     string `json:"browser"`
	UserAgent   string `json:"userAgent"`
}

// Session is one logged-in device. A new login always creates a new row; the
// refresh token is rotated in place on renewal and the row is flagged
// inactive on revoke or expiry, never deleted (audit trail).
type Session struct {
	gorm.Model

	SessionID    string     `json:"session_id" gorm:"uniqueIndex"`
	UserID       string     `json:"userId" gorm:"index"`
	RefreshToken string     `json:"-" gorm:"uniqueIndex"`
	Device       DeviceInfo `json:"deviceInfo" gorm:"embedded;embeddedPrefix:device_"`
	IP           string     `json:"ip"`
	IsActive     bool       `json:"isActive" gorm:"index;default:true"`
	LastActiveAt time.Time  `json:"lastActiveAt"`
	ExpiresAt    time.Time  `json:"expiresAt" gorm:"index"`
}

// IsExpired reports whether the session passed its hard expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
