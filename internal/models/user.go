package models

import (
	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// User roles
const (
	RoleUser  = "USER"
	RoleAgent = "AGENT"
	RoleAdmin = "ADMIN"
)

// User statuses
const (
	UserStatusActive    = "ACTIVE"
	UserStatusInactive  = "INACTIVE"
	UserStatusSuspended = "SUSPENDED"
)

// User is the platform identity, keyed by phone number. Created on first
// successful OTP verification.
type User struct {
	gorm.Model

	UserID string `json:"user_id" gorm:"uniqueIndex"`
	Phone  string `json:"phone" gorm:"uniqueIndex"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role" gorm:"default:USER"`
	Status string `json:"status" gorm:"default:ACTIVE"`
}

// BeforeCreate hook to auto-generate UserID and normalize the phone number
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = utils.GenerateSecureID("USR")
	}
	u.Phone = utils.NormalizePhone(u.Phone)
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// IsActive reports whether the account may log in or refresh tokens.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
