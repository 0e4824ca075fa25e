package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// Notification channels
const (
	ChannelSMS   = "SMS"
	ChannelEmail = "EMAIL"
	ChannelPush  = "PUSH"
	ChannelInApp = "IN_APP"
)

// Notification priorities
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// ValidNotificationTypes lists the accepted notification type values.
var ValidNotificationTypes = []string{
	"BOOKING_CONFIRMED",
	"BOOKING_CANCELLED",
	"PAYMENT_SUCCESS",
	"PAYMENT_FAILED",
	"SEAT_AVAILABILITY",
	"JOURNEY_REMINDER",
	"BOARDING_INFO",
	"ARRIVAL_INFO",
	"SYSTEM_MESSAGE",
	"PROMOTIONAL",
	"LOGIN_ATTEMPT",
	"SECURITY_ALERT",
}

var validChannels = map[string]bool{
	ChannelSMS:   true,
	ChannelEmail: true,
	ChannelPush:  true,
	ChannelInApp: true,
}

// IsValidNotificationType reports whether t is an accepted type.
func IsValidNotificationType(t string) bool {
	for _, v := range ValidNotificationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidChannel reports whether ch is an accepted delivery channel.
func IsValidChannel(ch string) bool {
	return validChannels[ch]
}

// Recipient is the contact snapshot taken at send time.
type Recipient struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Notification is one message addressed to a user. Delivery is best-effort;
// the record is the source of truth for the in-app inbox.
type Notification struct {
	gorm.Model

	NotificationID string                 `json:"notification_id" gorm:"uniqueIndex"`
	UserID         string                 `json:"userId" gorm:"index"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Type           string                 `json:"type" gorm:"index"`
	Priority       string                 `json:"priority" gorm:"default:MEDIUM"`
	Channel        string                 `json:"channel"`
	Recipient      Recipient              `json:"recipient" gorm:"embedded;embeddedPrefix:recipient_"`
	Payload        map[string]interface{} `json:"payload" gorm:"serializer:json"`
	Read           bool                   `json:"read" gorm:"index"`
	Sent           bool                   `json:"sent"`
	ScheduledAt    time.Time              `json:"scheduledAt"`
	SentAt         *time.Time             `json:"sentAt"`
	ExpiresAt      *time.Time             `json:"expiresAt"`
}

// BeforeCreate hook to auto-generate NotificationID and defaults
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = utils.GenerateSecureID("NTF")
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if n.ScheduledAt.IsZero() {
		n.ScheduledAt = time.Now()
	}
	return nil
}
