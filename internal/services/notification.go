package services

import (
	"log"
	"time"

	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
)

// NotificationService creates notification records and attempts immediate
// best-effort delivery. Booking flows call Notify and ignore the error:
// a failed notification must never fail the booking.
type NotificationService struct {
	store storage.Store
	sms   *TwilioService
}

// NewNotificationService creates a notification service.
func NewNotificationService(store storage.Store, sms *TwilioService) *NotificationService {
	return &NotificationService{store: store, sms: sms}
}

// Notify persists a notification for the user and dispatches it.
func (s *NotificationService) Notify(userID, title, message, notifType, channel, priority string, payload map[string]interface{}) (*models.Notification, error) {
	user, err := s.store.GetUserByUserID(userID)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     notifType,
		Channel:  channel,
		Priority: priority,
		Recipient: models.Recipient{
			Phone: user.Phone,
			Email: user.Email,
		},
		Payload: payload,
	}
	if _, err := s.store.CreateNotification(notification); err != nil {
		return nil, err
	}

	s.Dispatch(notification)
	return notification, nil
}

// Dispatch delivers a pending notification and marks it sent. SMS goes
// through Twilio (stub-logged when unconfigured); other channels only have
// the in-app record, which counts as delivered.
func (s *NotificationService) Dispatch(notification *models.Notification) {
	if notification.Channel == models.ChannelSMS && notification.Recipient.Phone != "" {
		if err := s.sms.SendSMS(notification.Recipient.Phone, notification.Message); err != nil {
			log.Printf("❌ Notification %s SMS delivery failed: %v", notification.NotificationID, err)
			return
		}
	}

	now := time.Now()
	notification.Sent = true
	notification.SentAt = &now
	if err := s.store.UpdateNotification(notification); err != nil {
		log.Printf("❌ Failed to mark notification %s sent: %v", notification.NotificationID, err)
	}
}
