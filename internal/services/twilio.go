package services

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioService sends SMS via Twilio. When credentials are missing it runs
// in stub mode: messages are logged and reported as sent, so notification
// failures can never break the primary flow.
type TwilioService struct {
	client  *twilio.RestClient
	from    string
	enabled bool
}

// NewTwilioService creates a Twilio service instance. Missing credentials
// produce a stub, not an error.
func NewTwilioService(accountSID, authToken, from string) *TwilioService {
	if accountSID == "" || authToken == "" || from == "" {
		log.Println("⚠️  Twilio credentials not found - SMS delivery runs in stub mode")
		return &TwilioService{enabled: false}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioService{
		client:  client,
		from:    from,
		enabled: true,
	}
}

// Enabled reports whether real delivery is configured.
func (t *TwilioService) Enabled() bool {
	return t.enabled
}

// SendSMS sends a text message via Twilio, or logs it in stub mode.
func (t *TwilioService) SendSMS(to string, body string) error {
	if !t.enabled {
		log.Printf("📨 SMS (stub) to %s: %s", to, body)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS: %v", err)
		return fmt.Errorf("twilio send failed: %w", err)
	}

	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return nil
}
