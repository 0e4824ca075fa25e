package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bharatbus/bharatbus-backend/internal/cache"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// OTP errors
var (
	ErrInvalidPhone        = errors.New("invalid phone number format")
	ErrOTPNotFound         = errors.New("no OTP found for this phone number")
	ErrOTPExpired          = errors.New("OTP has expired")
	ErrOTPAttemptsExceeded = errors.New("maximum OTP attempts exceeded, please request a new OTP")
)

// InvalidCodeError reports a wrong code together with how many attempts the
// caller has left before the entry is purged.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("Invalid OTP. %d attempts remaining.", e.Remaining)
}

type otpRecord struct {
	Hash        string    `json:"hash"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"maxAttempts"`
}

// OTPConfig tunes the OTP lifecycle.
type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
	// EchoCode makes Issue return the plaintext code, for test environments
	// only. Must be false in production.
	EchoCode bool
}

// OTPService issues and verifies one-time codes. Codes are hashed before
// storage; the record lives in the injected cache keyed by phone number,
// last-write-wins.
type OTPService struct {
	store  cache.Store
	sms    *TwilioService
	config OTPConfig
}

// IssueResult is what Issue hands back to the HTTP layer.
type IssueResult struct {
	Phone     string
	ExpiresAt time.Time
	TestCode  string // plaintext code, only set when EchoCode is on
}

// NewOTPService creates an OTP service over the given cache. sms may be nil;
// delivery then falls back to logging.
func NewOTPService(store cache.Store, sms *TwilioService, config OTPConfig) *OTPService {
	return &OTPService{store: store, sms: sms, config: config}
}

func otpKey(phone string) string {
	return "otp:" + phone
}

// Issue validates the phone number, generates a fresh code and stores its
// hash with expiry and attempt bookkeeping, overwriting any prior entry.
func (s *OTPService) Issue(ctx context.Context, phone string) (*IssueResult, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.ValidatePhoneNumber(phone) {
		return nil, ErrInvalidPhone
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	record := otpRecord{
		Hash:        utils.HashOTP(code),
		ExpiresAt:   time.Now().Add(s.config.TTL),
		Attempts:    0,
		MaxAttempts: s.config.MaxAttempts,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OTP record: %w", err)
	}

	// The cache TTL runs past the logical expiry so a late verify can still
	// be answered with "expired" rather than "not found".
	if err := s.store.Put(ctx, otpKey(phone), data, s.config.TTL*2); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	s.deliver(phone, code)

	result := &IssueResult{Phone: phone, ExpiresAt: record.ExpiresAt}
	if s.config.EchoCode {
		result.TestCode = code
	}
	return result, nil
}

// Verify checks a submitted code against the stored entry. The entry is
// deleted on success, on expiry and on attempt exhaustion; a plain mismatch
// burns one attempt.
func (s *OTPService) Verify(ctx context.Context, phone, code string) error {
	phone = utils.NormalizePhone(phone)
	key := otpKey(phone)

	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to read OTP: %w", err)
	}

	var record otpRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to decode OTP record: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		_ = s.store.Delete(ctx, key)
		return ErrOTPExpired
	}

	if record.Attempts >= record.MaxAttempts {
		_ = s.store.Delete(ctx, key)
		return ErrOTPAttemptsExceeded
	}

	submitted := utils.HashOTP(code)
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(record.Hash)) == 1 {
		_ = s.store.Delete(ctx, key)
		return nil
	}

	record.Attempts++
	if record.Attempts >= record.MaxAttempts {
		_ = s.store.Delete(ctx, key)
		return ErrOTPAttemptsExceeded
	}

	updated, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode OTP record: %w", err)
	}
	ttl := time.Until(record.ExpiresAt) + s.config.TTL
	if err := s.store.Put(ctx, key, updated, ttl); err != nil {
		return fmt.Errorf("failed to update OTP record: %w", err)
	}

	return &InvalidCodeError{Remaining: record.MaxAttempts - record.Attempts}
}

// deliver sends the code over SMS, best-effort. A failed or unconfigured
// send never fails the issue operation.
func (s *OTPService) deliver(phone, code string) {
	message := fmt.Sprintf("Your BharatBus verification code is %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if s.sms == nil {
		log.Printf("📱 OTP for %s: (SMS not configured, code suppressed)", phone)
		return
	}
	if err := s.sms.SendSMS(phone, message); err != nil {
		log.Printf("❌ Failed to send OTP SMS to %s: %v", phone, err)
	}
}
