package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatbus/bharatbus-backend/internal/cache"
)

func newOTPServiceForTest(t *testing.T, ttl time.Duration, maxAttempts int) *OTPService {
	t.Helper()
	return NewOTPService(cache.NewMemoryStore(), nil, OTPConfig{
		TTL:         ttl,
		MaxAttempts: maxAttempts,
		EchoCode:    true,
	})
}

func TestOTPIssueAndVerify(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)
	ctx := context.Background()

	result, err := svc.Issue(ctx, "+919876543210")
	require.NoError(t, err)
	require.Len(t, result.TestCode, 6)
	assert.Equal(t, "+919876543210", result.Phone)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), result.ExpiresAt, 2*time.Second)

	require.NoError(t, svc.Verify(ctx, "+919876543210", result.TestCode))

	// single use, the second attempt finds nothing
	err = svc.Verify(ctx, "+919876543210", result.TestCode)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPIssueNormalizesPhone(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)
	ctx := context.Background()

	result, err := svc.Issue(ctx, "+91 98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", result.Phone)

	// verify with the unnormalized form still matches
	require.NoError(t, svc.Verify(ctx, "+91 98765 43210", result.TestCode))
}

func TestOTPIssueRejectsInvalidPhone(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)

	tests := []struct {
		name  string
		phone string
	}{
		{"too short", "12345"},
		{"letters", "abcdefghij"},
		{"leading zero", "0123456789"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Issue(context.Background(), tt.phone)
			assert.ErrorIs(t, err, ErrInvalidPhone)
		})
	}
}

func TestOTPVerifyWithoutIssue(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)

	err := svc.Verify(context.Background(), "+919876543210", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPVerifyWrongCodeCountsDown(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)
	ctx := context.Background()

	result, err := svc.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.TestCode {
		wrong = "000001"
	}

	var invalid *InvalidCodeError

	err = svc.Verify(ctx, "+919876543210", wrong)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Remaining)
	assert.Equal(t, "Invalid OTP. 2 attempts remaining.", err.Error())

	err = svc.Verify(ctx, "+919876543210", wrong)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Remaining)

	// third failure exhausts the entry
	err = svc.Verify(ctx, "+919876543210", wrong)
	assert.ErrorIs(t, err, ErrOTPAttemptsExceeded)

	// entry is gone, even the right code cannot land anymore
	err = svc.Verify(ctx, "+919876543210", result.TestCode)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPVerifyCorrectCodeAfterFailures(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)
	ctx := context.Background()

	result, err := svc.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.TestCode {
		wrong = "000001"
	}
	var invalid *InvalidCodeError
	require.ErrorAs(t, svc.Verify(ctx, "+919876543210", wrong), &invalid)

	// attempts persist across calls but a correct code still wins
	require.NoError(t, svc.Verify(ctx, "+919876543210", result.TestCode))
}

func TestOTPVerifyExpired(t *testing.T) {
	ctx := context.Background()
	svc := NewOTPService(cache.NewMemoryStore(), nil, OTPConfig{TTL: time.Millisecond, MaxAttempts: 3, EchoCode: true})

	result, err := svc.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	err = svc.Verify(ctx, "+919876543210", result.TestCode)
	if !errors.Is(err, ErrOTPExpired) && !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected expired or not found, got %v", err)
	}
}

func TestOTPReissueReplacesEntry(t *testing.T) {
	svc := newOTPServiceForTest(t, 2*time.Minute, 3)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "+919876543210")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	if first.TestCode != second.TestCode {
		var invalid *InvalidCodeError
		err = svc.Verify(ctx, "+919876543210", first.TestCode)
		require.ErrorAs(t, err, &invalid)
	}
	require.NoError(t, svc.Verify(ctx, "+919876543210", second.TestCode))
}
