package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		otp, err := GenerateSecureOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, ch := range otp {
			assert.True(t, ch >= '0' && ch <= '9')
		}
		seen[otp] = true
	}
	// 50 draws out of a million values should practically never all collide
	assert.Greater(t, len(seen), 1)
}

func TestHashOTP(t *testing.T) {
	h1 := HashOTP("123456")
	h2 := HashOTP("123456")
	h3 := HashOTP("654321")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex-encoded SHA-256
	assert.NotContains(t, h1, "123456")
}

func TestGenerateSecureID(t *testing.T) {
	id := GenerateSecureID("USR")
	assert.True(t, strings.HasPrefix(id, "USR"))
	assert.Greater(t, len(id), 10)

	other := GenerateSecureID("USR")
	assert.NotEqual(t, id, other)
}

func TestGenerateBookingReference(t *testing.T) {
	ref := GenerateBookingReference()
	assert.True(t, strings.HasPrefix(ref, "BK"))
	assert.NotEqual(t, ref, GenerateBookingReference())
}
