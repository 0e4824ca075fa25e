package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// GenerateSecureOTP generates a cryptographically secure 6-digit OTP
func GenerateSecureOTP() (string, error) {
	// Generate a random number between 0 and 999999
	max := big.NewInt(999999)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	// Add 1 to avoid 0 and format with leading zeros to ensure 6 digits
	otp := n.Int64() + 1
	return fmt.Sprintf("%06d", otp), nil
}

// HashOTP returns the hex-encoded SHA-256 digest of an OTP code. Only the
// hash is ever stored; the plaintext lives in the SMS alone.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// GenerateSecureID generates a secure random ID for entities
func GenerateSecureID(prefix string) string {
	// Generate a random 6-digit number
	max := big.NewInt(999999)
	n, _ := rand.Int(rand.Reader, max)

	// Use timestamp + random for uniqueness
	return fmt.Sprintf("%s%d%06d", prefix, time.Now().Unix(), n.Int64())
}

// GenerateBookingReference produces references like BK17214567891234
func GenerateBookingReference() string {
	max := big.NewInt(9000)
	n, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("BK%d%04d", time.Now().Unix(), n.Int64()+1000)
}
