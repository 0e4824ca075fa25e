package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+91 98765 43210", "+919876543210"},
		{"+91-98765-43210", "+919876543210"},
		{"(+91) 9876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in))
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"indian with plus", "+919876543210", true},
		{"bare ten digits", "9876543210", true},
		{"spaced", "+91 98765 43210", true},
		{"too short", "12345", false},
		{"leading zero", "0987654321", false},
		{"letters", "98765abcde", false},
		{"empty", "", false},
		{"too long", "+1234567890123456", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidatePhoneNumber(tt.phone))
		})
	}
}
