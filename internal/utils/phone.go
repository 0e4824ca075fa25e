package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// NormalizePhone strips spaces, dashes and parentheses from a phone number.
func NormalizePhone(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(phone)
}

// ValidatePhoneNumber checks that a phone number looks like an E.164-ish
// mobile number (10-15 digits, optional leading +, no leading zero).
func ValidatePhoneNumber(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}
