package models

import (
	"net"
	"strings"
)

// MaxFieldLength caps captured usernames and passwords before storage.
const MaxFieldLength = 255

// SanitizeUsername trims surrounding whitespace and caps the length.
// Applied before a CredentialAttempt is constructed, never after.
func SanitizeUsername(username string) string {
	return Truncate(strings.TrimSpace(username), MaxFieldLength)
}

// SanitizePassword caps the length. Whitespace is preserved: it is part of
// what the attacker typed.
func SanitizePassword(password string) string {
	return Truncate(password, MaxFieldLength)
}

// Truncate caps a string at max characters without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// IsValidIP reports whether s parses as an IPv4 or IPv6 address.
func IsValidIP(s string) bool {
	return net.ParseIP(s) != nil
}
