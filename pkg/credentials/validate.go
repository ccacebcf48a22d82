package credentials

import (
	"regexp"
	"strings"
	"unicode"
)

// emailPattern requires a local@domain.tld shape. It performs no DNS or
// mailbox verification.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SpecialChars is the set of characters that satisfy the special-character
// password requirement.
const SpecialChars = `!@#$%^&*()_+-=[]{};':"|,.<>/?`

// ValidEmail reports whether the address matches the accepted syntax,
// case-insensitively.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Strength itemizes password requirements so callers can render actionable
// feedback instead of a bare pass/fail.
type Strength struct {
	MinLength bool `json:"min_length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Digit     bool `json:"digit"`
	Special   bool `json:"special"`
}

// Valid reports whether every requirement passed.
func (s Strength) Valid() bool {
	return s.MinLength && s.Uppercase && s.Lowercase && s.Digit && s.Special
}

// CheckStrength evaluates each password requirement: length >= 8 plus at
// least one uppercase, lowercase, digit, and special character.
func CheckStrength(password string) Strength {
	s := Strength{MinLength: len(password) >= 8}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			s.Uppercase = true
		case unicode.IsLower(r):
			s.Lowercase = true
		case unicode.IsDigit(r):
			s.Digit = true
		case strings.ContainsRune(SpecialChars, r):
			s.Special = true
		}
	}
	return s
}
