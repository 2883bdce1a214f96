// Package validation holds the field rules shared by account registration
package validation

import (
	"regexp"
	"unicode/utf8"
)

// Account field limits
const (
	NameMinLength     = 2
	NameMaxLength     = 100
	PasswordMinLength = 8
	PasswordMaxLength = 72 // bcrypt ignores anything longer
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// StringRule checks a single string field
type StringRule struct {
	value   string
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
}

// String starts a rule for value. Empty values never pass.
func String(value string) *StringRule {
	return &StringRule{value: value}
}

// Min sets the minimum length in runes
func (r *StringRule) Min(n int) *StringRule {
	r.minLen = n
	return r
}

// Max sets the maximum length in runes
func (r *StringRule) Max(n int) *StringRule {
	r.maxLen = n
	return r
}

// Matches requires the value to match pattern
func (r *StringRule) Matches(pattern *regexp.Regexp) *StringRule {
	r.pattern = pattern
	return r
}

// Valid reports whether the value satisfies every configured constraint
func (r *StringRule) Valid() bool {
	if r.value == "" {
		return false
	}
	n := utf8.RuneCountInString(r.value)
	if r.minLen > 0 && n < r.minLen {
		return false
	}
	if r.maxLen > 0 && n > r.maxLen {
		return false
	}
	if r.pattern != nil && !r.pattern.MatchString(r.value) {
		return false
	}
	return true
}

// ValidName reports whether name fits the account name limits
func ValidName(name string) bool {
	return String(name).Min(NameMinLength).Max(NameMaxLength).Valid()
}

// ValidEmail expects an already lower-cased address
func ValidEmail(email string) bool {
	return String(email).Max(254).Matches(emailPattern).Valid()
}

// ValidPassword reports whether a plaintext password fits the length limits
func ValidPassword(password string) bool {
	return String(password).Min(PasswordMinLength).Max(PasswordMaxLength).Valid()
}
