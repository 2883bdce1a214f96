package models

import "time"

// PasswordResetToken is a single-use credential mailed to an account owner.
// Only the digest of the token is persisted.
type PasswordResetToken struct {
	ID        int64
	Role      RoleType
	AccountID int64
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Usable reports whether the token can still reset a password at now
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
