package models

import (
	"time"
)

// Account holds the fields shared by students and instructors
type Account struct {
	ID           int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier
	Name         string    `json:"name" db:"name" example:"Daniel LaRusso"`                  // Full name
	Email        string    `json:"email" db:"email" example:"daniel@dojo.pt"`                // Login email, unique per table
	PasswordHash string    `json:"-" db:"password_hash"`                                     // bcrypt hash (excluded from JSON)
	Active       bool      `json:"active" db:"active" example:"true"`                        // Whether the account may log in
	CreatedAt    time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the account was created
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the account was last updated
}
