package models

// RoleType defines the role carried by an access token
type RoleType string

const (
	RoleAdmin   RoleType = "Admin"   // Instructors
	RoleStudent RoleType = "Student" // Students
)

// IsValid reports whether the role is one of the known roles
func (r RoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}
