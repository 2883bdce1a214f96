package models

// Instructor defines the instructor model based on the 'instructors' table.
// Every instructor authenticates with the Admin role.
type Instructor struct {
	Account
}
