package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Storage errors
	ErrStorage = errors.New("storage error")
)

// Entity not found errors. Each one wraps ErrResourceNotFound.
var (
	ErrGraduationNotFound = fmt.Errorf("graduation %w", ErrResourceNotFound)
	ErrStudentNotFound    = fmt.Errorf("student %w", ErrResourceNotFound)
	ErrInstructorNotFound = fmt.Errorf("instructor %w", ErrResourceNotFound)
	ErrPlanNotFound       = fmt.Errorf("monthly plan %w", ErrResourceNotFound)
	ErrMonthlyFeeNotFound = fmt.Errorf("monthly fee %w", ErrResourceNotFound)
)

// Graduation errors
var (
	ErrInvalidScore             = errors.New("score must be between 0 and 100")
	ErrPlanRequired             = errors.New("an active monthly plan is required to enroll")
	ErrPaymentRequired          = errors.New("student has an outstanding late monthly fee")
	ErrAlreadyEnrolledElsewhere = errors.New("student is already enrolled in another graduation")
	ErrAlreadyEnrolled          = errors.New("student is already enrolled in this graduation")
	ErrNotEnrolled              = errors.New("student is not enrolled in this graduation")
	ErrNoSlotsAvailable         = errors.New("no slots available for this graduation")
	ErrScopeNotPermitted        = errors.New("graduation scope is not permitted by the student's plan")
	ErrBeltMismatch             = errors.New("graduation level does not match the student's next belt")
	ErrAlreadyEvaluated         = errors.New("student has already been evaluated in this graduation")
)

// Student errors
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPlanAlreadyActive  = errors.New("student already has an active plan")
	ErrNoActivePlan       = errors.New("student has no active plan")
)

// Monthly fee errors
var (
	ErrFeeAlreadyPaid = errors.New("monthly fee is already paid")
)

// Instructor roster errors
var (
	ErrStudentLimitReached    = errors.New("instructor already has the maximum number of students")
	ErrStudentAlreadyAssigned = errors.New("student is already assigned to this instructor")
	ErrStudentNotAssigned     = errors.New("student is not assigned to this instructor")
)

// Password reset errors
var (
	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
	ErrEmailDelivery     = errors.New("email delivery failed")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// BeltMismatchError is returned when a student tries to enroll in a graduation
// whose level is not the belt directly above the current one.
type BeltMismatchError struct {
	Current  string
	Expected string // empty when the student already holds the highest belt
	Level    string
}

func (e *BeltMismatchError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("student already holds the %s belt, no further graduation is possible", e.Current)
	}
	return fmt.Sprintf("student with a %s belt can only enroll in a %s graduation, not %s", e.Current, e.Expected, e.Level)
}

// Unwrap lets errors.Is match ErrBeltMismatch
func (e *BeltMismatchError) Unwrap() error {
	return ErrBeltMismatch
}

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the list of invalid fields
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed so callers can return it directly
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap lets errors.Is match ErrValidationFailed
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
