package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/dojo/internal/pkg/apperrors"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeAccountDisabled    ErrorCode = "AUTH_004"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeTokenNotFound      ErrorCode = "AUTH_007" // password reset token unknown, used or expired
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeBadRequest       ErrorCode = "VAL_002"
	ErrorCodeInvalidScore     ErrorCode = "VAL_003"

	// Graduation errors
	ErrorCodePlanRequired             ErrorCode = "GRD_001"
	ErrorCodePaymentRequired          ErrorCode = "GRD_002"
	ErrorCodeAlreadyEnrolledElsewhere ErrorCode = "GRD_003"
	ErrorCodeAlreadyEnrolled          ErrorCode = "GRD_004"
	ErrorCodeNotEnrolled              ErrorCode = "GRD_005"
	ErrorCodeNoSlotsAvailable         ErrorCode = "GRD_006"
	ErrorCodeScopeNotPermitted        ErrorCode = "GRD_007"
	ErrorCodeBeltMismatch             ErrorCode = "GRD_008"
	ErrorCodeAlreadyEvaluated         ErrorCode = "GRD_009"

	// Server errors
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeDatabaseError        ErrorCode = "SRV_002"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels. Client errors are warnings, server errors are errors.
const (
	ErrorSeverityWarning ErrorSeverity = "WARNING"
	ErrorSeverityError   ErrorSeverity = "ERROR"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"GRD_006"`
	Message  string        `json:"message" example:"no slots available for this graduation"`
	Severity ErrorSeverity `json:"severity" example:"WARNING"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail with warning severity
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityWarning,
	}
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// HandleValidationError converts binding and domain validation errors into an error detail
// listing every invalid field
func HandleValidationError(err error) *ErrorDetail {
	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]apperrors.FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return detail.WithDetails(fields)
	}

	var domainErr *apperrors.ValidationError
	if errors.As(err, &domainErr) {
		return detail.WithDetails(domainErr.Fields)
	}

	detail.Message = err.Error()
	return detail
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
