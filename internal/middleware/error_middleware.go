package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/logger"
)

// errorRule maps an error kind to a status and code. Rules are matched in order.
type errorRule struct {
	target error
	status int
	code   dto.ErrorCode
}

var errorRules = []errorRule{
	{apperrors.ErrInvalidScore, http.StatusBadRequest, dto.ErrorCodeInvalidScore},
	{apperrors.ErrScopeNotPermitted, http.StatusForbidden, dto.ErrorCodeScopeNotPermitted},
	{apperrors.ErrPlanRequired, http.StatusPaymentRequired, dto.ErrorCodePlanRequired},
	{apperrors.ErrPaymentRequired, http.StatusPaymentRequired, dto.ErrorCodePaymentRequired},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},

	{apperrors.ErrAlreadyEnrolledElsewhere, http.StatusConflict, dto.ErrorCodeAlreadyEnrolledElsewhere},
	{apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeAlreadyEnrolled},
	{apperrors.ErrNotEnrolled, http.StatusConflict, dto.ErrorCodeNotEnrolled},
	{apperrors.ErrNoSlotsAvailable, http.StatusConflict, dto.ErrorCodeNoSlotsAvailable},
	{apperrors.ErrAlreadyEvaluated, http.StatusConflict, dto.ErrorCodeAlreadyEvaluated},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrPlanAlreadyActive, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrNoActivePlan, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrFeeAlreadyPaid, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict},

	{apperrors.ErrResetTokenInvalid, http.StatusBadRequest, dto.ErrorCodeTokenNotFound},
	{apperrors.ErrStudentLimitReached, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrStudentAlreadyAssigned, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrStudentNotAssigned, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrEmailDelivery, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var domainValidation *apperrors.ValidationError
	if errors.As(err, &validationErrs) || errors.As(err, &domainValidation) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var mismatch *apperrors.BeltMismatchError
	if errors.As(err, &mismatch) {
		detail := dto.NewErrorDetail(dto.ErrorCodeBeltMismatch, err.Error()).WithDetails(gin.H{
			"currentBelt":  mismatch.Current,
			"expectedBelt": mismatch.Expected,
			"level":        mismatch.Level,
		})
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(detail))
		return
	}
	if errors.Is(err, apperrors.ErrBeltMismatch) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeBeltMismatch, err.Error())))
		return
	}

	if errors.Is(err, apperrors.ErrValidationFailed) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			detail := dto.NewErrorDetail(rule.code, err.Error())
			if rule.status >= http.StatusInternalServerError {
				logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Upstream API error")
				detail.WithSeverity(dto.ErrorSeverityError)
			}
			c.JSON(rule.status, dto.NewErrorResponse(detail))
			return
		}
	}

	code := dto.ErrorCodeInternalServer
	if errors.Is(err, apperrors.ErrStorage) {
		code = dto.ErrorCodeDatabaseError
	}
	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	detail := dto.NewErrorDetail(code, "Internal server error").WithSeverity(dto.ErrorSeverityError)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}
