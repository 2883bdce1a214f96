package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAccounts struct {
	instructor func(ctx context.Context, userID int64) error
	standing   func(ctx context.Context, studentID int64) error
}

func (f fakeAccounts) ValidateInstructor(ctx context.Context, userID int64) error {
	if f.instructor == nil {
		return nil
	}
	return f.instructor(ctx, userID)
}

func (f fakeAccounts) ValidateStudentStanding(ctx context.Context, studentID int64) error {
	if f.standing == nil {
		return nil
	}
	return f.standing(ctx, studentID)
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "middleware-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "dojo-test",
	})
}

func newTestRouter(t *testing.T, accounts AccountChecker) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := newTestJWT()
	m := NewAuthMiddleware(jwtService, accounts)

	r := gin.New()
	protected := r.Group("/", m.JWTAuth())
	protected.GET("/me", func(c *gin.Context) {
		id, _ := GetUserID(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	protected.GET("/admin", m.RoleRequired(models.RoleAdmin), m.ActiveInstructor(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	protected.POST("/enroll", m.RoleRequired(models.RoleStudent), m.NotSuspended(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwtService
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func bearer(t *testing.T, svc *auth.JWTService, id int64, role models.RoleType) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(id, fmt.Sprintf("user%d@dojo.pt", id), role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestJWTAuth(t *testing.T) {
	r, jwtService := newTestRouter(t, fakeAccounts{})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, w).Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, other, 3, models.RoleStudent))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
	})

	t.Run("valid token sets the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, jwtService, 3, models.RoleStudent))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"role":"Student"}`, w.Body.String())
	})

	t.Run("token from query parameter", func(t *testing.T) {
		token, _, err := jwtService.GenerateAccessToken(4, "x@dojo.pt", models.RoleAdmin)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleRequired(t *testing.T) {
	r, jwtService := newTestRouter(t, fakeAccounts{})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, 3, models.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, 1, models.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestActiveInstructor(t *testing.T) {
	accounts := fakeAccounts{instructor: func(_ context.Context, id int64) error {
		if id == 2 {
			return apperrors.ErrAccountDisabled
		}
		return nil
	}}
	r, jwtService := newTestRouter(t, accounts)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, 2, models.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeAccountDisabled, decodeError(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, 1, models.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNotSuspended(t *testing.T) {
	suspended := map[int64]bool{5: true}
	var checked []int64
	accounts := fakeAccounts{standing: func(_ context.Context, id int64) error {
		checked = append(checked, id)
		if suspended[id] {
			return apperrors.ErrPaymentRequired
		}
		return nil
	}}
	r, jwtService := newTestRouter(t, accounts)

	req := httptest.NewRequest(http.MethodPost, "/enroll", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, 5, models.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, dto.ErrorCodePaymentRequired, decodeError(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodPost, "/enroll", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, 6, models.RoleStudent))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, []int64{5, 6}, checked)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.ErrGraduationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"invalid score", apperrors.ErrInvalidScore, http.StatusBadRequest, dto.ErrorCodeInvalidScore},
		{"validation", apperrors.NewValidationError("level", "unknown belt"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"belt mismatch", &apperrors.BeltMismatchError{Current: "white", Expected: "yellow", Level: "blue"}, http.StatusUnprocessableEntity, dto.ErrorCodeBeltMismatch},
		{"scope", apperrors.ErrScopeNotPermitted, http.StatusForbidden, dto.ErrorCodeScopeNotPermitted},
		{"plan required", apperrors.ErrPlanRequired, http.StatusPaymentRequired, dto.ErrorCodePlanRequired},
		{"payment required", apperrors.ErrPaymentRequired, http.StatusPaymentRequired, dto.ErrorCodePaymentRequired},
		{"no slots", apperrors.ErrNoSlotsAvailable, http.StatusConflict, dto.ErrorCodeNoSlotsAvailable},
		{"already enrolled", apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeAlreadyEnrolled},
		{"enrolled elsewhere", apperrors.ErrAlreadyEnrolledElsewhere, http.StatusConflict, dto.ErrorCodeAlreadyEnrolledElsewhere},
		{"not enrolled", apperrors.ErrNotEnrolled, http.StatusConflict, dto.ErrorCodeNotEnrolled},
		{"already evaluated", apperrors.ErrAlreadyEvaluated, http.StatusConflict, dto.ErrorCodeAlreadyEvaluated},
		{"email taken", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"reset token", apperrors.ErrResetTokenInvalid, http.StatusBadRequest, dto.ErrorCodeTokenNotFound},
		{"instructor full", apperrors.ErrStudentLimitReached, http.StatusConflict, dto.ErrorCodeConflict},
		{"already assigned", apperrors.ErrStudentAlreadyAssigned, http.StatusConflict, dto.ErrorCodeConflict},
		{"mail down", fmt.Errorf("%w: smtp timeout", apperrors.ErrEmailDelivery), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"storage", fmt.Errorf("%w: connection reset", apperrors.ErrStorage), http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.status >= http.StatusInternalServerError {
				assert.Equal(t, dto.ErrorSeverityError, resp.Error.Severity)
			} else {
				assert.Equal(t, dto.ErrorSeverityWarning, resp.Error.Severity)
			}
		})
	}
}

func TestHandleAPIError_HidesInternalMessages(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, fmt.Errorf("%w: password authentication failed for user dojo", apperrors.ErrStorage))

	assert.NotContains(t, w.Body.String(), "password authentication")
}

func TestBindJSON(t *testing.T) {
	type body struct {
		GraduationID int64 `json:"graduationId" binding:"required,min=1"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if !BindJSON(c, &b) {
			return
		}
		c.JSON(http.StatusOK, b)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"graduationId":0}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, w).Error.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"graduationId":2}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
