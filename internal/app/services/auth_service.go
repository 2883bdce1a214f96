package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID int64, email string, role models.RoleType) (string, int64, error)
}

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, role models.RoleType, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	students    StudentStore
	instructors InstructorStore
	tokens      TokenIssuer
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(students StudentStore, instructors InstructorStore, tokens TokenIssuer, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		students:    students,
		instructors: instructors,
		tokens:      tokens,
		logger:      logger,
	}
}

// Login checks the credentials against the account table of the role and issues a token
func (s *authServiceImpl) Login(ctx context.Context, role models.RoleType, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if !role.IsValid() {
		return nil, apperrors.ErrBadRequest
	}
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if emailAddr == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	account, err := lookupAccount(ctx, s.students, s.instructors, role, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.Active {
		return nil, apperrors.ErrAccountDisabled
	}
	if auth.NeedsRehash(account.PasswordHash) {
		s.logger.Debug().Int64("userID", account.ID).Msg("Password hash uses an outdated bcrypt cost")
	}

	token, expiresIn, err := s.tokens.GenerateAccessToken(account.ID, account.Email, role)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", account.ID).Msg("Failed to generate access token")
		return nil, err
	}

	s.logger.Info().Int64("userID", account.ID).Str("role", string(role)).Msg("User logged in")
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Role:        string(role),
	}, nil
}

// lookupAccount finds the account of role registered under emailAddr
func lookupAccount(ctx context.Context, students StudentStore, instructors InstructorStore, role models.RoleType, emailAddr string) (*models.Account, error) {
	if role == models.RoleAdmin {
		instructor, err := instructors.GetByEmail(ctx, emailAddr)
		if err != nil {
			return nil, err
		}
		return &instructor.Account, nil
	}
	student, err := students.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	return &student.Account, nil
}
