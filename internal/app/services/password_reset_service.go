package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
	"github.com/yigit/dojo/internal/pkg/email"
	"github.com/yigit/dojo/internal/pkg/validation"
)

// ResetTokenStore persists password reset tokens
type ResetTokenStore interface {
	// CreateToken replaces the account's previous tokens with token
	CreateToken(ctx context.Context, token *models.PasswordResetToken) error
	// ResetPassword consumes the token and stores the new hash on its account
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.PasswordResetToken, error)
}

// PasswordResetConfig holds the settings of the reset flow
type PasswordResetConfig struct {
	TokenTTL   time.Duration
	BaseURL    string // public URL used to build the reset link; may be empty
	SchoolName string
}

// PasswordResetService handles forgotten passwords for both account kinds
type PasswordResetService interface {
	// RequestReset mails a reset token. It also succeeds, without sending
	// anything, when no active account matches the email.
	RequestReset(ctx context.Context, role models.RoleType, emailAddr string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// passwordResetServiceImpl implements PasswordResetService
type passwordResetServiceImpl struct {
	students    StudentStore
	instructors InstructorStore
	tokens      ResetTokenStore
	notifier    NotificationGateway
	cfg         PasswordResetConfig
	logger      zerolog.Logger
	now         func() time.Time
	newToken    func() string
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(students StudentStore, instructors InstructorStore, tokens ResetTokenStore, notifier NotificationGateway, cfg PasswordResetConfig, logger zerolog.Logger) PasswordResetService {
	return &passwordResetServiceImpl{
		students:    students,
		instructors: instructors,
		tokens:      tokens,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		newToken:    uuid.NewString,
	}
}

// RequestReset issues a token for the account and mails it
func (s *passwordResetServiceImpl) RequestReset(ctx context.Context, role models.RoleType, emailAddr string) error {
	if role == "" {
		role = models.RoleStudent
	}
	if !role.IsValid() {
		return apperrors.ErrBadRequest
	}
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	account, err := lookupAccount(ctx, s.students, s.instructors, role, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Debug().Str("role", string(role)).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !account.Active {
		s.logger.Info().Int64("userID", account.ID).Msg("Password reset requested for disabled account")
		return nil
	}

	now := s.now()
	plain := s.newToken()
	token := &models.PasswordResetToken{
		Role:      role,
		AccountID: account.ID,
		TokenHash: hashResetToken(plain),
		ExpiresAt: now.Add(s.cfg.TokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return err
	}

	note := email.Notification{
		To:      account.Email,
		ToName:  account.Name,
		Subject: email.PasswordResetSubject,
		Body:    email.PasswordResetBody(account.Name, plain, s.resetLink(plain), s.cfg.TokenTTL, s.cfg.SchoolName),
	}
	if err := s.notifier.Send(ctx, note); err != nil {
		s.logger.Error().Err(err).Int64("userID", account.ID).Msg("Failed to send password reset email")
		return fmt.Errorf("%w: %v", apperrors.ErrEmailDelivery, err)
	}

	s.logger.Info().Int64("userID", account.ID).Str("role", string(role)).Msg("Password reset token issued")
	return nil
}

// ResetPassword stores newPassword on the account owning token
func (s *passwordResetServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	verr := &apperrors.ValidationError{}
	token = strings.TrimSpace(token)
	if token == "" {
		verr.Add("token", "is required")
	}
	if !validation.ValidPassword(newPassword) {
		verr.Add("newPassword", fmt.Sprintf("must be between %d and %d characters", validation.PasswordMinLength, validation.PasswordMaxLength))
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return err
	}

	consumed, err := s.tokens.ResetPassword(ctx, hashResetToken(token), hash, s.now())
	if err != nil {
		return err
	}

	s.logger.Info().Int64("userID", consumed.AccountID).Str("role", string(consumed.Role)).Msg("Password reset")
	return nil
}

func (s *passwordResetServiceImpl) resetLink(token string) string {
	if s.cfg.BaseURL == "" {
		return ""
	}
	return s.cfg.BaseURL + "/reset-password?token=" + url.QueryEscape(token)
}

// hashResetToken is the digest stored in place of the mailed token
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
