package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/db"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/logger"
)

// accountTables maps a role to the table holding its password hash
var accountTables = map[models.RoleType]string{
	models.RoleAdmin:   "instructors",
	models.RoleStudent: "students",
}

// PasswordResetTokenRepository manages password reset tokens in the database
type PasswordResetTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{
		db: db,
		sb: psql,
	}
}

// CreateToken stores a new token for the account. Expired tokens and any
// earlier request of the same account are removed in the same transaction.
func (r *PasswordResetTokenRepository) CreateToken(ctx context.Context, token *models.PasswordResetToken) error {
	if _, ok := accountTables[token.Role]; !ok {
		return apperrors.ErrBadRequest
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("password_reset_tokens").
			Where(squirrel.Or{
				squirrel.Lt{"expires_at": token.CreatedAt},
				squirrel.Eq{"account_role": string(token.Role), "account_id": token.AccountID},
			}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("accountID", token.AccountID).Msg("Error clearing previous reset tokens")
			return storageErr(err)
		}

		sql, args, err = r.sb.Insert("password_reset_tokens").
			Columns("account_role", "account_id", "token_hash", "expires_at", "created_at").
			Values(string(token.Role), token.AccountID, token.TokenHash, token.ExpiresAt, token.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&token.ID); err != nil {
			logger.Error().Err(err).Int64("accountID", token.AccountID).Msg("Error creating reset token")
			return storageErr(err)
		}
		return nil
	})
}

// ResetPassword consumes the token and stores passwordHash on the owning
// account. The token row is locked so a token can be consumed only once.
func (r *PasswordResetTokenRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.PasswordResetToken, error) {
	var token *models.PasswordResetToken
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		t, err := r.lockToken(ctx, tx, tokenHash)
		if err != nil {
			return err
		}
		if !t.Usable(now) {
			return apperrors.ErrResetTokenInvalid
		}
		table, ok := accountTables[t.Role]
		if !ok {
			return apperrors.ErrResetTokenInvalid
		}

		sql, args, err := r.sb.Update(table).
			Set("password_hash", passwordHash).
			Where(squirrel.Eq{"id": t.AccountID}).
			ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("accountID", t.AccountID).Msg("Error updating password")
			return storageErr(err)
		}
		if tag.RowsAffected() == 0 {
			// account removed after the token was issued
			return apperrors.ErrResetTokenInvalid
		}

		if _, err := tx.Exec(ctx, `UPDATE password_reset_tokens SET used = TRUE WHERE id = $1`, t.ID); err != nil {
			logger.Error().Err(err).Int64("tokenID", t.ID).Msg("Error marking reset token used")
			return storageErr(err)
		}
		t.Used = true
		token = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// lockToken reads the token row FOR UPDATE
func (r *PasswordResetTokenRepository) lockToken(ctx context.Context, tx pgx.Tx, tokenHash string) (*models.PasswordResetToken, error) {
	sql, args, err := r.sb.Select("id", "account_role", "account_id", "token_hash", "expires_at", "used", "created_at").
		From("password_reset_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}

	var t models.PasswordResetToken
	var role string
	err = tx.QueryRow(ctx, sql, args...).Scan(&t.ID, &role, &t.AccountID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResetTokenInvalid
		}
		logger.Error().Err(err).Msg("Error getting reset token")
		return nil, storageErr(err)
	}
	t.Role = models.RoleType(role)
	return &t, nil
}
