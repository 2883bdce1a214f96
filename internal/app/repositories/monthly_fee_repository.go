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
	"github.com/yigit/dojo/internal/pkg/dberrors"
	"github.com/yigit/dojo/internal/pkg/helpers"
	"github.com/yigit/dojo/internal/pkg/logger"
)

var feeColumns = []string{
	"id", "student_id", "plan_id", "amount::float8", "due_date", "payment_date", "status",
	"payment_method", "transaction_id", "notes", "receipt_path", "created_at", "updated_at",
}

const lateFeeExists = "EXISTS (SELECT 1 FROM monthly_fees f WHERE f.student_id = students.id AND f.status = 'late')"

// MonthlyFeeRepository handles database operations for monthly fees and plan subscriptions
type MonthlyFeeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMonthlyFeeRepository creates a new MonthlyFeeRepository
func NewMonthlyFeeRepository(db *pgxpool.Pool) *MonthlyFeeRepository {
	return &MonthlyFeeRepository{
		db: db,
		sb: psql,
	}
}

func scanFee(row pgx.Row) (*models.MonthlyFee, error) {
	var f models.MonthlyFee
	err := row.Scan(
		&f.ID, &f.StudentID, &f.PlanID, &f.Amount, &f.DueDate, &f.PaymentDate, &f.Status,
		&f.PaymentMethod, &f.TransactionID, &f.Notes, &f.ReceiptPath, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMonthlyFeeNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Subscribe sets the student's plan and inserts the first fee in one transaction
func (r *MonthlyFeeRepository) Subscribe(ctx context.Context, fee *models.MonthlyFee) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("monthly_plan_id").
			From("students").
			Where(squirrel.Eq{"id": fee.StudentID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}
		var current *int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			logger.Error().Err(err).Int64("studentID", fee.StudentID).Msg("Error locking student")
			return storageErr(err)
		}
		if current != nil {
			return apperrors.ErrPlanAlreadyActive
		}

		sql, args, err = r.sb.Update("students").
			Set("monthly_plan_id", fee.PlanID).
			Where(squirrel.Eq{"id": fee.StudentID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyError(err) {
				return apperrors.ErrPlanNotFound
			}
			logger.Error().Err(err).Int64("studentID", fee.StudentID).Int64("planID", fee.PlanID).Msg("Error setting student plan")
			return storageErr(err)
		}

		if fee.Status == "" {
			fee.Status = models.FeeStatusPending
		}
		sql, args, err = r.sb.Insert("monthly_fees").
			Columns("student_id", "plan_id", "amount", "due_date", "status").
			Values(fee.StudentID, fee.PlanID, fee.Amount, fee.DueDate, fee.Status).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt); err != nil {
			logger.Error().Err(err).Int64("studentID", fee.StudentID).Msg("Error inserting first monthly fee")
			return storageErr(err)
		}
		return nil
	})
}

// Unsubscribe clears the student's plan
func (r *MonthlyFeeRepository) Unsubscribe(ctx context.Context, studentID int64) error {
	sql, args, err := r.sb.Update("students").
		Set("monthly_plan_id", nil).
		Where(squirrel.Eq{"id": studentID}).
		Where(squirrel.NotEq{"monthly_plan_id": nil}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cancel plan SQL")
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error cancelling plan")
		return storageErr(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, studentID).Scan(&exists); err != nil {
		return storageErr(err)
	}
	if !exists {
		return apperrors.ErrStudentNotFound
	}
	return apperrors.ErrNoActivePlan
}

// GetByID retrieves a fee
func (r *MonthlyFeeRepository) GetByID(ctx context.Context, id int64) (*models.MonthlyFee, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *MonthlyFeeRepository) getByID(ctx context.Context, q querier, id int64) (*models.MonthlyFee, error) {
	sql, args, err := r.sb.Select(feeColumns...).From("monthly_fees").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get fee SQL")
		return nil, err
	}

	f, err := scanFee(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrMonthlyFeeNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Int64("feeID", id).Msg("Error getting fee by ID")
		return nil, storageErr(err)
	}
	return f, nil
}

// ListByStudent returns the fees of a student, newest due date first
func (r *MonthlyFeeRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.MonthlyFee, error) {
	sql, args, err := r.sb.Select(feeColumns...).
		From("monthly_fees").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("due_date DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list fees SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error listing fees")
		return nil, storageErr(err)
	}
	defer rows.Close()

	fees := make([]models.MonthlyFee, 0)
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning fee row")
			return nil, storageErr(err)
		}
		fees = append(fees, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return fees, nil
}

func feeWhere(filter models.FeeFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}
	if filter.DueFrom != nil {
		where = append(where, squirrel.GtOrEq{"due_date": *filter.DueFrom})
	}
	if filter.DueTo != nil {
		where = append(where, squirrel.LtOrEq{"due_date": *filter.DueTo})
	}
	if filter.MinAmount != nil {
		where = append(where, squirrel.GtOrEq{"amount": *filter.MinAmount})
	}
	if filter.MaxAmount != nil {
		where = append(where, squirrel.LtOrEq{"amount": *filter.MaxAmount})
	}
	if filter.StudentID != nil {
		where = append(where, squirrel.Eq{"student_id": *filter.StudentID})
	}
	if filter.PaymentMethod != nil {
		where = append(where, squirrel.Eq{"payment_method": *filter.PaymentMethod})
	}
	return where
}

// feeOrder sorts by due date, newest first, unless told otherwise
func feeOrder(filter models.FeeFilter) string {
	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case "amount":
		return "amount " + direction
	case "status":
		return "status " + direction
	case "paymentDate":
		return "payment_date " + direction + " NULLS LAST"
	}
	return "due_date " + direction
}

// List returns one page of fees across all students and the total match count
func (r *MonthlyFeeRepository) List(ctx context.Context, filter models.FeeFilter) ([]models.MonthlyFee, int64, error) {
	where := feeWhere(filter)

	countSQL, countArgs, err := r.sb.Select("count(*)").From("monthly_fees").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count fees SQL")
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count fees query")
		return nil, 0, storageErr(err)
	}
	if total == 0 {
		return []models.MonthlyFee{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	sql, args, err := r.sb.Select(feeColumns...).
		From("monthly_fees").
		Where(where).
		OrderBy(feeOrder(filter), "id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list fees SQL")
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list fees query")
		return nil, 0, storageErr(err)
	}
	defer rows.Close()

	fees := make([]models.MonthlyFee, 0)
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning fee row")
			return nil, 0, storageErr(err)
		}
		fees = append(fees, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr(err)
	}
	return fees, total, nil
}

// MarkPaid settles a fee and refreshes the student's suspension in one transaction
func (r *MonthlyFeeRepository) MarkPaid(ctx context.Context, id int64, method models.PaymentMethod, transactionID *string, paidAt time.Time) (*models.MonthlyFee, error) {
	var paid *models.MonthlyFee
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("monthly_fees").
			Set("status", models.FeeStatusPaid).
			Set("payment_method", method).
			Set("transaction_id", transactionID).
			Set("payment_date", paidAt).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.NotEq{"status": models.FeeStatusPaid}).
			Suffix("RETURNING student_id").
			ToSql()
		if err != nil {
			return err
		}

		var studentID int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&studentID); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				logger.Error().Err(err).Int64("feeID", id).Msg("Error marking fee paid")
				return storageErr(err)
			}
			if _, getErr := r.getByID(ctx, tx, id); getErr != nil {
				return getErr
			}
			return apperrors.ErrFeeAlreadyPaid
		}

		sql, args, err = r.sb.Update("students").
			Set("suspended", squirrel.Expr(lateFeeExists)).
			Where(squirrel.Eq{"id": studentID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("studentID", studentID).Msg("Error refreshing suspension")
			return storageErr(err)
		}

		paid, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// HasOutstandingLateFee reports a late fee, or a pending one whose due date has passed
func (r *MonthlyFeeRepository) HasOutstandingLateFee(ctx context.Context, studentID int64, now time.Time) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("monthly_fees").
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.Or{
			squirrel.Eq{"status": models.FeeStatusLate},
			squirrel.And{
				squirrel.Eq{"status": models.FeeStatusPending},
				squirrel.Lt{"due_date": now},
			},
		}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building late fee SQL")
		return false, err
	}

	var late bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&late); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error checking late fees")
		return false, storageErr(err)
	}
	return late, nil
}

// MarkOverdueLate flips overdue pending fees to late and recomputes suspensions in one transaction
func (r *MonthlyFeeRepository) MarkOverdueLate(ctx context.Context, now time.Time) (models.FeeSweepResult, error) {
	var res models.FeeSweepResult
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("monthly_fees").
			Set("status", models.FeeStatusLate).
			Where(squirrel.Eq{"status": models.FeeStatusPending}).
			Where(squirrel.Lt{"due_date": now}).
			ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Msg("Error marking overdue fees late")
			return storageErr(err)
		}
		res.FeesMarkedLate = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `UPDATE students SET suspended = TRUE WHERE NOT suspended AND `+lateFeeExists)
		if err != nil {
			logger.Error().Err(err).Msg("Error suspending students")
			return storageErr(err)
		}
		res.StudentsSuspended = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `UPDATE students SET suspended = FALSE WHERE suspended AND NOT `+lateFeeExists)
		if err != nil {
			logger.Error().Err(err).Msg("Error reinstating students")
			return storageErr(err)
		}
		res.StudentsReinstated = tag.RowsAffected()
		return nil
	})
	return res, err
}
