package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/db"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/dberrors"
	"github.com/yigit/dojo/internal/pkg/logger"
)

// InstructorRepository handles database operations for instructors
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: psql,
	}
}

// Create inserts a new instructor
func (r *InstructorRepository) Create(ctx context.Context, i *models.Instructor) error {
	sql, args, err := r.sb.Insert("instructors").
		Columns("name", "email", "password_hash", "active").
		Values(i.Name, i.Email, i.PasswordHash, i.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create instructor SQL")
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintInstructorEmailUnique) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", i.Email).Msg("Error executing create instructor query")
		return storageErr(err)
	}
	return nil
}

// GetByID retrieves an instructor by ID
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an instructor by login email
func (r *InstructorRepository) GetByEmail(ctx context.Context, email string) (*models.Instructor, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// Count returns the number of instructors
func (r *InstructorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM instructors`).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting instructors")
		return 0, storageErr(err)
	}
	return n, nil
}

// List returns every instructor ordered by name
func (r *InstructorRepository) List(ctx context.Context) ([]*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).From("instructors").OrderBy("name", "id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list instructors SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing instructors")
		return nil, storageErr(err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	for rows.Next() {
		i, err := scanInstructor(rows)
		if err != nil {
			return nil, storageErr(err)
		}
		instructors = append(instructors, i)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return instructors, nil
}

// CountStudents returns how many students are assigned to the instructor
func (r *InstructorRepository) CountStudents(ctx context.Context, instructorID int64) (int, error) {
	return countStudents(ctx, r.db, instructorID)
}

// AssignStudent makes instructorID the instructor of studentID, moving the
// student away from any previous instructor. The instructor row is locked so
// concurrent assignments cannot exceed limit.
func (r *InstructorRepository) AssignStudent(ctx context.Context, instructorID, studentID int64, limit int) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM instructors WHERE id = $1 FOR UPDATE`, instructorID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrInstructorNotFound
			}
			logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error locking instructor")
			return storageErr(err)
		}

		var current *int64
		err = tx.QueryRow(ctx, `SELECT instructor_id FROM students WHERE id = $1 FOR UPDATE`, studentID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			logger.Error().Err(err).Int64("studentID", studentID).Msg("Error locking student")
			return storageErr(err)
		}
		if current != nil && *current == instructorID {
			return apperrors.ErrStudentAlreadyAssigned
		}

		n, err := countStudents(ctx, tx, instructorID)
		if err != nil {
			return err
		}
		if n >= limit {
			return apperrors.ErrStudentLimitReached
		}

		if _, err := tx.Exec(ctx, `UPDATE students SET instructor_id = $1 WHERE id = $2`, instructorID, studentID); err != nil {
			logger.Error().Err(err).Int64("instructorID", instructorID).Int64("studentID", studentID).Msg("Error assigning student")
			return storageErr(err)
		}
		return nil
	})
}

// UnassignStudent clears the instructor of studentID when it is instructorID
func (r *InstructorRepository) UnassignStudent(ctx context.Context, instructorID, studentID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE students SET instructor_id = NULL WHERE id = $1 AND instructor_id = $2`, studentID, instructorID)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Int64("studentID", studentID).Msg("Error unassigning student")
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
	return apperrors.ErrStudentNotAssigned
}

func countStudents(ctx context.Context, q querier, instructorID int64) (int, error) {
	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM students WHERE instructor_id = $1`, instructorID).Scan(&n); err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Msg("Error counting instructor students")
		return 0, storageErr(err)
	}
	return n, nil
}

func (r *InstructorRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(where).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor SQL")
		return nil, err
	}

	i, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Msg("Error getting instructor")
		return nil, storageErr(err)
	}
	return i, nil
}

var instructorColumns = []string{"id", "name", "email", "password_hash", "active", "created_at", "updated_at"}

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	var i models.Instructor
	if err := row.Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.Active, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}
