package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/dberrors"
	"github.com/yigit/dojo/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "name", "email", "password_hash", "active", "belt",
	"instructor_id", "monthly_plan_id", "suspended", "created_at", "updated_at",
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: psql,
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Active, &s.Belt,
		&s.InstructorID, &s.MonthlyPlanID, &s.Suspended, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "password_hash", "active", "belt", "instructor_id").
		Values(s.Name, s.Email, s.PasswordHash, s.Active, s.Belt, s.InstructorID).
		Suffix("RETURNING id, suspended, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Suspended, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintStudentEmailUnique) {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Str("email", s.Email).Msg("Error executing create student query")
		return storageErr(err)
	}

	s.EnrolledGraduationIDs = []int64{}
	return nil
}

// GetByID retrieves a student with the graduations they are enrolled in
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a student by login email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, err
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Error getting student")
		return nil, storageErr(err)
	}

	if err := r.loadEnrollments(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByIDs retrieves the students with the given IDs in one query. Unknown
// IDs are skipped and the derived roster fields are left empty.
func (r *StudentRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	return r.list(ctx, squirrel.Expr("id = ANY(?)", ids), "id")
}

// ListByInstructor retrieves the students assigned to an instructor
func (r *StudentRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]*models.Student, error) {
	students, err := r.list(ctx, squirrel.Eq{"instructor_id": instructorID}, "name, id")
	if err != nil {
		return nil, err
	}
	if err := r.loadEnrollments(ctx, students...); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *StudentRepository) list(ctx context.Context, where squirrel.Sqlizer, orderBy string) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).OrderBy(orderBy).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, storageErr(err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, storageErr(err)
		}
		st.EnrolledGraduationIDs = []int64{}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return students, nil
}

// loadEnrollments fills the derived roster fields of the students in one query
func (r *StudentRepository) loadEnrollments(ctx context.Context, students ...*models.Student) error {
	if len(students) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Student, len(students))
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		s.EnrolledGraduationIDs = []int64{}
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	sql, args, err := r.sb.Select("student_id", "graduation_id", "active").
		From("graduation_enrollments").
		Where(squirrel.Expr("student_id = ANY(?)", ids)).
		OrderBy("enrolled_at").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Ints64("studentIDs", ids).Msg("Error loading student enrollments")
		return storageErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, graduationID int64
		var active bool
		if err := rows.Scan(&studentID, &graduationID, &active); err != nil {
			return storageErr(err)
		}
		s := byID[studentID]
		s.EnrolledGraduationIDs = append(s.EnrolledGraduationIDs, graduationID)
		if active {
			id := graduationID
			s.ActiveGraduationID = &id
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr(err)
	}
	return nil
}
