package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

var graduationColumns = []string{
	"id", "level", "scope", "date", "instructor_id", "location", "available_slots",
	"evaluated", "score", "comments", "certificate_url", "created_at", "updated_at",
}

var evaluationColumns = []string{
	"id", "graduation_id", "student_id", "score", "comments", "evaluated_by", "evaluation_date", "diploma_path",
}

// GraduationRepository handles database operations for graduations, their roster and evaluations
type GraduationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGraduationRepository creates a new GraduationRepository
func NewGraduationRepository(db *pgxpool.Pool) *GraduationRepository {
	return &GraduationRepository{
		db: db,
		sb: psql,
	}
}

func scanGraduation(row pgx.Row) (*models.Graduation, error) {
	var g models.Graduation
	err := row.Scan(
		&g.ID, &g.Level, &g.Scope, &g.Date, &g.InstructorID, &g.Location, &g.AvailableSlots,
		&g.Evaluated, &g.Score, &g.Comments, &g.CertificateURL, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGraduationNotFound
		}
		return nil, err
	}
	g.EnrolledStudentIDs = []int64{}
	g.Evaluations = []models.StudentEvaluation{}
	return &g, nil
}

func scanEvaluation(row pgx.Row) (*models.StudentEvaluation, error) {
	var e models.StudentEvaluation
	err := row.Scan(&e.ID, &e.GraduationID, &e.StudentID, &e.Score, &e.Comments,
		&e.EvaluatedByInstructorID, &e.EvaluationDate, &e.DiplomaPath)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new graduation
func (r *GraduationRepository) Create(ctx context.Context, g *models.Graduation) error {
	sql, args, err := r.sb.Insert("graduations").
		Columns("level", "scope", "date", "instructor_id", "location", "available_slots").
		Values(g.Level, g.Scope, g.Date, g.InstructorID, g.Location, g.AvailableSlots).
		Suffix("RETURNING id, evaluated, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create graduation SQL")
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.Evaluated, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if dberrors.IsCheckConstraintError(err, dberrors.ConstraintAvailableSlots) {
			return apperrors.NewValidationError("availableSlots", "must not be negative")
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("instructorID", g.InstructorID).Msg("Error executing create graduation query")
		return storageErr(err)
	}

	g.EnrolledStudentIDs = []int64{}
	g.Evaluations = []models.StudentEvaluation{}
	return nil
}

// GetByID retrieves a graduation with its roster and evaluations
func (r *GraduationRepository) GetByID(ctx context.Context, id int64) (*models.Graduation, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *GraduationRepository) getByID(ctx context.Context, q querier, id int64) (*models.Graduation, error) {
	sql, args, err := r.sb.Select(graduationColumns...).
		From("graduations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get graduation SQL")
		return nil, err
	}

	g, err := scanGraduation(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrGraduationNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Int64("graduationID", id).Msg("Error getting graduation by ID")
		return nil, storageErr(err)
	}

	if err := r.loadRosters(ctx, q, []*models.Graduation{g}); err != nil {
		return nil, err
	}
	return g, nil
}

// loadRosters fills EnrolledStudentIDs and Evaluations for the given graduations
func (r *GraduationRepository) loadRosters(ctx context.Context, q querier, graduations []*models.Graduation) error {
	if len(graduations) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Graduation, len(graduations))
	ids := make([]int64, 0, len(graduations))
	for _, g := range graduations {
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}

	sql, args, err := r.sb.Select("graduation_id", "student_id").
		From("graduation_enrollments").
		Where(squirrel.Eq{"graduation_id": ids}).
		OrderBy("enrolled_at", "student_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building roster SQL")
		return err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying graduation rosters")
		return storageErr(err)
	}
	for rows.Next() {
		var graduationID, studentID int64
		if err := rows.Scan(&graduationID, &studentID); err != nil {
			rows.Close()
			logger.Error().Err(err).Msg("Error scanning roster row")
			return storageErr(err)
		}
		byID[graduationID].EnrolledStudentIDs = append(byID[graduationID].EnrolledStudentIDs, studentID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating roster rows")
		return storageErr(err)
	}

	sql, args, err = r.sb.Select(evaluationColumns...).
		From("student_evaluations").
		Where(squirrel.Eq{"graduation_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building evaluations SQL")
		return err
	}
	rows, err = q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying graduation evaluations")
		return storageErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning evaluation row")
			return storageErr(err)
		}
		byID[e.GraduationID].Evaluations = append(byID[e.GraduationID].Evaluations, *e)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating evaluation rows")
		return storageErr(err)
	}
	return nil
}

// levelOrderExpr orders by belt rank instead of alphabetically
func levelOrderExpr() string {
	quoted := make([]string, 0, len(models.BeltLedger))
	for _, b := range models.BeltLedger {
		quoted = append(quoted, "'"+string(b)+"'")
	}
	return fmt.Sprintf("array_position(ARRAY[%s]::text[], level::text)", strings.Join(quoted, ", "))
}

// graduationWhere turns the list filter into predicates
func graduationWhere(filter models.GraduationFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Level != nil {
		where = append(where, squirrel.Eq{"level": *filter.Level})
	}
	if filter.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.MinSlots != nil {
		where = append(where, squirrel.GtOrEq{"available_slots": *filter.MinSlots})
	}
	return where
}

// graduationOrder maps the sort field onto a column. Unknown or empty fields keep id order.
func graduationOrder(filter models.GraduationFilter) string {
	direction := "ASC"
	if filter.SortDescending {
		direction = "DESC"
	}
	switch filter.SortBy {
	case "date":
		return "date " + direction
	case "level":
		return levelOrderExpr() + " " + direction
	case "availableSlots":
		return "available_slots " + direction
	case "createdAt":
		return "created_at " + direction
	}
	return "id ASC"
}

// List retrieves a filtered, sorted page of graduations and the total match count
func (r *GraduationRepository) List(ctx context.Context, filter models.GraduationFilter) ([]*models.Graduation, int64, error) {
	where := graduationWhere(filter)

	countSQL, countArgs, err := r.sb.Select("count(*)").From("graduations").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count graduations SQL")
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count graduations query")
		return nil, 0, storageErr(err)
	}
	if total == 0 {
		return []*models.Graduation{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	sql, args, err := r.sb.Select(graduationColumns...).
		From("graduations").
		Where(where).
		OrderBy(graduationOrder(filter), "id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list graduations SQL")
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list graduations query")
		return nil, 0, storageErr(err)
	}
	graduations := make([]*models.Graduation, 0)
	for rows.Next() {
		g, err := scanGraduation(rows)
		if err != nil {
			rows.Close()
			logger.Error().Err(err).Msg("Error scanning graduation row")
			return nil, 0, storageErr(err)
		}
		graduations = append(graduations, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating graduation rows")
		return nil, 0, storageErr(err)
	}

	if err := r.loadRosters(ctx, r.db, graduations); err != nil {
		return nil, 0, err
	}
	return graduations, total, nil
}

// ListByStudent returns every graduation the student is or was enrolled in,
// newest first
func (r *GraduationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Graduation, error) {
	sql, args, err := r.sb.Select(graduationColumns...).
		From("graduations").
		Where(squirrel.Expr("id IN (SELECT graduation_id FROM graduation_enrollments WHERE student_id = ?)", studentID)).
		OrderBy("date DESC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student graduations SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing student graduations query")
		return nil, storageErr(err)
	}
	graduations := make([]*models.Graduation, 0)
	for rows.Next() {
		g, err := scanGraduation(rows)
		if err != nil {
			rows.Close()
			return nil, storageErr(err)
		}
		graduations = append(graduations, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	if err := r.loadRosters(ctx, r.db, graduations); err != nil {
		return nil, err
	}
	return graduations, nil
}

// ApplyPatch writes the non-nil fields of the patch
func (r *GraduationRepository) ApplyPatch(ctx context.Context, id int64, patch models.GraduationPatch) (*models.Graduation, error) {
	update := r.sb.Update("graduations").Where(squirrel.Eq{"id": id})
	if patch.Score != nil {
		update = update.Set("score", *patch.Score)
	}
	if patch.Comments != nil {
		update = update.Set("comments", *patch.Comments)
	}
	if patch.CertificateURL != nil {
		update = update.Set("certificate_url", *patch.CertificateURL)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update graduation SQL")
		return nil, err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("graduationID", id).Msg("Error executing update graduation query")
		return nil, storageErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrGraduationNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a graduation. Roster rows and evaluations cascade.
func (r *GraduationRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("graduations").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete graduation SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("graduationID", id).Msg("Error executing delete graduation query")
		return storageErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGraduationNotFound
	}
	return nil
}

// FindActiveEnrollment returns the graduation the student is actively enrolled in
func (r *GraduationRepository) FindActiveEnrollment(ctx context.Context, studentID int64) (int64, bool, error) {
	sql, args, err := r.sb.Select("graduation_id").
		From("graduation_enrollments").
		Where(squirrel.Eq{"student_id": studentID, "active": true}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building active enrollment SQL")
		return 0, false, err
	}

	var graduationID int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&graduationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error finding active enrollment")
		return 0, false, storageErr(err)
	}
	return graduationID, true, nil
}

// ListEnrollments returns the roster rows of a graduation in enrollment order
func (r *GraduationRepository) ListEnrollments(ctx context.Context, graduationID int64) ([]models.Enrollment, error) {
	sql, args, err := r.sb.Select("graduation_id", "student_id", "active", "enrolled_at").
		From("graduation_enrollments").
		Where(squirrel.Eq{"graduation_id": graduationID}).
		OrderBy("enrolled_at", "student_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list enrollments SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("graduationID", graduationID).Msg("Error listing enrollments")
		return nil, storageErr(err)
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.GraduationID, &e.StudentID, &e.Active, &e.EnrolledAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning enrollment row")
			return nil, storageErr(err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return enrollments, nil
}

// lockGraduation takes the row lock that serializes roster changes of one graduation
func (r *GraduationRepository) lockGraduation(ctx context.Context, tx pgx.Tx, id int64) (int, error) {
	sql, args, err := r.sb.Select("available_slots").
		From("graduations").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, err
	}

	var slots int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&slots); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrGraduationNotFound
		}
		logger.Error().Err(err).Int64("graduationID", id).Msg("Error locking graduation")
		return 0, storageErr(err)
	}
	return slots, nil
}

// enrollmentState reports whether a roster row exists and is still active
func (r *GraduationRepository) enrollmentState(ctx context.Context, tx pgx.Tx, graduationID, studentID int64) (exists, active bool, err error) {
	sql, args, err := r.sb.Select("active").
		From("graduation_enrollments").
		Where(squirrel.Eq{"graduation_id": graduationID, "student_id": studentID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return false, false, err
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, false, nil
		}
		logger.Error().Err(err).Int64("graduationID", graduationID).Int64("studentID", studentID).Msg("Error reading enrollment")
		return false, false, storageErr(err)
	}
	return true, active, nil
}

// Enroll adds the student to the roster and consumes one slot in one transaction
func (r *GraduationRepository) Enroll(ctx context.Context, graduationID, studentID int64) (*models.Graduation, error) {
	var updated *models.Graduation
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		slots, err := r.lockGraduation(ctx, tx, graduationID)
		if err != nil {
			return err
		}

		exists, _, err := r.enrollmentState(ctx, tx, graduationID, studentID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrAlreadyEnrolled
		}
		if slots <= 0 {
			return apperrors.ErrNoSlotsAvailable
		}

		sql, args, err := r.sb.Insert("graduation_enrollments").
			Columns("graduation_id", "student_id", "active").
			Values(graduationID, studentID, true).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintActiveEnrollment):
				return apperrors.ErrAlreadyEnrolledElsewhere
			case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintEnrollmentPK):
				return apperrors.ErrAlreadyEnrolled
			case dberrors.IsForeignKeyError(err):
				return apperrors.ErrStudentNotFound
			}
			logger.Error().Err(err).Int64("graduationID", graduationID).Int64("studentID", studentID).Msg("Error inserting enrollment")
			return storageErr(err)
		}

		sql, args, err = r.sb.Update("graduations").
			Set("available_slots", squirrel.Expr("available_slots - 1")).
			Where(squirrel.Eq{"id": graduationID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsCheckConstraintError(err, dberrors.ConstraintAvailableSlots) {
				return apperrors.ErrNoSlotsAvailable
			}
			logger.Error().Err(err).Int64("graduationID", graduationID).Msg("Error consuming graduation slot")
			return storageErr(err)
		}

		updated, err = r.getByID(ctx, tx, graduationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Unenroll removes an active roster row and releases its slot in one transaction
func (r *GraduationRepository) Unenroll(ctx context.Context, graduationID, studentID int64) (*models.Graduation, error) {
	var updated *models.Graduation
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := r.lockGraduation(ctx, tx, graduationID); err != nil {
			return err
		}

		exists, active, err := r.enrollmentState(ctx, tx, graduationID, studentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotEnrolled
		}
		if !active {
			return apperrors.ErrAlreadyEvaluated
		}

		sql, args, err := r.sb.Delete("graduation_enrollments").
			Where(squirrel.Eq{"graduation_id": graduationID, "student_id": studentID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("graduationID", graduationID).Int64("studentID", studentID).Msg("Error deleting enrollment")
			return storageErr(err)
		}

		sql, args, err = r.sb.Update("graduations").
			Set("available_slots", squirrel.Expr("available_slots + 1")).
			Where(squirrel.Eq{"id": graduationID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("graduationID", graduationID).Msg("Error releasing graduation slot")
			return storageErr(err)
		}

		updated, err = r.getByID(ctx, tx, graduationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordEvaluation stores the evaluation, closes the enrollment, applies the
// promotion and refreshes the evaluated flag in one transaction
func (r *GraduationRepository) RecordEvaluation(ctx context.Context, eval *models.StudentEvaluation, promoteTo *models.BeltRank) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := r.lockGraduation(ctx, tx, eval.GraduationID); err != nil {
			return err
		}

		exists, active, err := r.enrollmentState(ctx, tx, eval.GraduationID, eval.StudentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotEnrolled
		}
		if !active {
			return apperrors.ErrAlreadyEvaluated
		}

		sql, args, err := r.sb.Insert("student_evaluations").
			Columns("graduation_id", "student_id", "score", "comments", "evaluated_by", "evaluation_date").
			Values(eval.GraduationID, eval.StudentID, eval.Score, eval.Comments, eval.EvaluatedByInstructorID, eval.EvaluationDate).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&eval.ID); err != nil {
			if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintEvaluationUnique) {
				return apperrors.ErrAlreadyEvaluated
			}
			logger.Error().Err(err).Int64("graduationID", eval.GraduationID).Int64("studentID", eval.StudentID).Msg("Error inserting evaluation")
			return storageErr(err)
		}

		sql, args, err = r.sb.Update("graduation_enrollments").
			Set("active", false).
			Where(squirrel.Eq{"graduation_id": eval.GraduationID, "student_id": eval.StudentID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("graduationID", eval.GraduationID).Int64("studentID", eval.StudentID).Msg("Error closing enrollment")
			return storageErr(err)
		}

		if promoteTo != nil {
			sql, args, err = r.sb.Update("students").
				Set("belt", *promoteTo).
				Where(squirrel.Eq{"id": eval.StudentID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				logger.Error().Err(err).Int64("studentID", eval.StudentID).Str("belt", string(*promoteTo)).Msg("Error promoting student")
				return storageErr(err)
			}
		}

		sql, args, err = r.sb.Update("graduations").
			Set("evaluated", squirrel.Expr("NOT EXISTS (SELECT 1 FROM graduation_enrollments WHERE graduation_id = ? AND active)", eval.GraduationID)).
			Where(squirrel.Eq{"id": eval.GraduationID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("graduationID", eval.GraduationID).Msg("Error refreshing evaluated flag")
			return storageErr(err)
		}
		return nil
	})
}

// SetDiplomaPath stores the diploma file of an evaluation
func (r *GraduationRepository) SetDiplomaPath(ctx context.Context, evaluationID int64, path string) error {
	sql, args, err := r.sb.Update("student_evaluations").
		Set("diploma_path", path).
		Where(squirrel.Eq{"id": evaluationID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set diploma path SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("evaluationID", evaluationID).Msg("Error storing diploma path")
		return storageErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("evaluation %d not found", evaluationID))
	}
	return nil
}
