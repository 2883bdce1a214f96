package dberrors

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared in migrations/001_init.sql
const (
	ConstraintEnrollmentPK          = "graduation_enrollments_pkey"
	ConstraintActiveEnrollment      = "graduation_enrollments_active_student_key"
	ConstraintEvaluationUnique      = "student_evaluations_graduation_student_key"
	ConstraintAvailableSlots        = "graduations_available_slots_check"
	ConstraintStudentEmailUnique    = "students_email_key"
	ConstraintInstructorEmailUnique = "instructors_email_key"
	ConstraintPlanNameUnique        = "monthly_plans_name_key"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return isConstraintError(err, pgerrcode.UniqueViolation, constraintName)
}

// IsCheckConstraintError checks if the error is a PostgreSQL check violation for a constraint
func IsCheckConstraintError(err error, constraintName string) bool {
	return isConstraintError(err, pgerrcode.CheckViolation, constraintName)
}

// IsForeignKeyError reports a foreign key violation on any constraint
func IsForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

func isConstraintError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
