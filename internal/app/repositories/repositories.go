package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/cache"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds Postgres statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// storageErr marks an unexpected database failure
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
}

// Repositories holds all the repository instances
type Repositories struct {
	GraduationRepository  *GraduationRepository
	StudentRepository     *StudentRepository
	InstructorRepository  *InstructorRepository
	MonthlyPlanRepository *MonthlyPlanRepository
	MonthlyFeeRepository  *MonthlyFeeRepository
	ResetTokenRepository  *PasswordResetTokenRepository
}

// NewRepositories initializes all repositories. planCache may be nil.
func NewRepositories(db *pgxpool.Pool, planCache cache.Store, planTTL time.Duration) *Repositories {
	return &Repositories{
		GraduationRepository:  NewGraduationRepository(db),
		StudentRepository:     NewStudentRepository(db),
		InstructorRepository:  NewInstructorRepository(db),
		MonthlyPlanRepository: NewMonthlyPlanRepository(db, planCache, planTTL),
		MonthlyFeeRepository:  NewMonthlyFeeRepository(db),
		ResetTokenRepository:  NewPasswordResetTokenRepository(db),
	}
}
