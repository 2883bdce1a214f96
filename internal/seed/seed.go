package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
)

// PlanSeeder inserts plan templates that do not exist yet
type PlanSeeder interface {
	EnsureDefaults(ctx context.Context, plans []appModels.MonthlyPlan) (int, error)
}

// InstructorSeeder creates the first instructor account
type InstructorSeeder interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, i *appModels.Instructor) error
}

// AdminAccount is the instructor created on an empty database
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultData seeds the monthly plans and, on an empty instructors table,
// a default instructor account. It runs once at startup, never on a read path.
func CreateDefaultData(ctx context.Context, plans PlanSeeder, instructors InstructorSeeder, admin AdminAccount, lgr zerolog.Logger) error {
	var finalErr error // Collect errors without stopping the process

	lgr.Info().Msg("Checking/Creating default data (Monthly plans/Instructor)...")

	// --- Monthly plans --- //
	inserted, err := plans.EnsureDefaults(ctx, appModels.DefaultMonthlyPlans())
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding monthly plans")
		finalErr = errors.Join(finalErr, err)
	} else if inserted > 0 {
		lgr.Info().Int("inserted", inserted).Msg("Default monthly plans created")
	}

	// --- Default instructor --- //
	if admin.Email == "" || admin.Password == "" {
		lgr.Warn().Msg("No default instructor configured, skipping")
		return finalErr
	}

	count, err := instructors.Count(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting instructors")
		return errors.Join(finalErr, err)
	}
	if count > 0 {
		return finalErr
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default instructor password")
		return errors.Join(finalErr, err)
	}

	name := admin.Name
	if name == "" {
		name = "Sensei"
	}
	instructor := &appModels.Instructor{Account: appModels.Account{
		Name:         name,
		Email:        admin.Email,
		PasswordHash: hash,
		Active:       true,
	}}
	if err := instructors.Create(ctx, instructor); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default instructor")
		return errors.Join(finalErr, err)
	}
	lgr.Info().Int64("instructorID", instructor.ID).Str("email", instructor.Email).Msg("Default instructor created successfully")

	return finalErr
}
