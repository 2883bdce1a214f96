package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
)

// EnrollmentService defines the interface for roster operations
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, graduationID int64) (*models.Graduation, error)
	Unenroll(ctx context.Context, studentID, graduationID int64) (*models.Graduation, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	graduations GraduationStore
	students    StudentStore
	plans       PlanStore
	billing     BillingStatusProvider
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	graduations GraduationStore,
	students StudentStore,
	plans PlanStore,
	billing BillingStatusProvider,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		graduations: graduations,
		students:    students,
		plans:       plans,
		billing:     billing,
		logger:      logger,
	}
}

// Enroll validates eligibility and adds the student to the graduation roster.
// Checks run in a fixed order and the first failure is returned.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, graduationID int64) (*models.Graduation, error) {
	graduation, err := s.graduations.GetByID(ctx, graduationID)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if !student.HasPlan() {
		return nil, apperrors.ErrPlanRequired
	}
	plan, err := s.plans.GetByID(ctx, *student.MonthlyPlanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanRequired
		}
		return nil, err
	}

	late, err := s.billing.HasOutstandingLateFee(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if late || student.Suspended {
		return nil, apperrors.ErrPaymentRequired
	}

	activeID, found, err := s.graduations.FindActiveEnrollment(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if found && activeID != graduationID {
		return nil, apperrors.ErrAlreadyEnrolledElsewhere
	}

	if graduation.IsEnrolled(studentID) {
		return nil, apperrors.ErrAlreadyEnrolled
	}

	if graduation.AvailableSlots <= 0 {
		return nil, apperrors.ErrNoSlotsAvailable
	}

	if !models.IsScopePermitted(plan, graduation.Scope) {
		return nil, apperrors.ErrScopeNotPermitted
	}

	if err := checkBeltProgression(student.Belt, graduation.Level); err != nil {
		return nil, err
	}

	updated, err := s.graduations.Enroll(ctx, graduationID, studentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("graduationID", graduationID).
		Int64("studentID", studentID).
		Int("availableSlots", updated.AvailableSlots).
		Msg("Student enrolled in graduation")
	return updated, nil
}

// Unenroll removes the student from the roster and releases the slot
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, studentID, graduationID int64) (*models.Graduation, error) {
	graduation, err := s.graduations.GetByID(ctx, graduationID)
	if err != nil {
		return nil, err
	}

	if !graduation.IsEnrolled(studentID) {
		return nil, apperrors.ErrNotEnrolled
	}
	if graduation.EvaluationFor(studentID) != nil {
		return nil, apperrors.ErrAlreadyEvaluated
	}

	updated, err := s.graduations.Unenroll(ctx, graduationID, studentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("graduationID", graduationID).
		Int64("studentID", studentID).
		Int("availableSlots", updated.AvailableSlots).
		Msg("Student unenrolled from graduation")
	return updated, nil
}

// checkBeltProgression accepts only the belt directly above the current one
func checkBeltProgression(current, level models.BeltRank) error {
	ok, err := models.IsImmediateNext(current, level)
	if err != nil {
		return fmt.Errorf("belt progression check failed: %w", err)
	}
	if ok {
		return nil
	}

	mismatch := &apperrors.BeltMismatchError{Current: string(current), Level: string(level)}
	if next, hasNext := models.NextBelt(current); hasNext {
		mismatch.Expected = string(next)
	}
	return mismatch
}
