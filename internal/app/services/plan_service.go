package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
)

// PlanSubscription is the result of choosing a plan
type PlanSubscription struct {
	Plan     models.MonthlyPlan
	FirstFee models.MonthlyFee
}

// PlanService defines the interface for plan subscriptions
type PlanService interface {
	ListPlans(ctx context.Context) ([]models.MonthlyPlan, error)
	GetActivePlan(ctx context.Context, studentID int64) (*models.MonthlyPlan, error)
	ChoosePlan(ctx context.Context, studentID, planID int64) (*PlanSubscription, error)
	CancelPlan(ctx context.Context, studentID int64) error
}

// planServiceImpl implements PlanService
type planServiceImpl struct {
	plans    PlanStore
	students StudentStore
	fees     FeeStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPlanService creates a new PlanService
func NewPlanService(plans PlanStore, students StudentStore, fees FeeStore, logger zerolog.Logger) PlanService {
	return &planServiceImpl{
		plans:    plans,
		students: students,
		fees:     fees,
		logger:   logger,
		now:      time.Now,
	}
}

// ListPlans returns the seeded plan templates
func (s *planServiceImpl) ListPlans(ctx context.Context) ([]models.MonthlyPlan, error) {
	return s.plans.List(ctx)
}

// GetActivePlan returns the student's current plan or ErrNoActivePlan
func (s *planServiceImpl) GetActivePlan(ctx context.Context, studentID int64) (*models.MonthlyPlan, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.HasPlan() {
		return nil, apperrors.ErrNoActivePlan
	}
	return s.plans.GetByID(ctx, *student.MonthlyPlanID)
}

// ChoosePlan subscribes the student and creates the first pending fee
func (s *planServiceImpl) ChoosePlan(ctx context.Context, studentID, planID int64) (*PlanSubscription, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.HasPlan() {
		return nil, apperrors.ErrPlanAlreadyActive
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	fee := &models.MonthlyFee{
		StudentID: studentID,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		DueDate:   models.FirstDueDate(s.now().UTC()),
		Status:    models.FeeStatusPending,
	}
	if err := s.fees.Subscribe(ctx, fee); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("planID", plan.ID).
		Int64("feeID", fee.ID).
		Time("dueDate", fee.DueDate).
		Msg("Student subscribed to plan")
	return &PlanSubscription{Plan: *plan, FirstFee: *fee}, nil
}

// CancelPlan clears the student's plan
func (s *planServiceImpl) CancelPlan(ctx context.Context, studentID int64) error {
	if err := s.fees.Unsubscribe(ctx, studentID); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", studentID).Msg("Student plan cancelled")
	return nil
}
