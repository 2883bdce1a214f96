package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
)

func init() {
	auth.BcryptCost = 4
}

func TestRegisterStudent(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.instructors, 10, zerolog.Nop())
	ctx := context.Background()

	student, err := svc.Register(ctx, RegisterStudentInput{
		Name:         "Daniel LaRusso",
		Email:        "Daniel@Dojo.pt",
		Password:     "wax-on-wax-off",
		InstructorID: int64Ptr(f.sensei.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "daniel@dojo.pt", student.Email)
	assert.Equal(t, models.BeltWhite, student.Belt)
	assert.NotEqual(t, "wax-on-wax-off", student.PasswordHash)
	assert.True(t, auth.CheckPassword(student.PasswordHash, "wax-on-wax-off"))

	_, err = svc.Register(ctx, RegisterStudentInput{Name: "Other", Email: "daniel@dojo.pt", Password: "12345678"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterStudent_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.instructors, 10, zerolog.Nop())

	_, err := svc.Register(context.Background(), RegisterStudentInput{Name: "D", Email: "nope", Password: "short", Belt: "pink"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)

	_, err = svc.Register(context.Background(), RegisterStudentInput{
		Name: "Daniel", Email: "d@dojo.pt", Password: "12345678", InstructorID: int64Ptr(55),
	})
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
}

func TestChoosePlan(t *testing.T) {
	f := newFixture(t)
	svc := NewPlanService(f.plans, f.students, f.fees, zerolog.Nop()).(*planServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	s := f.student(t, "daniel", models.BeltGreen, 0)

	sub, err := svc.ChoosePlan(ctx, s.ID, standardPlanID)
	require.NoError(t, err)
	assert.Equal(t, "Standard", sub.Plan.Name)
	assert.Equal(t, 100.0, sub.FirstFee.Amount)
	assert.Equal(t, models.FeeStatusPending, sub.FirstFee.Status)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), sub.FirstFee.DueDate)

	active, err := svc.GetActivePlan(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, standardPlanID, active.ID)

	_, err = svc.ChoosePlan(ctx, s.ID, premiumPlanID)
	assert.ErrorIs(t, err, apperrors.ErrPlanAlreadyActive)
}

func TestChoosePlan_UnknownPlan(t *testing.T) {
	f := newFixture(t)
	svc := NewPlanService(f.plans, f.students, f.fees, zerolog.Nop())
	s := f.student(t, "daniel", models.BeltGreen, 0)

	_, err := svc.ChoosePlan(context.Background(), s.ID, 99)
	assert.ErrorIs(t, err, apperrors.ErrPlanNotFound)
}

func TestCancelPlan(t *testing.T) {
	f := newFixture(t)
	svc := NewPlanService(f.plans, f.students, f.fees, zerolog.Nop())
	ctx := context.Background()
	s := f.student(t, "daniel", models.BeltGreen, basicPlanID)

	require.NoError(t, svc.CancelPlan(ctx, s.ID))
	_, err := svc.GetActivePlan(ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoActivePlan)
	assert.ErrorIs(t, svc.CancelPlan(ctx, s.ID), apperrors.ErrNoActivePlan)
}

func TestBilling_LateFeeBlocksEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	billing := NewBillingService(f.fees, zerolog.Nop()).(*billingServiceImpl)
	f.billing = billing
	f.rebuild()

	s := f.student(t, "daniel", models.BeltGreen, 0)
	require.NoError(t, f.fees.Subscribe(ctx, &models.MonthlyFee{
		StudentID: s.ID,
		PlanID:    basicPlanID,
		Amount:    50,
		DueDate:   time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Status:    models.FeeStatusPending,
	}))
	g := f.graduation(t, "blue", "internal", 1)

	billing.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	late, err := billing.HasOutstandingLateFee(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, late)

	billing.now = func() time.Time { return time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC) }
	_, err = f.enrollment.Enroll(ctx, s.ID, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrPaymentRequired)
}

func TestBilling_SweepIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	billing := NewBillingService(f.fees, zerolog.Nop()).(*billingServiceImpl)
	billing.now = func() time.Time { return time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) }

	s := f.student(t, "daniel", models.BeltGreen, 0)
	require.NoError(t, f.fees.Subscribe(ctx, &models.MonthlyFee{
		StudentID: s.ID, PlanID: basicPlanID, Amount: 50,
		DueDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Status: models.FeeStatusPending,
	}))

	first, err := billing.MarkOverdueFeesLate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.FeesMarkedLate)

	second, err := billing.MarkOverdueFeesLate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.FeesMarkedLate)
}

func TestBilling_MarkFeePaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	billing := NewBillingService(f.fees, zerolog.Nop())
	s := f.student(t, "daniel", models.BeltGreen, 0)
	fee := &models.MonthlyFee{StudentID: s.ID, PlanID: basicPlanID, Amount: 50, DueDate: time.Now().UTC(), Status: models.FeeStatusLate}
	require.NoError(t, f.fees.Subscribe(ctx, fee))

	_, err := billing.MarkFeePaid(ctx, fee.ID, "bitcoin", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	tx := "TX-1"
	paid, err := billing.MarkFeePaid(ctx, fee.ID, "card", &tx)
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, models.PaymentCard, *paid.PaymentMethod)

	_, err = billing.MarkFeePaid(ctx, fee.ID, "cash", nil)
	assert.ErrorIs(t, err, apperrors.ErrFeeAlreadyPaid)

	_, err = billing.MarkFeePaid(ctx, 404, "cash", nil)
	assert.ErrorIs(t, err, apperrors.ErrMonthlyFeeNotFound)

	fees, err := billing.ListFees(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, fees, 1)
}

func TestBilling_SearchFees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	billing := NewBillingService(f.fees, zerolog.Nop())
	a := f.student(t, "daniel", models.BeltGreen, 0)
	b := f.student(t, "ali", models.BeltGreen, 0)
	for i, fee := range []*models.MonthlyFee{
		{StudentID: a.ID, Amount: 50, Status: models.FeeStatusLate},
		{StudentID: a.ID, Amount: 100, Status: models.FeeStatusPending},
		{StudentID: b.ID, Amount: 150, Status: models.FeeStatusLate},
	} {
		fee.PlanID = basicPlanID
		fee.DueDate = time.Date(2024, time.Month(i+1), models.FeeDueDay, 0, 0, 0, 0, time.UTC)
		require.NoError(t, f.fees.Subscribe(ctx, fee))
	}

	page, err := billing.SearchFees(ctx, FeeQuery{Status: "LATE"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 150.0, page.Items[0].Amount, "newest due date first by default")
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)

	floor := 60.0
	page, err = billing.SearchFees(ctx, FeeQuery{MinAmount: &floor, StudentID: int64Ptr(a.ID), SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 100.0, page.Items[0].Amount)

	page, err = billing.SearchFees(ctx, FeeQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestBuildFeeFilter(t *testing.T) {
	low, high := 80.0, 20.0
	_, err := buildFeeFilter(FeeQuery{
		Status: "overdue", DueDateStart: "soon", PaymentMethod: "bitcoin",
		MinAmount: &low, MaxAmount: &high, SortField: "notes", SortOrder: "up",
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 6)

	filter, err := buildFeeFilter(FeeQuery{
		DueDateStart: "2024-02-01", DueDateEnd: "2024-02-29", PaymentMethod: "Card", SortField: "amount",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *filter.DueFrom)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), *filter.DueTo)
	assert.Equal(t, models.PaymentCard, *filter.PaymentMethod)
	assert.Equal(t, "amount", filter.SortBy)
	assert.False(t, filter.SortAscending)

	_, err = buildFeeFilter(FeeQuery{DueDateStart: "2024-03-01", DueDateEnd: "2024-02-01"})
	assert.Error(t, err)
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID int64, _ string, role models.RoleType) (string, int64, error) {
	return "token-" + string(role), 3600, nil
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hash, err := auth.HashPassword("wax-on-wax-off")
	require.NoError(t, err)
	f.sensei.PasswordHash = hash
	f.students.add(&models.Student{Account: models.Account{Name: "Daniel", Email: "daniel@dojo.pt", PasswordHash: hash, Active: true}})
	f.students.add(&models.Student{Account: models.Account{Name: "Ghost", Email: "ghost@dojo.pt", PasswordHash: hash, Active: false}})

	svc := NewAuthService(f.students, f.instructors, stubTokens{}, zerolog.Nop())

	token, err := svc.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "Daniel@dojo.pt", Password: "wax-on-wax-off"})
	require.NoError(t, err)
	assert.Equal(t, "token-Student", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	token, err = svc.Login(ctx, models.RoleAdmin, &dto.LoginRequest{Email: "miyagi@dojo.pt", Password: "wax-on-wax-off"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", token.Role)

	_, err = svc.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "daniel@dojo.pt", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.RoleAdmin, &dto.LoginRequest{Email: "daniel@dojo.pt", Password: "wax-on-wax-off"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.RoleStudent, &dto.LoginRequest{Email: "ghost@dojo.pt", Password: "wax-on-wax-off"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}
