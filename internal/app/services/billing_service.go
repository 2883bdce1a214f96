package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/helpers"
)

// Sort fields accepted by SearchFees
var feeSortFields = map[string]bool{
	"dueDate":     true,
	"amount":      true,
	"status":      true,
	"paymentDate": true,
}

// FeeQuery holds the raw fee listing parameters
type FeeQuery struct {
	Status        string
	DueDateStart  string // YYYY-MM-DD or RFC3339
	DueDateEnd    string
	MinAmount     *float64
	MaxAmount     *float64
	StudentID     *int64
	PaymentMethod string
	SortField     string
	SortOrder     string
	Page          int
	PageSize      int
}

// FeePage is one page of monthly fees
type FeePage struct {
	Items       []models.MonthlyFee
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalItems  int64
}

// BillingService defines the interface for monthly fee state
type BillingService interface {
	BillingStatusProvider
	ListFees(ctx context.Context, studentID int64) ([]models.MonthlyFee, error)
	// SearchFees lists fees across all students for instructors
	SearchFees(ctx context.Context, query FeeQuery) (*FeePage, error)
	MarkOverdueFeesLate(ctx context.Context) (models.FeeSweepResult, error)
	MarkFeePaid(ctx context.Context, feeID int64, method string, transactionID *string) (*models.MonthlyFee, error)
}

// billingServiceImpl implements BillingService
type billingServiceImpl struct {
	fees   FeeStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewBillingService creates a new BillingService
func NewBillingService(fees FeeStore, logger zerolog.Logger) BillingService {
	return &billingServiceImpl{
		fees:   fees,
		logger: logger,
		now:    time.Now,
	}
}

// HasOutstandingLateFee reports a late fee, or a pending one already past its due date
func (s *billingServiceImpl) HasOutstandingLateFee(ctx context.Context, studentID int64) (bool, error) {
	return s.fees.HasOutstandingLateFee(ctx, studentID, s.now().UTC())
}

// ListFees returns the fees of a student, newest first
func (s *billingServiceImpl) ListFees(ctx context.Context, studentID int64) ([]models.MonthlyFee, error) {
	return s.fees.ListByStudent(ctx, studentID)
}

// SearchFees validates the query and returns the matching page
func (s *billingServiceImpl) SearchFees(ctx context.Context, query FeeQuery) (*FeePage, error) {
	filter, err := buildFeeFilter(query)
	if err != nil {
		return nil, err
	}

	items, total, err := s.fees.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &FeePage{
		Items:       items,
		CurrentPage: filter.Page,
		PageSize:    filter.PageSize,
		TotalPages:  helpers.TotalPages(total, filter.PageSize),
		TotalItems:  total,
	}, nil
}

// MarkOverdueFeesLate flips overdue pending fees to late and refreshes suspensions.
// Running it twice in a row changes nothing the second time.
func (s *billingServiceImpl) MarkOverdueFeesLate(ctx context.Context) (models.FeeSweepResult, error) {
	res, err := s.fees.MarkOverdueLate(ctx, s.now().UTC())
	if err != nil {
		return res, err
	}
	if res.FeesMarkedLate > 0 || res.StudentsSuspended > 0 || res.StudentsReinstated > 0 {
		s.logger.Info().
			Int64("feesMarkedLate", res.FeesMarkedLate).
			Int64("studentsSuspended", res.StudentsSuspended).
			Int64("studentsReinstated", res.StudentsReinstated).
			Msg("Monthly fee statuses updated")
	}
	return res, nil
}

// MarkFeePaid settles a fee
func (s *billingServiceImpl) MarkFeePaid(ctx context.Context, feeID int64, method string, transactionID *string) (*models.MonthlyFee, error) {
	pm, err := models.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}

	fee, err := s.fees.GetByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	switch fee.Status {
	case models.FeeStatusPaid:
		return nil, apperrors.ErrFeeAlreadyPaid
	case models.FeeStatusCancelled:
		return nil, apperrors.NewConflictError(fmt.Sprintf("monthly fee %d is cancelled", feeID))
	}

	paid, err := s.fees.MarkPaid(ctx, feeID, pm, transactionID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("feeID", feeID).Int64("studentID", paid.StudentID).Str("method", string(pm)).Msg("Monthly fee paid")
	return paid, nil
}

func buildFeeFilter(query FeeQuery) (models.FeeFilter, error) {
	verr := &apperrors.ValidationError{}
	filter := models.FeeFilter{}

	if query.Status != "" {
		status, err := models.ParseFeeStatus(query.Status)
		if err != nil {
			verr.Add("status", "must be one of: pending, paid, late, cancelled")
		} else {
			filter.Status = &status
		}
	}
	if query.DueDateStart != "" {
		from, err := helpers.ParseDateOrTime(query.DueDateStart)
		if err != nil {
			verr.Add("dueDateStart", "must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		} else {
			filter.DueFrom = &from
		}
	}
	if query.DueDateEnd != "" {
		to, err := helpers.ParseDateOrTime(query.DueDateEnd)
		if err != nil {
			verr.Add("dueDateEnd", "must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		} else {
			if len(query.DueDateEnd) == len(helpers.DateLayout) {
				// a bare date includes the whole day
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			filter.DueTo = &to
		}
	}
	if filter.DueFrom != nil && filter.DueTo != nil && filter.DueTo.Before(*filter.DueFrom) {
		verr.Add("dueDateEnd", "must not be before dueDateStart")
	}
	if query.MinAmount != nil && *query.MinAmount < 0 {
		verr.Add("minAmount", "must not be negative")
	}
	if query.MaxAmount != nil && *query.MaxAmount < 0 {
		verr.Add("maxAmount", "must not be negative")
	}
	if query.MinAmount != nil && query.MaxAmount != nil && *query.MaxAmount < *query.MinAmount {
		verr.Add("maxAmount", "must not be below minAmount")
	}
	filter.MinAmount, filter.MaxAmount = query.MinAmount, query.MaxAmount
	filter.StudentID = query.StudentID
	if query.PaymentMethod != "" {
		pm, err := models.ParsePaymentMethod(query.PaymentMethod)
		if err != nil {
			verr.Add("paymentMethod", "must be one of: cash, card, transfer")
		} else {
			filter.PaymentMethod = &pm
		}
	}
	if query.SortField != "" {
		if !feeSortFields[query.SortField] {
			verr.Add("sortField", "must be one of: dueDate, amount, status, paymentDate")
		} else {
			filter.SortBy = query.SortField
		}
	}
	switch strings.ToLower(query.SortOrder) {
	case "", "desc":
	case "asc":
		filter.SortAscending = true
	default:
		verr.Add("sortOrder", "must be asc or desc")
	}

	if err := verr.OrNil(); err != nil {
		return filter, err
	}

	filter.Page, filter.PageSize = helpers.NormalizePage(query.Page, query.PageSize)
	return filter, nil
}
