package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/dojo/internal/pkg/apperrors"
)

// FeeStatus is the billing state of a monthly fee
type FeeStatus string

const (
	FeeStatusPending   FeeStatus = "pending"
	FeeStatusPaid      FeeStatus = "paid"
	FeeStatusLate      FeeStatus = "late"
	FeeStatusCancelled FeeStatus = "cancelled"
)

// PaymentMethod is how a fee was settled
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// FeeDueDay is the day of month on which fees fall due
const FeeDueDay = 5

// ParsePaymentMethod validates a payment method
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return m, nil
	}
	return "", fmt.Errorf("%w: unrecognized payment method %q", apperrors.ErrValidationFailed, value)
}

// MonthlyFee defines a fee based on the 'monthly_fees' table
type MonthlyFee struct {
	ID            int64          `json:"id" db:"id" example:"1"`
	StudentID     int64          `json:"studentId" db:"student_id" example:"3"`
	PlanID        int64          `json:"planId" db:"plan_id" example:"2"`
	Amount        float64        `json:"amount" db:"amount" example:"100"`
	DueDate       time.Time      `json:"dueDate" db:"due_date"`
	PaymentDate   *time.Time     `json:"paymentDate,omitempty" db:"payment_date"`
	Status        FeeStatus      `json:"status" db:"status" example:"pending"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty" db:"payment_method"`
	TransactionID *string        `json:"transactionId,omitempty" db:"transaction_id"`
	Notes         *string        `json:"notes,omitempty" db:"notes"`
	ReceiptPath   *string        `json:"receiptPath,omitempty" db:"receipt_path"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsOverdue reports whether a pending fee is past its due date
func (f *MonthlyFee) IsOverdue(now time.Time) bool {
	return f.Status == FeeStatusPending && f.DueDate.Before(now)
}

// FirstDueDate returns the due date of the first fee of a plan chosen at now
func FirstDueDate(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m+1, FeeDueDay, 0, 0, 0, 0, now.Location())
}

// FeeSweepResult reports what a fee status sweep changed
type FeeSweepResult struct {
	FeesMarkedLate     int64
	StudentsSuspended  int64
	StudentsReinstated int64
}

// FeeFilter narrows the instructor fee listing. Nil fields are ignored.
type FeeFilter struct {
	Status        *FeeStatus
	DueFrom       *time.Time
	DueTo         *time.Time
	MinAmount     *float64
	MaxAmount     *float64
	StudentID     *int64
	PaymentMethod *PaymentMethod
	SortBy        string // dueDate, amount, status, paymentDate or empty
	SortAscending bool
	Page          int
	PageSize      int
}

// ParseFeeStatus validates a fee status
func ParseFeeStatus(value string) (FeeStatus, error) {
	s := FeeStatus(strings.ToLower(strings.TrimSpace(value)))
	switch s {
	case FeeStatusPending, FeeStatusPaid, FeeStatusLate, FeeStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unrecognized fee status %q", apperrors.ErrValidationFailed, value)
}
