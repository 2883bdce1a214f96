package services

import (
	"context"
	"time"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/diploma"
	"github.com/yigit/dojo/internal/pkg/email"
)

// Stores and gateways consumed by the services. The Postgres repositories
// implement the stores; internal/pkg provides the gateways.

// GraduationStore persists graduations, their roster and evaluations
type GraduationStore interface {
	Create(ctx context.Context, g *models.Graduation) error
	GetByID(ctx context.Context, id int64) (*models.Graduation, error)
	List(ctx context.Context, filter models.GraduationFilter) ([]*models.Graduation, int64, error)
	// ListByStudent returns the graduations the student is or was enrolled in
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Graduation, error)
	ApplyPatch(ctx context.Context, id int64, patch models.GraduationPatch) (*models.Graduation, error)
	Delete(ctx context.Context, id int64) error

	// FindActiveEnrollment returns the graduation the student is actively enrolled in
	FindActiveEnrollment(ctx context.Context, studentID int64) (graduationID int64, found bool, err error)
	ListEnrollments(ctx context.Context, graduationID int64) ([]models.Enrollment, error)
	// Enroll adds the student to the roster and consumes one slot atomically
	Enroll(ctx context.Context, graduationID, studentID int64) (*models.Graduation, error)
	// Unenroll removes an active enrollment and releases its slot atomically
	Unenroll(ctx context.Context, graduationID, studentID int64) (*models.Graduation, error)
	// RecordEvaluation stores the evaluation, closes the enrollment and applies the promotion atomically
	RecordEvaluation(ctx context.Context, eval *models.StudentEvaluation, promoteTo *models.BeltRank) error
	SetDiplomaPath(ctx context.Context, evaluationID int64, path string) error
}

// StudentStore persists students
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	// ListByIDs loads the students in one round trip; unknown IDs are skipped
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Student, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]*models.Student, error)
}

// InstructorStore persists instructors
type InstructorStore interface {
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
	GetByEmail(ctx context.Context, email string) (*models.Instructor, error)
	List(ctx context.Context) ([]*models.Instructor, error)
	CountStudents(ctx context.Context, instructorID int64) (int, error)
	// AssignStudent moves the student to the instructor unless that would exceed limit
	AssignStudent(ctx context.Context, instructorID, studentID int64, limit int) error
	UnassignStudent(ctx context.Context, instructorID, studentID int64) error
}

// PlanStore reads the seeded monthly plans
type PlanStore interface {
	List(ctx context.Context) ([]models.MonthlyPlan, error)
	GetByID(ctx context.Context, id int64) (*models.MonthlyPlan, error)
}

// FeeStore persists monthly fees and plan subscriptions
type FeeStore interface {
	// Subscribe sets the student's plan and inserts the first fee in one transaction
	Subscribe(ctx context.Context, fee *models.MonthlyFee) error
	Unsubscribe(ctx context.Context, studentID int64) error
	GetByID(ctx context.Context, id int64) (*models.MonthlyFee, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.MonthlyFee, error)
	List(ctx context.Context, filter models.FeeFilter) ([]models.MonthlyFee, int64, error)
	MarkPaid(ctx context.Context, id int64, method models.PaymentMethod, transactionID *string, paidAt time.Time) (*models.MonthlyFee, error)
	HasOutstandingLateFee(ctx context.Context, studentID int64, now time.Time) (bool, error)
	MarkOverdueLate(ctx context.Context, now time.Time) (models.FeeSweepResult, error)
}

// BillingStatusProvider tells whether a student is blocked by unpaid fees
type BillingStatusProvider interface {
	HasOutstandingLateFee(ctx context.Context, studentID int64) (bool, error)
}

// DiplomaGateway renders a diploma and returns its storage path
type DiplomaGateway interface {
	Generate(ctx context.Context, req diploma.Request) (string, error)
}

// NotificationGateway delivers an email with stored attachments
type NotificationGateway interface {
	Send(ctx context.Context, note email.Notification) error
}
