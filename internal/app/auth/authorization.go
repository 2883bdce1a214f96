package auth

import (
	"context"
	"errors"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/logger"
)

// StudentFinder loads students by ID
type StudentFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// InstructorFinder loads instructors by ID
type InstructorFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
}

// LateFeeChecker reports outstanding late fees of a student
type LateFeeChecker interface {
	HasOutstandingLateFee(ctx context.Context, studentID int64) (bool, error)
}

// AuthorizationService checks account standing beyond what the token carries
type AuthorizationService struct {
	students    StudentFinder
	instructors InstructorFinder
	billing     LateFeeChecker
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(students StudentFinder, instructors InstructorFinder, billing LateFeeChecker) *AuthorizationService {
	return &AuthorizationService{
		students:    students,
		instructors: instructors,
		billing:     billing,
	}
}

// ValidateInstructor returns an error unless the user is an active instructor
func (s *AuthorizationService) ValidateInstructor(ctx context.Context, userID int64) error {
	instructor, err := s.instructors.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewForbiddenError("only instructors can perform this action")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting instructor in ValidateInstructor")
		return err
	}
	if !instructor.Active {
		return apperrors.ErrAccountDisabled
	}
	return nil
}

// ValidateStudentStanding returns ErrPaymentRequired when the student is suspended
// or has a late fee, and ErrAccountDisabled when the account is inactive
func (s *AuthorizationService) ValidateStudentStanding(ctx context.Context, studentID int64) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Error().Err(err).Int64("studentID", studentID).Msg("Error getting student in ValidateStudentStanding")
		}
		return err
	}
	if !student.Active {
		return apperrors.ErrAccountDisabled
	}
	if student.Suspended {
		return apperrors.ErrPaymentRequired
	}

	late, err := s.billing.HasOutstandingLateFee(ctx, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error checking late fees in ValidateStudentStanding")
		return err
	}
	if late {
		return apperrors.ErrPaymentRequired
	}
	return nil
}
