package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
)

// InstructorService manages which students an instructor teaches
type InstructorService interface {
	ListInstructors(ctx context.Context) ([]*models.Instructor, error)
	ListStudents(ctx context.Context, instructorID int64) ([]*models.Student, error)
	// AssignStudent moves the student to the instructor. A student assigned
	// elsewhere is transferred.
	AssignStudent(ctx context.Context, instructorID, studentID int64) (*models.Student, error)
	RemoveStudent(ctx context.Context, instructorID, studentID int64) error
}

// instructorServiceImpl implements InstructorService
type instructorServiceImpl struct {
	instructors InstructorStore
	students    StudentStore
	maxStudents int
	logger      zerolog.Logger
}

// NewInstructorService creates a new InstructorService. maxStudents caps the
// students of one instructor.
func NewInstructorService(instructors InstructorStore, students StudentStore, maxStudents int, logger zerolog.Logger) InstructorService {
	return &instructorServiceImpl{
		instructors: instructors,
		students:    students,
		maxStudents: maxStudents,
		logger:      logger,
	}
}

// ListInstructors returns every instructor
func (s *instructorServiceImpl) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	return s.instructors.List(ctx)
}

// ListStudents returns the students assigned to the instructor
func (s *instructorServiceImpl) ListStudents(ctx context.Context, instructorID int64) ([]*models.Student, error) {
	if _, err := s.instructors.GetByID(ctx, instructorID); err != nil {
		return nil, err
	}
	return s.students.ListByInstructor(ctx, instructorID)
}

// AssignStudent assigns the student and returns the updated profile
func (s *instructorServiceImpl) AssignStudent(ctx context.Context, instructorID, studentID int64) (*models.Student, error) {
	if err := s.instructors.AssignStudent(ctx, instructorID, studentID, s.maxStudents); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("instructorID", instructorID).Int64("studentID", studentID).Msg("Student assigned")
	return s.students.GetByID(ctx, studentID)
}

// RemoveStudent clears the assignment
func (s *instructorServiceImpl) RemoveStudent(ctx context.Context, instructorID, studentID int64) error {
	if _, err := s.instructors.GetByID(ctx, instructorID); err != nil {
		return err
	}
	if err := s.instructors.UnassignStudent(ctx, instructorID, studentID); err != nil {
		return err
	}
	s.logger.Info().Int64("instructorID", instructorID).Int64("studentID", studentID).Msg("Student unassigned")
	return nil
}
