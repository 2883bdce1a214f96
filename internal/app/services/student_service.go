package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/auth"
	"github.com/yigit/dojo/internal/pkg/validation"
)

// RegisterStudentInput holds the fields of a new student account
type RegisterStudentInput struct {
	Name         string
	Email        string
	Password     string
	Belt         string
	InstructorID *int64
}

// StudentService defines the interface for student accounts
type StudentService interface {
	Register(ctx context.Context, input RegisterStudentInput) (*models.Student, error)
	GetProfile(ctx context.Context, id int64) (*models.Student, error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	students    StudentStore
	instructors InstructorStore
	maxStudents int
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService. maxStudents caps the
// students registered under one instructor.
func NewStudentService(students StudentStore, instructors InstructorStore, maxStudents int, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		students:    students,
		instructors: instructors,
		maxStudents: maxStudents,
		logger:      logger,
	}
}

// Register creates a student account. New students start at white unless a belt is given.
func (s *studentServiceImpl) Register(ctx context.Context, input RegisterStudentInput) (*models.Student, error) {
	verr := &apperrors.ValidationError{}

	name := strings.TrimSpace(input.Name)
	if !validation.ValidName(name) {
		verr.Add("name", fmt.Sprintf("must be between %d and %d characters", validation.NameMinLength, validation.NameMaxLength))
	}
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	if !validation.ValidEmail(emailAddr) {
		verr.Add("email", "must be a valid email address")
	}
	if !validation.ValidPassword(input.Password) {
		verr.Add("password", fmt.Sprintf("must be between %d and %d characters", validation.PasswordMinLength, validation.PasswordMaxLength))
	}
	belt := models.BeltWhite
	if input.Belt != "" {
		parsed, err := models.ParseBeltRank(input.Belt)
		if err != nil {
			verr.Add("belt", "must be one of: "+beltNames())
		}
		belt = parsed
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if input.InstructorID != nil {
		if _, err := s.instructors.GetByID(ctx, *input.InstructorID); err != nil {
			return nil, err
		}
		// Unlocked pre-check; AssignStudent enforces the cap under a row lock.
		n, err := s.instructors.CountStudents(ctx, *input.InstructorID)
		if err != nil {
			return nil, err
		}
		if n >= s.maxStudents {
			return nil, apperrors.ErrStudentLimitReached
		}
	}

	if _, err := s.students.GetByEmail(ctx, emailAddr); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	student := &models.Student{
		Account: models.Account{
			Name:         name,
			Email:        emailAddr,
			PasswordHash: hash,
			Active:       true,
		},
		Belt:                  belt,
		InstructorID:          input.InstructorID,
		EnrolledGraduationIDs: []int64{},
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("belt", string(belt)).Msg("Student registered")
	return student, nil
}

// GetProfile returns the student with the derived enrollment fields
func (s *studentServiceImpl) GetProfile(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}
