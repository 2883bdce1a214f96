package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/diploma"
	"github.com/yigit/dojo/internal/pkg/email"
)

// EvaluateInput carries one student's result in one graduation
type EvaluateInput struct {
	GraduationID int64
	StudentID    int64
	Score        int
	Comments     string
	InstructorID int64
}

// EvaluationOutcome is the result of an evaluation
type EvaluationOutcome struct {
	Message    string
	Promoted   bool
	NewBelt    *models.BeltRank
	Evaluation models.StudentEvaluation
}

// EvaluationService defines the interface for grading enrolled students
type EvaluationService interface {
	Evaluate(ctx context.Context, input EvaluateInput) (*EvaluationOutcome, error)
}

// evaluationServiceImpl implements EvaluationService
type evaluationServiceImpl struct {
	graduations GraduationStore
	students    StudentStore
	instructors InstructorStore
	diplomas    DiplomaGateway
	notifier    NotificationGateway
	schoolName  string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(
	graduations GraduationStore,
	students StudentStore,
	instructors InstructorStore,
	diplomas DiplomaGateway,
	notifier NotificationGateway,
	schoolName string,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationServiceImpl{
		graduations: graduations,
		students:    students,
		instructors: instructors,
		diplomas:    diplomas,
		notifier:    notifier,
		schoolName:  schoolName,
		logger:      logger,
		now:         time.Now,
	}
}

// Evaluate records the score of an enrolled student and promotes on a pass.
// Diploma and email failures after the commit are logged and never undo it.
func (s *evaluationServiceImpl) Evaluate(ctx context.Context, input EvaluateInput) (*EvaluationOutcome, error) {
	if input.Score < 0 || input.Score > 100 {
		return nil, apperrors.ErrInvalidScore
	}

	graduation, err := s.graduations.GetByID(ctx, input.GraduationID)
	if err != nil {
		return nil, err
	}
	if !graduation.IsEnrolled(input.StudentID) {
		return nil, apperrors.ErrNotEnrolled
	}
	if graduation.EvaluationFor(input.StudentID) != nil {
		return nil, apperrors.ErrAlreadyEvaluated
	}

	instructor, err := s.instructors.GetByID(ctx, input.InstructorID)
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	eval := &models.StudentEvaluation{
		GraduationID:            graduation.ID,
		StudentID:               student.ID,
		Score:                   input.Score,
		Comments:                input.Comments,
		EvaluatedByInstructorID: instructor.ID,
		EvaluationDate:          s.now().UTC(),
	}

	var promoteTo *models.BeltRank
	if eval.Passed() {
		level := graduation.Level
		promoteTo = &level
	}

	if err := s.graduations.RecordEvaluation(ctx, eval, promoteTo); err != nil {
		return nil, err
	}

	log := s.logger.With().
		Int64("graduationID", graduation.ID).
		Int64("studentID", student.ID).
		Int("score", eval.Score).
		Logger()

	if promoteTo == nil {
		log.Info().Msg("Student evaluated, not promoted")
		return &EvaluationOutcome{
			Message:    fmt.Sprintf("%s scored %d and was not promoted", student.Name, eval.Score),
			Evaluation: *eval,
		}, nil
	}

	log.Info().Str("belt", string(*promoteTo)).Msg("Student evaluated and promoted")
	s.issueDiploma(context.WithoutCancel(ctx), log, graduation, student, instructor, eval)

	return &EvaluationOutcome{
		Message:    fmt.Sprintf("%s scored %d and was promoted to %s", student.Name, eval.Score, *promoteTo),
		Promoted:   true,
		NewBelt:    promoteTo,
		Evaluation: *eval,
	}, nil
}

// issueDiploma generates the diploma, stores its path and emails it to the student.
// eval.DiplomaPath stays nil when generation fails.
func (s *evaluationServiceImpl) issueDiploma(
	ctx context.Context,
	log zerolog.Logger,
	graduation *models.Graduation,
	student *models.Student,
	instructor *models.Instructor,
	eval *models.StudentEvaluation,
) {
	path, err := s.diplomas.Generate(ctx, diploma.Request{
		StudentName:    student.Name,
		Belt:           string(graduation.Level),
		Date:           eval.EvaluationDate.Format("02/01/2006"),
		InstructorName: instructor.Name,
		Location:       graduation.Location,
		Score:          eval.Score,
		Comments:       eval.Comments,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate diploma")
		return
	}

	if err := s.graduations.SetDiplomaPath(ctx, eval.ID, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to store diploma path")
	} else {
		eval.DiplomaPath = &path
	}

	err = s.notifier.Send(ctx, email.Notification{
		To:              student.Email,
		ToName:          student.Name,
		Subject:         email.PromotionSubject,
		Body:            email.PromotionBody(student.Name, string(graduation.Level), s.schoolName),
		AttachmentPaths: []string{path},
	})
	if err != nil {
		log.Error().Err(err).Str("toEmail", student.Email).Msg("Failed to send promotion email")
	}
}
