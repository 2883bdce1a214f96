package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/export"
	"github.com/yigit/dojo/internal/pkg/helpers"
)

// Sort fields accepted by List
var graduationSortFields = map[string]bool{
	"date":           true,
	"level":          true,
	"availableSlots": true,
	"createdAt":      true,
}

// CreateGraduationInput holds the fields of a new graduation
type CreateGraduationInput struct {
	Level          string
	Scope          string
	InstructorID   int64
	Location       string
	Date           *time.Time
	AvailableSlots int
}

// GraduationQuery holds the raw list parameters
type GraduationQuery struct {
	BeltColor      string
	Date           string // YYYY-MM-DD or RFC3339
	AvailableSlots *int
	SortBy         string
	SortOrder      string
	Page           int
	PageSize       int
}

// GraduationPage is one page of graduations
type GraduationPage struct {
	Items       []*models.Graduation
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalItems  int64
}

// GraduationService defines the interface for the graduation catalog
type GraduationService interface {
	Create(ctx context.Context, input CreateGraduationInput) (*models.Graduation, error)
	List(ctx context.Context, query GraduationQuery) (*GraduationPage, error)
	GetByID(ctx context.Context, id int64) (*models.Graduation, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Graduation, error)
	Update(ctx context.Context, id int64, patch models.GraduationPatch) (*models.Graduation, error)
	Delete(ctx context.Context, id int64) error
	ExportRoster(ctx context.Context, id int64) ([]byte, error)
}

// graduationServiceImpl implements GraduationService
type graduationServiceImpl struct {
	graduations GraduationStore
	instructors InstructorStore
	students    StudentStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGraduationService creates a new GraduationService
func NewGraduationService(graduations GraduationStore, instructors InstructorStore, students StudentStore, logger zerolog.Logger) GraduationService {
	return &graduationServiceImpl{
		graduations: graduations,
		instructors: instructors,
		students:    students,
		logger:      logger,
		now:         time.Now,
	}
}

// Create validates and stores a new graduation with an empty roster
func (s *graduationServiceImpl) Create(ctx context.Context, input CreateGraduationInput) (*models.Graduation, error) {
	verr := &apperrors.ValidationError{}

	level, err := models.ParseBeltRank(input.Level)
	if err != nil {
		verr.Add("level", "must be one of: "+beltNames())
	}
	scope, err := models.ParseGraduationScope(input.Scope)
	if err != nil {
		verr.Add("scope", "must be one of: internal, regional, national")
	}
	if input.AvailableSlots < 0 {
		verr.Add("availableSlots", "must not be negative")
	}
	if strings.TrimSpace(input.Location) == "" {
		verr.Add("location", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.instructors.GetByID(ctx, input.InstructorID); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if input.Date != nil && !input.Date.IsZero() {
		date = input.Date.UTC()
	}

	graduation := &models.Graduation{
		Level:              level,
		Scope:              scope,
		Date:               date,
		InstructorID:       input.InstructorID,
		Location:           strings.TrimSpace(input.Location),
		AvailableSlots:     input.AvailableSlots,
		EnrolledStudentIDs: []int64{},
		Evaluations:        []models.StudentEvaluation{},
	}
	if err := s.graduations.Create(ctx, graduation); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("graduationID", graduation.ID).
		Str("level", string(level)).
		Str("scope", string(scope)).
		Int("availableSlots", graduation.AvailableSlots).
		Msg("Graduation created")
	return graduation, nil
}

// List returns a filtered, sorted page of graduations
func (s *graduationServiceImpl) List(ctx context.Context, query GraduationQuery) (*GraduationPage, error) {
	filter, err := buildGraduationFilter(query)
	if err != nil {
		return nil, err
	}

	items, total, err := s.graduations.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &GraduationPage{
		Items:       items,
		CurrentPage: filter.Page,
		PageSize:    filter.PageSize,
		TotalPages:  helpers.TotalPages(total, filter.PageSize),
		TotalItems:  total,
	}, nil
}

// GetByID returns one graduation with its roster and evaluations
func (s *graduationServiceImpl) GetByID(ctx context.Context, id int64) (*models.Graduation, error) {
	return s.graduations.GetByID(ctx, id)
}

// Update applies the legacy single-field patch
func (s *graduationServiceImpl) Update(ctx context.Context, id int64, patch models.GraduationPatch) (*models.Graduation, error) {
	if patch.Score != nil && (*patch.Score < 0 || *patch.Score > 100) {
		return nil, apperrors.ErrInvalidScore
	}
	if patch.IsEmpty() {
		return s.graduations.GetByID(ctx, id)
	}
	return s.graduations.ApplyPatch(ctx, id, patch)
}

// Delete removes a graduation
func (s *graduationServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.graduations.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("graduationID", id).Msg("Graduation deleted")
	return nil
}

// ListByStudent returns the graduation history of a student, newest first
func (s *graduationServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]*models.Graduation, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.graduations.ListByStudent(ctx, studentID)
}

// ExportRoster renders the roster of a graduation as a spreadsheet
func (s *graduationServiceImpl) ExportRoster(ctx context.Context, id int64) ([]byte, error) {
	graduation, err := s.graduations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.graduations.ListEnrollments(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	students, err := s.students.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	rows := make([]export.RosterRow, 0, len(enrollments))
	for _, e := range enrollments {
		row := export.RosterRow{StudentID: e.StudentID, EnrolledAt: e.EnrolledAt}
		if student, ok := byID[e.StudentID]; ok {
			row.Name = student.Name
			row.Email = student.Email
			row.Belt = string(student.Belt)
		} else {
			s.logger.Warn().Int64("studentID", e.StudentID).Msg("Roster student missing")
		}
		if eval := graduation.EvaluationFor(e.StudentID); eval != nil {
			score := eval.Score
			row.Score = &score
			row.DiplomaPath = eval.DiplomaPath
		}
		rows = append(rows, row)
	}

	return export.Roster(export.RosterHeader{
		GraduationID:   graduation.ID,
		Level:          string(graduation.Level),
		Scope:          string(graduation.Scope),
		Date:           graduation.Date,
		Location:       graduation.Location,
		AvailableSlots: graduation.AvailableSlots,
	}, rows, models.PassingScore)
}

func buildGraduationFilter(query GraduationQuery) (models.GraduationFilter, error) {
	verr := &apperrors.ValidationError{}
	filter := models.GraduationFilter{}

	if query.BeltColor != "" {
		level, err := models.ParseBeltRank(query.BeltColor)
		if err != nil {
			verr.Add("beltColor", "must be one of: "+beltNames())
		} else {
			filter.Level = &level
		}
	}
	if query.Date != "" {
		date, err := helpers.ParseDateOrTime(query.Date)
		if err != nil {
			verr.Add("date", "must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		} else {
			filter.DateFrom = &date
		}
	}
	if query.AvailableSlots != nil {
		if *query.AvailableSlots < 0 {
			verr.Add("availableSlots", "must not be negative")
		} else {
			filter.MinSlots = query.AvailableSlots
		}
	}
	if query.SortBy != "" {
		if !graduationSortFields[query.SortBy] {
			verr.Add("sortBy", "must be one of: date, level, availableSlots, createdAt")
		} else {
			filter.SortBy = query.SortBy
		}
	}
	switch strings.ToLower(query.SortOrder) {
	case "", "asc":
	case "desc":
		filter.SortDescending = true
	default:
		verr.Add("sortOrder", "must be asc or desc")
	}

	if err := verr.OrNil(); err != nil {
		return filter, err
	}

	filter.Page, filter.PageSize = helpers.NormalizePage(query.Page, query.PageSize)
	return filter, nil
}

func beltNames() string {
	names := make([]string, 0, len(models.BeltLedger))
	for _, b := range models.BeltLedger {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
