package dto

import (
	"time"

	"github.com/yigit/dojo/internal/app/models"
)

// CreateGraduationRequest represents the body of POST /graduation/create
type CreateGraduationRequest struct {
	Level          string     `json:"level" binding:"required" example:"blue"`
	Scope          string     `json:"scope" binding:"required" example:"internal"`
	InstructorID   *int64     `json:"instructorId,omitempty" example:"2"` // Defaults to the caller
	Location       string     `json:"location" binding:"required" example:"Main dojo"`
	Date           *time.Time `json:"date,omitempty" example:"2024-06-01T10:00:00Z"` // Defaults to now
	AvailableSlots *int       `json:"availableSlots" binding:"required,min=0" example:"10"`
}

// UpdateGraduationRequest represents the legacy patch body of PUT /graduation/update/:id
type UpdateGraduationRequest struct {
	Score          *int    `json:"score,omitempty" example:"75"`
	Comment        *string `json:"comment,omitempty" example:"Good posture"`
	CertificateURL *string `json:"certificateUrl,omitempty" example:"https://dojo.pt/certificates/1.pdf"`
}

// EvaluateStudentRequest represents the body of PATCH /graduation/evaluate/:id
type EvaluateStudentRequest struct {
	StudentID int64  `json:"studentId" binding:"required,min=1" example:"3"`
	Score     *int   `json:"score" binding:"required" example:"80"`
	Comments  string `json:"comments" example:"Strong kihon"`
}

// EnrollmentRequest represents the body of the enroll and unenroll endpoints
type EnrollmentRequest struct {
	GraduationID int64 `json:"graduationId" binding:"required,min=1" example:"1"`
}

// GraduationListQuery binds the list query string
type GraduationListQuery struct {
	BeltColor      string `form:"beltColor" example:"blue"`
	Date           string `form:"date" example:"2024-06-01"`
	AvailableSlots *int   `form:"availableSlots" example:"1"`
	SortBy         string `form:"sortBy" example:"date"`
	SortOrder      string `form:"sortOrder" example:"asc"`
}

// GraduationResponse is the full graduation representation
type GraduationResponse struct {
	ID                 int64                      `json:"id" example:"1"`
	Level              models.BeltRank            `json:"level" example:"blue"`
	Scope              models.GraduationScope     `json:"scope" example:"internal"`
	Date               time.Time                  `json:"date"`
	InstructorID       int64                      `json:"instructorId" example:"2"`
	Location           string                     `json:"location" example:"Main dojo"`
	AvailableSlots     int                        `json:"availableSlots" example:"9"`
	Evaluated          bool                       `json:"evaluated" example:"false"`
	EnrolledStudentIDs []int64                    `json:"enrolledStudentIds"`
	Evaluations        []models.StudentEvaluation `json:"evaluations"`
	Score              *int                       `json:"score,omitempty"`
	Comments           *string                    `json:"comments,omitempty"`
	CertificateURL     *string                    `json:"certificateUrl,omitempty"`
	CreatedAt          time.Time                  `json:"createdAt"`
	UpdatedAt          time.Time                  `json:"updatedAt"`
}

// GraduationListResponse is a page of graduations
type GraduationListResponse struct {
	PaginationInfo
	Items []GraduationResponse `json:"items"`
}

// EnrollmentResponse is the graduation summary returned by a successful enroll
type EnrollmentResponse struct {
	ID             int64                  `json:"id" example:"1"`
	Level          models.BeltRank        `json:"level" example:"blue"`
	Date           time.Time              `json:"date"`
	Scope          models.GraduationScope `json:"scope" example:"internal"`
	Location       string                 `json:"location" example:"Main dojo"`
	AvailableSlots int                    `json:"availableSlots" example:"0"`
}

// EvaluationResponse is returned after a student is evaluated
type EvaluationResponse struct {
	Message    string                   `json:"message" example:"Student passed and was promoted to blue"`
	Promoted   bool                     `json:"promoted" example:"true"`
	NewBelt    *models.BeltRank         `json:"newBelt,omitempty" example:"blue"`
	Evaluation models.StudentEvaluation `json:"evaluation"`
}

// FromGraduation converts a models.Graduation to a GraduationResponse
func FromGraduation(g *models.Graduation) GraduationResponse {
	if g == nil {
		return GraduationResponse{}
	}
	resp := GraduationResponse{
		ID:                 g.ID,
		Level:              g.Level,
		Scope:              g.Scope,
		Date:               g.Date,
		InstructorID:       g.InstructorID,
		Location:           g.Location,
		AvailableSlots:     g.AvailableSlots,
		Evaluated:          g.Evaluated,
		EnrolledStudentIDs: g.EnrolledStudentIDs,
		Evaluations:        g.Evaluations,
		Score:              g.Score,
		Comments:           g.Comments,
		CertificateURL:     g.CertificateURL,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
	if resp.EnrolledStudentIDs == nil {
		resp.EnrolledStudentIDs = []int64{}
	}
	if resp.Evaluations == nil {
		resp.Evaluations = []models.StudentEvaluation{}
	}
	return resp
}

// FromGraduations converts a slice of graduations
func FromGraduations(items []*models.Graduation) []GraduationResponse {
	out := make([]GraduationResponse, 0, len(items))
	for _, g := range items {
		out = append(out, FromGraduation(g))
	}
	return out
}

// NewEnrollmentResponse builds the enroll summary
func NewEnrollmentResponse(g *models.Graduation) EnrollmentResponse {
	return EnrollmentResponse{
		ID:             g.ID,
		Level:          g.Level,
		Date:           g.Date,
		Scope:          g.Scope,
		Location:       g.Location,
		AvailableSlots: g.AvailableSlots,
	}
}
