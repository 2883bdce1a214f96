package dto

import (
	"time"

	"github.com/yigit/dojo/internal/app/models"
)

// RegisterStudentRequest represents the body of POST /students
type RegisterStudentRequest struct {
	Name         string `json:"name" binding:"required,min=2" example:"Daniel LaRusso"`
	Email        string `json:"email" binding:"required,email" example:"daniel@dojo.pt"`
	Password     string `json:"password" binding:"required,min=8" example:"wax-on-wax-off"`
	Belt         string `json:"belt,omitempty" example:"white"`
	InstructorID *int64 `json:"instructorId,omitempty" example:"2"`
}

// StudentResponse is the public view of a student
type StudentResponse struct {
	ID                 int64           `json:"id" example:"3"`
	Name               string          `json:"name" example:"Daniel LaRusso"`
	Email              string          `json:"email" example:"daniel@dojo.pt"`
	Belt               models.BeltRank `json:"belt" example:"green"`
	InstructorID       *int64          `json:"instructorId,omitempty"`
	MonthlyPlanID      *int64          `json:"monthlyPlanId,omitempty"`
	Suspended          bool            `json:"suspended"`
	Active             bool            `json:"active"`
	Graduations        []int64         `json:"graduations"`
	ActiveGraduationID *int64          `json:"activeGraduationId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(s *models.Student) StudentResponse {
	if s == nil {
		return StudentResponse{}
	}
	graduations := s.EnrolledGraduationIDs
	if graduations == nil {
		graduations = []int64{}
	}
	return StudentResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Email:              s.Email,
		Belt:               s.Belt,
		InstructorID:       s.InstructorID,
		MonthlyPlanID:      s.MonthlyPlanID,
		Suspended:          s.Suspended,
		Active:             s.Active,
		Graduations:        graduations,
		ActiveGraduationID: s.ActiveGraduationID,
		CreatedAt:          s.CreatedAt,
	}
}
