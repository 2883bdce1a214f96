package dto

import (
	"time"

	"github.com/yigit/dojo/internal/app/models"
)

// AssignStudentRequest represents the body of POST /instructors/:id/students
type AssignStudentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1" example:"3"`
}

// InstructorResponse is the public view of an instructor
type InstructorResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Nariyoshi Miyagi"`
	Email     string    `json:"email" example:"miyagi@dojo.pt"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromInstructors converts instructors to their public view
func FromInstructors(instructors []*models.Instructor) []InstructorResponse {
	out := make([]InstructorResponse, 0, len(instructors))
	for _, i := range instructors {
		out = append(out, InstructorResponse{
			ID:        i.ID,
			Name:      i.Name,
			Email:     i.Email,
			Active:    i.Active,
			CreatedAt: i.CreatedAt,
		})
	}
	return out
}

// FromStudents converts a student list to its public view
func FromStudents(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, FromStudent(s))
	}
	return out
}
