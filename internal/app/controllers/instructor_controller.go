package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/app/services"
	"github.com/yigit/dojo/internal/middleware"
)

// InstructorController handles instructor and roster assignment endpoints
type InstructorController struct {
	instructorService services.InstructorService
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService services.InstructorService) *InstructorController {
	return &InstructorController{instructorService: instructorService}
}

// ListInstructors lists every instructor
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.InstructorResponse}
// @Router /instructors [get]
func (c *InstructorController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.instructorService.ListInstructors(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromInstructors(instructors), ""))
}

// ListStudents lists the students assigned to an instructor
// @Summary List an instructor's students
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id}/students [get]
func (c *InstructorController) ListStudents(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id", "Instructor")
	if !ok {
		return
	}

	students, err := c.instructorService.ListStudents(ctx, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudents(students), ""))
}

// AssignStudent assigns a student to an instructor
// @Summary Assign a student
// @Description Moves the student to the instructor. An instructor teaches at most a configured number of students.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID" Format(int64) minimum(1)
// @Param request body dto.AssignStudentRequest true "Student to assign"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Instructor or student not found"
// @Failure 409 {object} dto.ErrorResponse "Already assigned or instructor full"
// @Router /instructors/{id}/students [post]
func (c *InstructorController) AssignStudent(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id", "Instructor")
	if !ok {
		return
	}
	var req dto.AssignStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.instructorService.AssignStudent(ctx, instructorID, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudent(student), "Student assigned successfully"))
}

// RemoveStudent removes a student from an instructor
// @Summary Unassign a student
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID" Format(int64) minimum(1)
// @Param studentId path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Instructor or student not found"
// @Failure 409 {object} dto.ErrorResponse "Student not assigned to this instructor"
// @Router /instructors/{id}/students/{studentId} [delete]
func (c *InstructorController) RemoveStudent(ctx *gin.Context) {
	instructorID, ok := parseIDParam(ctx, "id", "Instructor")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId", "Student")
	if !ok {
		return
	}

	if err := c.instructorService.RemoveStudent(ctx, instructorID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Student unassigned successfully"))
}
