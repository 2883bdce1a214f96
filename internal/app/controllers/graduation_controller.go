package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/app/services"
	"github.com/yigit/dojo/internal/middleware"
	"github.com/yigit/dojo/internal/pkg/apperrors"
	"github.com/yigit/dojo/internal/pkg/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GraduationController handles graduation catalog, roster and evaluation endpoints
type GraduationController struct {
	graduations services.GraduationService
	enrollments services.EnrollmentService
	evaluations services.EvaluationService
}

// NewGraduationController creates a new GraduationController
func NewGraduationController(
	graduations services.GraduationService,
	enrollments services.EnrollmentService,
	evaluations services.EvaluationService,
) *GraduationController {
	return &GraduationController{
		graduations: graduations,
		enrollments: enrollments,
		evaluations: evaluations,
	}
}

// parseIDParam reads a positive int64 path parameter, writing a 400 on failure
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+label+" ID")
		errorDetail = errorDetail.WithDetails(label + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// callerID returns the authenticated user ID, writing a 401 when it is missing
func callerID(ctx *gin.Context) (int64, bool) {
	id, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// CreateGraduation handles graduation creation
// @Summary Create a graduation
// @Description Creates a graduation session with an empty roster. The instructor defaults to the caller and the date to now.
// @Tags graduations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGraduationRequest true "Graduation information"
// @Success 201 {object} dto.APIResponse{data=dto.GraduationResponse} "Graduation created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Only instructors can create graduations"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /graduation/create [post]
func (c *GraduationController) CreateGraduation(ctx *gin.Context) {
	var req dto.CreateGraduationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	instructorID := userID
	if req.InstructorID != nil {
		instructorID = *req.InstructorID
	}

	graduation, err := c.graduations.Create(ctx, services.CreateGraduationInput{
		Level:          req.Level,
		Scope:          req.Scope,
		InstructorID:   instructorID,
		Location:       req.Location,
		Date:           req.Date,
		AvailableSlots: *req.AvailableSlots,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromGraduation(graduation), "Graduation created successfully"))
}

// EvaluateStudent grades one enrolled student
// @Summary Evaluate a student
// @Description Records the score of an enrolled student. A score of 50 or more promotes the student to the graduation's belt and issues a diploma.
// @Tags graduations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduation ID" Format(int64) minimum(1)
// @Param request body dto.EvaluateStudentRequest true "Evaluation"
// @Success 200 {object} dto.APIResponse{data=dto.EvaluationResponse} "Student evaluated"
// @Failure 400 {object} dto.ErrorResponse "Invalid score or request"
// @Failure 404 {object} dto.ErrorResponse "Graduation, student or instructor not found"
// @Failure 409 {object} dto.ErrorResponse "Student not enrolled or already evaluated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /graduation/evaluate/{id} [patch]
func (c *GraduationController) EvaluateStudent(ctx *gin.Context) {
	graduationID, ok := parseIDParam(ctx, "id", "Graduation")
	if !ok {
		return
	}
	var req dto.EvaluateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	outcome, err := c.evaluations.Evaluate(ctx, services.EvaluateInput{
		GraduationID: graduationID,
		StudentID:    req.StudentID,
		Score:        *req.Score,
		Comments:     req.Comments,
		InstructorID: userID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EvaluationResponse{
		Message:    outcome.Message,
		Promoted:   outcome.Promoted,
		NewBelt:    outcome.NewBelt,
		Evaluation: outcome.Evaluation,
	}, outcome.Message))
}

// GetGraduation retrieves a graduation by ID
// @Summary Get graduation details
// @Tags graduations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduation ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.GraduationResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid graduation ID"
// @Failure 404 {object} dto.ErrorResponse "Graduation not found"
// @Router /graduation/{id} [get]
func (c *GraduationController) GetGraduation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Graduation")
	if !ok {
		return
	}

	graduation, err := c.graduations.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromGraduation(graduation), ""))
}

// ListGraduations lists graduations with filters, sorting and pagination
// @Summary List graduations
// @Tags graduations
// @Produce json
// @Security BearerAuth
// @Param beltColor query string false "Belt level"
// @Param date query string false "Day (YYYY-MM-DD) or instant (RFC3339)"
// @Param availableSlots query int false "Minimum free slots"
// @Param sortBy query string false "date, level, availableSlots or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.GraduationListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /graduation [get]
func (c *GraduationController) ListGraduations(ctx *gin.Context) {
	var query dto.GraduationListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	result, err := c.graduations.List(ctx, services.GraduationQuery{
		BeltColor:      query.BeltColor,
		Date:           query.Date,
		AvailableSlots: query.AvailableSlots,
		SortBy:         query.SortBy,
		SortOrder:      query.SortOrder,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.GraduationListResponse{
		PaginationInfo: helpers.NewPaginationInfo(result.TotalItems, result.CurrentPage, result.PageSize),
		Items:          dto.FromGraduations(result.Items),
	}, ""))
}

// ListStudentGraduations lists the graduation history of a student
// @Summary List a student's graduations
// @Description Instructors may read any student; a student may only read their own history
// @Tags graduations
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.GraduationResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 403 {object} dto.ErrorResponse "Another student's history"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /graduation/user/{userId} [get]
func (c *GraduationController) ListStudentGraduations(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "userId", "Student")
	if !ok {
		return
	}
	caller, ok := callerID(ctx)
	if !ok {
		return
	}
	if role, _ := middleware.GetRole(ctx); role != models.RoleAdmin && caller != studentID {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("students may only list their own graduations"))
		return
	}

	graduations, err := c.graduations.ListByStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromGraduations(graduations), ""))
}

// UpdateGraduation applies the legacy score/comment/certificate patch
// @Summary Update a graduation
// @Tags graduations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduation ID" Format(int64) minimum(1)
// @Param request body dto.UpdateGraduationRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.GraduationResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid score or request"
// @Failure 404 {object} dto.ErrorResponse "Graduation not found"
// @Router /graduation/update/{id} [put]
func (c *GraduationController) UpdateGraduation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Graduation")
	if !ok {
		return
	}
	var req dto.UpdateGraduationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	graduation, err := c.graduations.Update(ctx, id, models.GraduationPatch{
		Score:          req.Score,
		Comments:       req.Comment,
		CertificateURL: req.CertificateURL,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromGraduation(graduation), "Graduation updated successfully"))
}

// DeleteGraduation removes a graduation
// @Summary Delete a graduation
// @Tags graduations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduation ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Graduation not found"
// @Router /graduation/delete/{id} [delete]
func (c *GraduationController) DeleteGraduation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Graduation")
	if !ok {
		return
	}

	if err := c.graduations.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Graduation deleted successfully"))
}

// Enroll adds the calling student to a graduation
// @Summary Enroll in a graduation
// @Description Checks run in order: plan, late fees, active enrollment elsewhere, duplicate, slots, scope, belt.
// @Tags graduations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollmentRequest true "Graduation to join"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 402 {object} dto.ErrorResponse "Plan or payment required"
// @Failure 403 {object} dto.ErrorResponse "Scope not permitted by plan"
// @Failure 404 {object} dto.ErrorResponse "Graduation not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or no slots"
// @Failure 422 {object} dto.ErrorResponse "Graduation level is not the next belt"
// @Router /graduation/enroll [post]
func (c *GraduationController) Enroll(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	graduation, err := c.enrollments.Enroll(ctx, studentID, req.GraduationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEnrollmentResponse(graduation), "Enrolled successfully"))
}

// Unenroll removes the calling student from a graduation
// @Summary Leave a graduation
// @Tags graduations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollmentRequest true "Graduation to leave"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Graduation not found"
// @Failure 409 {object} dto.ErrorResponse "Not enrolled"
// @Router /graduation/unenroll [post]
func (c *GraduationController) Unenroll(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	graduation, err := c.enrollments.Unenroll(ctx, studentID, req.GraduationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEnrollmentResponse(graduation), "Unenrolled successfully"))
}

// ExportRoster downloads the roster as a spreadsheet
// @Summary Export graduation roster
// @Tags graduations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Graduation ID" Format(int64) minimum(1)
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Graduation not found"
// @Router /graduation/{id}/export [get]
func (c *GraduationController) ExportRoster(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Graduation")
	if !ok {
		return
	}

	content, err := c.graduations.ExportRoster(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="graduation-%d-roster.xlsx"`, id))
	ctx.Data(http.StatusOK, xlsxContentType, content)
}
