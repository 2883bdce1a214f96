package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/app/services"
	"github.com/yigit/dojo/internal/middleware"
)

// PlanController handles monthly plan endpoints
type PlanController struct {
	planService services.PlanService
}

// NewPlanController creates a new PlanController
func NewPlanController(planService services.PlanService) *PlanController {
	return &PlanController{planService: planService}
}

// ListPlans lists the monthly plans
// @Summary List monthly plans
// @Tags plans
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.MonthlyPlan}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans [get]
func (c *PlanController) ListPlans(ctx *gin.Context) {
	plans, err := c.planService.ListPlans(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plans, ""))
}

// ChoosePlan subscribes the calling student to a plan
// @Summary Choose a monthly plan
// @Description Sets the student's plan and creates the first pending fee, due on the 5th of next month
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChoosePlanRequest true "Plan to subscribe"
// @Success 201 {object} dto.APIResponse{data=dto.PlanSubscriptionResponse}
// @Failure 402 {object} dto.ErrorResponse "Outstanding late fee"
// @Failure 404 {object} dto.ErrorResponse "Plan not found"
// @Failure 409 {object} dto.ErrorResponse "Student already has a plan"
// @Router /plans/choose [post]
func (c *PlanController) ChoosePlan(ctx *gin.Context) {
	var req dto.ChoosePlanRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	sub, err := c.planService.ChoosePlan(ctx, studentID, req.PlanID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.PlanSubscriptionResponse{
		Plan:     sub.Plan,
		FirstFee: sub.FirstFee,
	}, "Plan chosen successfully"))
}

// CancelPlan clears the calling student's plan
// @Summary Cancel the monthly plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Student has no active plan"
// @Router /plans/cancel [post]
func (c *PlanController) CancelPlan(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	if err := c.planService.CancelPlan(ctx, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Plan cancelled successfully"))
}
