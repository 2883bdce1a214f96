package dto

import "github.com/yigit/dojo/internal/app/models"

// ChoosePlanRequest represents the body of POST /plans/choose
type ChoosePlanRequest struct {
	PlanID int64 `json:"planId" binding:"required,min=1" example:"2"`
}

// PlanSubscriptionResponse is returned after a plan is chosen
type PlanSubscriptionResponse struct {
	Plan     models.MonthlyPlan `json:"plan"`
	FirstFee models.MonthlyFee  `json:"firstFee"`
}
