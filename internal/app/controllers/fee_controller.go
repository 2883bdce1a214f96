package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/app/services"
	"github.com/yigit/dojo/internal/middleware"
	"github.com/yigit/dojo/internal/pkg/helpers"
)

// FeeController handles monthly fee endpoints
type FeeController struct {
	billingService services.BillingService
}

// NewFeeController creates a new FeeController
func NewFeeController(billingService services.BillingService) *FeeController {
	return &FeeController{billingService: billingService}
}

// PayFee marks a fee as paid
// @Summary Register a fee payment
// @Description Marks the fee as paid and lifts the student's suspension when no late fee remains
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID" Format(int64) minimum(1)
// @Param request body dto.PayFeeRequest true "Payment"
// @Success 200 {object} dto.APIResponse{data=models.MonthlyFee}
// @Failure 400 {object} dto.ErrorResponse "Invalid payment method"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Failure 409 {object} dto.ErrorResponse "Fee already paid"
// @Router /fees/{id}/pay [patch]
func (c *FeeController) PayFee(ctx *gin.Context) {
	feeID, ok := parseIDParam(ctx, "id", "Fee")
	if !ok {
		return
	}
	var req dto.PayFeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	fee, err := c.billingService.MarkFeePaid(ctx, feeID, req.PaymentMethod, req.TransactionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fee, "Fee paid successfully"))
}

// ListMyFees lists the calling student's fees
// @Summary List my monthly fees
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.MonthlyFee}
// @Router /fees/me [get]
func (c *FeeController) ListMyFees(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	fees, err := c.billingService.ListFees(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fees, ""))
}

// ListFees lists monthly fees across all students
// @Summary Search monthly fees
// @Description Filters, sorts and pages the fees of every student. Sorted by due date, newest first, by default.
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, paid, late or cancelled"
// @Param dueDateStart query string false "Earliest due date (YYYY-MM-DD or RFC3339)"
// @Param dueDateEnd query string false "Latest due date, inclusive (YYYY-MM-DD or RFC3339)"
// @Param minAmount query number false "Minimum amount"
// @Param maxAmount query number false "Maximum amount"
// @Param studentId query int false "Student ID"
// @Param paymentMethod query string false "cash, card or transfer"
// @Param sortField query string false "dueDate, amount, status or paymentDate"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.FeeListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /fees [get]
func (c *FeeController) ListFees(ctx *gin.Context) {
	var query dto.FeeListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	result, err := c.billingService.SearchFees(ctx, services.FeeQuery{
		Status:        query.Status,
		DueDateStart:  query.DueDateStart,
		DueDateEnd:    query.DueDateEnd,
		MinAmount:     query.MinAmount,
		MaxAmount:     query.MaxAmount,
		StudentID:     query.StudentID,
		PaymentMethod: query.PaymentMethod,
		SortField:     query.SortField,
		SortOrder:     query.SortOrder,
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FeeListResponse{
		PaginationInfo: helpers.NewPaginationInfo(result.TotalItems, result.CurrentPage, result.PageSize),
		Items:          result.Items,
	}, ""))
}
