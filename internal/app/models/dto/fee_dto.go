package dto

import "github.com/yigit/dojo/internal/app/models"

// PayFeeRequest represents the body of PATCH /fees/:id/pay
type PayFeeRequest struct {
	PaymentMethod string  `json:"paymentMethod" binding:"required,oneof=cash card transfer" example:"card"`
	TransactionID *string `json:"transactionId,omitempty" example:"TX-2024-0001"`
}

// FeeListQuery holds the query string of GET /fees
type FeeListQuery struct {
	Status        string   `form:"status" example:"late"`
	DueDateStart  string   `form:"dueDateStart" example:"2024-01-01"`
	DueDateEnd    string   `form:"dueDateEnd" example:"2024-03-31"`
	MinAmount     *float64 `form:"minAmount" example:"20"`
	MaxAmount     *float64 `form:"maxAmount" example:"200"`
	StudentID     *int64   `form:"studentId" example:"3"`
	PaymentMethod string   `form:"paymentMethod" example:"card"`
	SortField     string   `form:"sortField" example:"dueDate"`
	SortOrder     string   `form:"sortOrder" example:"desc"`
}

// FeeListResponse is one page of monthly fees
type FeeListResponse struct {
	PaginationInfo
	Items []models.MonthlyFee `json:"items"`
}
