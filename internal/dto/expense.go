package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateExpenseRequest is the payload for adding an expense. Date is YYYY-MM-DD and
// defaults to today when empty; amount is a decimal string.
type CreateExpenseRequest struct {
	Date        string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	Category    string `json:"category" form:"category" validate:"required,expense_category"`
	Amount      string `json:"amount" form:"amount" validate:"required,expense_amount"`
	Description string `json:"description" form:"description" validate:"max=500"`
}

// ExpenseFilters are the query parameters accepted when listing expenses
type ExpenseFilters struct {
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Category  string `query:"category" validate:"omitempty,expense_category"`
	MinAmount string `query:"min_amount" validate:"omitempty,numeric"`
	MaxAmount string `query:"max_amount" validate:"omitempty,numeric"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
}

// ExportRequest selects the report format. Archive also uploads the report to S3.
type ExportRequest struct {
	Format  string `query:"format" validate:"omitempty,report_format"`
	Archive bool   `query:"archive"`
}

// ExpenseResponse is the API view of an expense
type ExpenseResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	DisplayDate     string    `json:"displayDate"`
	Category        string    `json:"category"`
	Amount          string    `json:"amount"`
	FormattedAmount string    `json:"formattedAmount"`
	Description     string    `json:"description"`
	Label           string    `json:"label"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ExpenseListResponse represents one page of expenses
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse `json:"expenses"`
	Pagination PaginationMeta    `json:"pagination"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Total  int64 `json:"total"`
}

// CategoriesResponse lists the fixed expense categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ActivityResponse is one page of the caller's audit trail
type ActivityResponse struct {
	Activities []ActivityItem `json:"activities"`
	Pagination PaginationMeta `json:"pagination"`
}

type ActivityItem struct {
	ID         uuid.UUID              `json:"id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resourceId,omitempty"`
	IPAddress  string                 `json:"ipAddress,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
