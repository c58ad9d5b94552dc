package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"smartspend/internal/dto"
	"smartspend/internal/errors"
	"smartspend/internal/models"
	"smartspend/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ExpenseHandler serves the expense endpoints of the JSON API
const (
	HeaderArchiveStatus   = "X-Archive-Status"
	HeaderArchiveLocation = "X-Archive-Location"

	archiveStatusArchived = "archived"
	archiveStatusFailed   = "failed"
)

type ExpenseHandler struct {
	expenseService services.ExpenseServiceInterface
	exportService  services.ExportServiceInterface
	currencySymbol string
}

func NewExpenseHandler(expenseService services.ExpenseServiceInterface, exportService services.ExportServiceInterface, currencySymbol string) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		exportService:  exportService,
		currencySymbol: currencySymbol,
	}
}

// ListExpenses returns the caller's expenses, newest first
// @Summary List expenses
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), inclusive"
// @Param to query string false "End date (YYYY-MM-DD), inclusive"
// @Param category query string false "Category"
// @Param min_amount query string false "Minimum amount, inclusive"
// @Param max_amount query string false "Maximum amount, inclusive"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ExpenseListResponse
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.ExpenseFilters
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	filters := models.ExpenseFilters{
		Category: models.CanonicalCategory(query.Category),
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.From != "" {
		from, _ := time.Parse(models.DateLayout, query.From)
		filters.StartDate = &from
	}
	if query.To != "" {
		to, _ := time.Parse(models.DateLayout, query.To)
		filters.EndDate = &to
	}
	if query.MinAmount != "" {
		minAmount, _ := decimal.NewFromString(query.MinAmount)
		filters.MinAmount = &minAmount
	}
	if query.MaxAmount != "" {
		maxAmount, _ := decimal.NewFromString(query.MaxAmount)
		filters.MaxAmount = &maxAmount
	}
	filters.Normalize()

	expenses, total, err := h.expenseService.ListExpenses(userID, filters)
	if err != nil {
		return sendServiceError(c, err)
	}

	response := dto.ExpenseListResponse{
		Expenses: make([]dto.ExpenseResponse, 0, len(expenses)),
		Pagination: dto.PaginationMeta{
			Offset: filters.Offset,
			Limit:  filters.Limit,
			Total:  total,
		},
	}
	for i := range expenses {
		response.Expenses = append(response.Expenses, toExpenseResponse(&expenses[i], h.currencySymbol))
	}

	return c.JSON(http.StatusOK, response)
}

// CreateExpense records a new expense
// @Summary Add an expense
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} SuccessResponse{data=dto.ExpenseResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or EXPENSE_002..EXPENSE_005"
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	expense, err := h.expenseService.AddExpense(userID, &req, ClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toExpenseResponse(expense, h.currencySymbol),
		Message: "Expense added successfully",
	})
}

// GetExpense returns one of the caller's expenses
// @Summary Get an expense
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} errors.ErrorResponse "EXPENSE_001"
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidID)
	}

	expense, err := h.expenseService.GetExpense(userID, expenseID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense, h.currencySymbol))
}

// DeleteExpense removes one of the caller's expenses
// @Summary Delete an expense
// @Tags Expenses
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse "EXPENSE_001"
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidID)
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID, ClientIP(c), c.Request().UserAgent()); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ExportExpenses downloads all of the caller's expenses as CSV, JSON or PDF
// @Summary Export expenses
// @Tags Expenses
// @Security BearerAuth
// @Produce text/csv,application/json,application/pdf
// @Param format query string false "csv (default), json or pdf"
// @Param archive query bool false "Also upload the report to the configured S3 bucket"
// @Success 200 {file} file
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 when archiving is not configured"
// @Router /expenses/export [get]
func (h *ExpenseHandler) ExportExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ExportRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if req.Archive && !h.exportService.ArchivingEnabled() {
		return sendServiceError(c, services.ErrArchiveDisabled)
	}

	var buf bytes.Buffer
	report, err := h.exportService.Export(userID, strings.ToLower(req.Format), &buf)
	if err != nil {
		return sendServiceError(c, err)
	}

	header := c.Response().Header()
	if req.Archive {
		// a failed upload still delivers the report
		owner := getUsernameFromContext(c)
		if owner == "" {
			owner = userID.String()
		}
		location, err := h.exportService.Archive(c.Request().Context(), userID, owner, report, buf.Bytes())
		if err != nil {
			header.Set(HeaderArchiveStatus, archiveStatusFailed)
		} else {
			header.Set(HeaderArchiveStatus, archiveStatusArchived)
			header.Set(HeaderArchiveLocation, location)
		}
	}

	header.Set(echo.HeaderContentDisposition, `attachment; filename="`+report.Filename+`"`)
	return c.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}

// ListCategories returns the fixed category list in display order
// @Summary List categories
// @Tags Expenses
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /categories [get]
func (h *ExpenseHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: models.AllCategories()})
}

func toExpenseResponse(expense *models.Expense, currencySymbol string) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:              expense.ID,
		Date:            expense.Date.Format(models.DateLayout),
		DisplayDate:     expense.Date.Format(models.DisplayDateLayout),
		Category:        expense.Category,
		Amount:          expense.Amount.StringFixed(2),
		FormattedAmount: models.FormatCurrency(currencySymbol, expense.Amount),
		Description:     expense.Description,
		Label:           expense.Label(currencySymbol),
		CreatedAt:       expense.CreatedAt,
	}
}
