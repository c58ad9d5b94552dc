package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartspend/internal/dto"
	"smartspend/internal/models"
	"smartspend/internal/repositories"
	"smartspend/internal/services"
	"smartspend/internal/services/service_mocks"

	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerSuite))
}

type ExpenseHandlerSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	expenseService *service_mocks.MockExpenseServiceInterface
	exportService  *service_mocks.MockExportServiceInterface
	handler        *ExpenseHandler
	e              *echo.Echo
	userID         uuid.UUID
}

func (s *ExpenseHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.expenseService = service_mocks.NewMockExpenseServiceInterface(s.ctrl)
	s.exportService = service_mocks.NewMockExportServiceInterface(s.ctrl)
	s.handler = NewExpenseHandler(s.expenseService, s.exportService, "₹")
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *ExpenseHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ExpenseHandlerSuite) newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set(UserIDContextKey, s.userID)
	return c, rec
}

func (s *ExpenseHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func sampleExpense(userID uuid.UUID) models.Expense {
	return models.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		Category:    models.CategoryFood,
		Amount:      decimal.RequireFromString("1234.5"),
		Description: "Groceries",
	}
}

func (s *ExpenseHandlerSuite) TestListExpenses() {
	expense := sampleExpense(s.userID)

	s.expenseService.EXPECT().
		ListExpenses(s.userID, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, f models.ExpenseFilters) ([]models.Expense, int64, error) {
			s.Equal(models.CategoryFood, f.Category)
			s.Equal(10, f.Limit)
			s.Equal(5, f.Offset)
			s.Require().NotNil(f.StartDate)
			s.Equal("2024-06-01", f.StartDate.Format(models.DateLayout))
			s.Nil(f.EndDate)
			return []models.Expense{expense}, 6, nil
		})

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses?category=food&from=2024-06-01&limit=10&offset=5", nil)

	s.Require().NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.ExpenseListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Expenses, 1)
	got := resp.Expenses[0]
	s.Equal("2024-06-20", got.Date)
	s.Equal("20-06-2024", got.DisplayDate)
	s.Equal("1234.50", got.Amount)
	s.Equal("₹1,234.50", got.FormattedAmount)
	s.Equal("20-06-2024 - Food - ₹1,234.50", got.Label)
	s.EqualValues(6, resp.Pagination.Total)
}

func (s *ExpenseHandlerSuite) TestListExpenses_AmountRange() {
	s.expenseService.EXPECT().
		ListExpenses(s.userID, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, f models.ExpenseFilters) ([]models.Expense, int64, error) {
			s.Require().NotNil(f.MinAmount)
			s.Require().NotNil(f.MaxAmount)
			s.Equal("100.5", f.MinAmount.String())
			s.Equal("2000", f.MaxAmount.String())
			return nil, 0, nil
		})

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses?min_amount=100.50&max_amount=2000", nil)

	s.Require().NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ExpenseHandlerSuite) TestListExpenses_InvertedAmountRange() {
	s.expenseService.EXPECT().ListExpenses(s.userID, gomock.Any()).Return(nil, int64(0), models.ErrInvalidAmountRange)

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses?min_amount=500&max_amount=100", nil)

	s.Require().NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_004", s.errorCode(rec))
}

func (s *ExpenseHandlerSuite) TestListExpenses_DefaultsPageSize() {
	s.expenseService.EXPECT().
		ListExpenses(s.userID, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, f models.ExpenseFilters) ([]models.Expense, int64, error) {
			s.Equal(models.DefaultExpensePageSize, f.Limit)
			return nil, 0, nil
		})

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses", nil)

	s.Require().NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"expenses":[]`)
}

func (s *ExpenseHandlerSuite) TestListExpenses_InvalidDateRange() {
	s.expenseService.EXPECT().ListExpenses(s.userID, gomock.Any()).Return(nil, int64(0), models.ErrInvalidDateRange)

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses?from=2024-06-10&to=2024-06-01", nil)

	s.Require().NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_006", s.errorCode(rec))
}

func (s *ExpenseHandlerSuite) TestCreateExpense() {
	expense := sampleExpense(s.userID)

	s.expenseService.EXPECT().
		AddExpense(s.userID, &dto.CreateExpenseRequest{Date: "2024-06-20", Category: "Food", Amount: "1234.50", Description: "Groceries"}, gomock.Any(), gomock.Any()).
		Return(&expense, nil)

	c, rec := s.newContext(http.MethodPost, "/api/v1/expenses",
		strings.NewReader(`{"date":"2024-06-20","category":"Food","amount":"1234.50","description":"Groceries"}`))

	s.Require().NoError(s.handler.CreateExpense(c))
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), "Expense added successfully")
	s.Contains(rec.Body.String(), expense.ID.String())
}

func (s *ExpenseHandlerSuite) TestCreateExpense_Validation() {
	for name, body := range map[string]string{
		"zero amount":      `{"category":"Food","amount":"0"}`,
		"three decimals":   `{"category":"Food","amount":"1.005"}`,
		"unknown category": `{"category":"Rent","amount":"10"}`,
		"bad date":         `{"date":"20-06-2024","category":"Food","amount":"10"}`,
		"missing category": `{"amount":"10"}`,
	} {
		s.Run(name, func() {
			c, _ := s.newContext(http.MethodPost, "/api/v1/expenses", strings.NewReader(body))

			err := s.handler.CreateExpense(c)

			var validationErrs validator.ValidationErrors
			s.True(errors.As(err, &validationErrs), "expected validation error, got %v", err)
		})
	}
}

func (s *ExpenseHandlerSuite) TestCreateExpense_ServiceError() {
	s.expenseService.EXPECT().AddExpense(s.userID, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, services.ErrInvalidExpenseDate)

	c, rec := s.newContext(http.MethodPost, "/api/v1/expenses", strings.NewReader(`{"date":"2999-01-01","category":"Food","amount":"10"}`))

	s.Require().NoError(s.handler.CreateExpense(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("EXPENSE_004", s.errorCode(rec))
}

func (s *ExpenseHandlerSuite) TestGetExpense() {
	expense := sampleExpense(s.userID)

	s.Run("found", func() {
		s.expenseService.EXPECT().GetExpense(s.userID, expense.ID).Return(&expense, nil)

		c, rec := s.newContext(http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(expense.ID.String())

		s.Require().NoError(s.handler.GetExpense(c))
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"category":"Food"`)
	})

	s.Run("belongs to someone else", func() {
		s.expenseService.EXPECT().GetExpense(s.userID, expense.ID).Return(nil, repositories.ErrExpenseNotFound)

		c, rec := s.newContext(http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(expense.ID.String())

		s.Require().NoError(s.handler.GetExpense(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("EXPENSE_001", s.errorCode(rec))
	})

	s.Run("malformed id", func() {
		c, rec := s.newContext(http.MethodGet, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		s.Require().NoError(s.handler.GetExpense(c))
		s.Equal("VALIDATION_007", s.errorCode(rec))
	})
}

func (s *ExpenseHandlerSuite) TestDeleteExpense() {
	id := uuid.New()

	s.Run("deleted", func() {
		s.expenseService.EXPECT().DeleteExpense(s.userID, id, gomock.Any(), gomock.Any()).Return(nil)

		c, rec := s.newContext(http.MethodDelete, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		s.Require().NoError(s.handler.DeleteExpense(c))
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("not found", func() {
		s.expenseService.EXPECT().DeleteExpense(s.userID, id, gomock.Any(), gomock.Any()).Return(repositories.ErrExpenseNotFound)

		c, rec := s.newContext(http.MethodDelete, "/", nil)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		s.Require().NoError(s.handler.DeleteExpense(c))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ExpenseHandlerSuite) TestExportExpenses() {
	s.exportService.EXPECT().
		Export(s.userID, models.ReportFormatJSON, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, _ string, w io.Writer) (*models.ExportedReport, error) {
			_, _ = w.Write([]byte(`{"expenses":[]}`))
			return &models.ExportedReport{Filename: "smartspend-expenses-20240620.json", ContentType: "application/json"}, nil
		})

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses/export?format=JSON", nil)

	s.Require().NoError(s.handler.ExportExpenses(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get(echo.HeaderContentType))
	s.Equal(`attachment; filename="smartspend-expenses-20240620.json"`, rec.Header().Get(echo.HeaderContentDisposition))
	s.Equal(`{"expenses":[]}`, rec.Body.String())
}

func (s *ExpenseHandlerSuite) expectCSVExport() *models.ExportedReport {
	report := &models.ExportedReport{Filename: "smartspend-expenses-20240620.csv", ContentType: "text/csv", Format: models.ReportFormatCSV}
	s.exportService.EXPECT().
		Export(s.userID, "", gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, _ string, w io.Writer) (*models.ExportedReport, error) {
			_, _ = w.Write([]byte("Date,Category,Amount,Description\n"))
			return report, nil
		})
	return report
}

func (s *ExpenseHandlerSuite) TestExportExpenses_Archive() {
	report := s.expectCSVExport()
	s.exportService.EXPECT().ArchivingEnabled().Return(true)
	s.exportService.EXPECT().
		Archive(gomock.Any(), s.userID, "asha", report, []byte("Date,Category,Amount,Description\n")).
		Return("s3://bucket/asha/smartspend-expenses-20240620.csv", nil)

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses/export?archive=true", nil)
	c.Set(UsernameContextKey, "asha")

	s.Require().NoError(s.handler.ExportExpenses(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("archived", rec.Header().Get(HeaderArchiveStatus))
	s.Equal("s3://bucket/asha/smartspend-expenses-20240620.csv", rec.Header().Get(HeaderArchiveLocation))
}

func (s *ExpenseHandlerSuite) TestExportExpenses_ArchiveFailureStillDownloads() {
	s.expectCSVExport()
	s.exportService.EXPECT().ArchivingEnabled().Return(true)
	s.exportService.EXPECT().
		Archive(gomock.Any(), s.userID, s.userID.String(), gomock.Any(), gomock.Any()).
		Return("", services.ErrCircuitBreakerOpen)

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses/export?archive=true", nil)

	s.Require().NoError(s.handler.ExportExpenses(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("failed", rec.Header().Get(HeaderArchiveStatus))
	s.Empty(rec.Header().Get(HeaderArchiveLocation))
	s.Equal("Date,Category,Amount,Description\n", rec.Body.String())
}

func (s *ExpenseHandlerSuite) TestExportExpenses_ArchiveNotConfigured() {
	s.exportService.EXPECT().ArchivingEnabled().Return(false)

	c, rec := s.newContext(http.MethodGet, "/api/v1/expenses/export?archive=true", nil)

	s.Require().NoError(s.handler.ExportExpenses(c))
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("SYSTEM_003", s.errorCode(rec))
}

func (s *ExpenseHandlerSuite) TestExportExpenses_UnknownFormat() {
	c, _ := s.newContext(http.MethodGet, "/api/v1/expenses/export?format=xlsx", nil)

	err := s.handler.ExportExpenses(c)

	var validationErrs validator.ValidationErrors
	s.True(errors.As(err, &validationErrs))
}

func (s *ExpenseHandlerSuite) TestMissingUserContext() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", bytes.NewReader(nil))
	rec := httptest.NewRecorder()

	s.Require().NoError(s.handler.ListExpenses(s.e.NewContext(req, rec)))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_002", s.errorCode(rec))
}

func (s *ExpenseHandlerSuite) TestListCategories() {
	c, rec := s.newContext(http.MethodGet, "/api/v1/categories", nil)

	s.Require().NoError(s.handler.ListCategories(c))

	var resp dto.CategoriesResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(models.AllCategories(), resp.Categories)
}
