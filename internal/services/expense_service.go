package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smartspend/internal/dto"
	"smartspend/internal/models"
	"smartspend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidExpenseDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidExpenseAmount = errors.New("amount must be a number")
)

// ExpenseService records, lists and deletes a user's expenses
type ExpenseService struct {
	expenseRepo  repositories.ExpenseRepositoryInterface
	auditService AuditServiceInterface
	auditLogger  AuditLoggerInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
	now          func() time.Time
}

func NewExpenseService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ExpenseServiceInterface {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		auditService: auditService,
		auditLogger:  auditLogger,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// AddExpense validates and stores one expense. An empty date means today.
func (s *ExpenseService) AddExpense(userID uuid.UUID, req *dto.CreateExpenseRequest, ipAddress, userAgent string) (*models.Expense, error) {
	expense, err := s.buildExpense(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.metrics.IncrementCounter("expenses_created", map[string]string{"category": expense.Category})
	s.metrics.RecordGauge("expense_amount", expense.Amount.InexactFloat64(), map[string]string{"category": expense.Category})
	s.auditLogger.LogExpenseCreated(context.Background(), expense.ID, userID, expense.Category, expense.Amount.StringFixed(2))

	if err := s.auditService.LogExpenseCreated(expense, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to audit expense creation",
			"error", err,
			"expense_id", expense.ID,
			"user_id", userID)
	}

	return expense, nil
}

func (s *ExpenseService) buildExpense(userID uuid.UUID, req *dto.CreateExpenseRequest) (*models.Expense, error) {
	date := models.TruncateToDay(s.now())
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return nil, ErrInvalidExpenseDate
		}
		date = parsed
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, ErrInvalidExpenseAmount
	}

	category := models.CanonicalCategory(req.Category)
	if category == "" {
		return nil, models.ErrInvalidCategory
	}

	expense := &models.Expense{
		UserID:      userID,
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: req.Description,
	}
	expense.Normalize()

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	return expense, nil
}

// ImportExpenses stores pre-built expenses for userID in one transaction and returns how many were saved.
func (s *ExpenseService) ImportExpenses(userID uuid.UUID, expenses []models.Expense) (int, error) {
	if len(expenses) == 0 {
		return 0, nil
	}

	for i := range expenses {
		expenses[i].UserID = userID
		expenses[i].Normalize()
		if err := expenses[i].Validate(); err != nil {
			return 0, fmt.Errorf("expense %d: %w", i, err)
		}
	}

	if err := s.expenseRepo.CreateBatch(expenses); err != nil {
		return 0, fmt.Errorf("failed to import expenses: %w", err)
	}

	s.metrics.RecordGauge("expenses_imported", float64(len(expenses)), nil)

	if err := s.auditService.LogExpensesSeeded(userID, len(expenses)); err != nil {
		s.logger.Error("failed to audit expense import",
			"error", err,
			"user_id", userID,
			"count", len(expenses))
	}

	return len(expenses), nil
}

func (s *ExpenseService) ListExpenses(userID uuid.UUID, filters models.ExpenseFilters) ([]models.Expense, int64, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, 0, models.ErrInvalidDateRange
	}
	if filters.MinAmount != nil && filters.MaxAmount != nil && filters.MinAmount.GreaterThan(*filters.MaxAmount) {
		return nil, 0, models.ErrInvalidAmountRange
	}

	return s.expenseRepo.ListByUser(userID, filters)
}

// GetAllExpenses returns every expense of the user, newest first
func (s *ExpenseService) GetAllExpenses(userID uuid.UUID) ([]models.Expense, error) {
	return s.expenseRepo.GetAllByUser(userID)
}

func (s *ExpenseService) GetExpense(userID, expenseID uuid.UUID) (*models.Expense, error) {
	return s.expenseRepo.GetByID(userID, expenseID)
}

// DeleteExpense removes one of the user's expenses. Expenses owned by someone else
// are reported as not found.
func (s *ExpenseService) DeleteExpense(userID, expenseID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.expenseRepo.Delete(userID, expenseID); err != nil {
		return err
	}

	s.metrics.IncrementCounter("expenses_deleted", nil)
	s.auditLogger.LogExpenseDeleted(context.Background(), expenseID, userID)

	if err := s.auditService.LogExpenseDeleted(userID, expenseID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to audit expense deletion",
			"error", err,
			"expense_id", expenseID,
			"user_id", userID)
	}

	return nil
}
