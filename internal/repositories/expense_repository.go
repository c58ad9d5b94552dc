package repositories

import (
	"errors"
	"fmt"
	"time"

	"smartspend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
)

const expenseBatchSize = 200

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepositoryInterface {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(expense *models.Expense) error {
	if expense == nil {
		return errors.New("expense cannot be nil")
	}

	if err := r.db.Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// CreateBatch inserts expenses atomically; one invalid row rolls back the whole batch.
func (r *expenseRepository) CreateBatch(expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(expenses, expenseBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create expenses: %w", err)
		}
		return nil
	})
}

func (r *expenseRepository) GetByID(userID, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return &expense, nil
}

// ListByUser returns one page of the user's expenses, newest first, and the total matching count.
func (r *expenseRepository) ListByUser(userID uuid.UUID, filters models.ExpenseFilters) ([]models.Expense, int64, error) {
	filters.Normalize()

	query := r.db.Model(&models.Expense{}).Where("user_id = ?", userID)

	if filters.StartDate != nil {
		query = query.Where("date >= ?", models.TruncateToDay(*filters.StartDate))
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", models.TruncateToDay(*filters.EndDate))
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.MinAmount != nil {
		query = query.Where("amount >= ?", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		query = query.Where("amount <= ?", *filters.MaxAmount)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	var expenses []models.Expense
	if err := query.Order("date DESC").
		Order("created_at DESC").
		Offset(filters.Offset).
		Limit(filters.Limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, total, nil
}

// GetAllByUser returns every expense of the user, newest first.
func (r *expenseRepository) GetAllByUser(userID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to get expenses for user: %w", err)
	}

	return expenses, nil
}

// Delete removes an expense only when it belongs to userID.
func (r *expenseRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// GetCategoryTotals sums the user's expenses per category for an inclusive date range,
// largest total first.
func (r *expenseRepository) GetCategoryTotals(userID uuid.UUID, startDate, endDate time.Time) ([]models.CategoryTotal, error) {
	var totals []models.CategoryTotal

	query := `
		SELECT
			category,
			COUNT(*) AS expense_count,
			SUM(amount) AS total_amount
		FROM expenses
		WHERE user_id = ?
			AND date BETWEEN ? AND ?
		GROUP BY category
		ORDER BY total_amount DESC, category ASC
	`

	if err := r.db.Raw(query, userID, models.TruncateToDay(startDate), models.TruncateToDay(endDate)).
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to get category totals: %w", err)
	}

	return totals, nil
}
