package repositories

import (
	"time"

	"smartspend/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Count() (int64, error)
}

// ExpenseRepositoryInterface defines the contract for expense repository operations.
// Every method is scoped to a single owner.
type ExpenseRepositoryInterface interface {
	Create(expense *models.Expense) error
	CreateBatch(expenses []models.Expense) error
	GetByID(userID, id uuid.UUID) (*models.Expense, error)
	ListByUser(userID uuid.UUID, filters models.ExpenseFilters) ([]models.Expense, int64, error)
	GetAllByUser(userID uuid.UUID) ([]models.Expense, error)
	Delete(userID, id uuid.UUID) error
	GetCategoryTotals(userID uuid.UUID, startDate, endDate time.Time) ([]models.CategoryTotal, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
