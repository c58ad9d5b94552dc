package services

import (
	"context"
	"io"
	"time"

	"smartspend/internal/dto"
	"smartspend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(accessToken, ipAddress, userAgent string) error
	// Authenticate validates a session token and rejects blacklisted ones
	Authenticate(accessToken string) (*models.CustomClaims, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// AuditServiceInterface defines the contract for audit logging operations
type AuditServiceInterface interface {
	CreateAuditLog(log *models.AuditLog) error
	GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	LogExpenseCreated(expense *models.Expense, ipAddress, userAgent string) error
	LogExpenseDeleted(userID, expenseID uuid.UUID, ipAddress, userAgent string) error
	LogExpensesSeeded(userID uuid.UUID, count int) error
	LogReportExported(userID uuid.UUID, format string, rows int, location string) error
}

// ExpenseServiceInterface defines expense-related business operations
type ExpenseServiceInterface interface {
	AddExpense(userID uuid.UUID, req *dto.CreateExpenseRequest, ipAddress, userAgent string) (*models.Expense, error)
	ImportExpenses(userID uuid.UUID, expenses []models.Expense) (int, error)
	ListExpenses(userID uuid.UUID, filters models.ExpenseFilters) ([]models.Expense, int64, error)
	GetAllExpenses(userID uuid.UUID) ([]models.Expense, error)
	GetExpense(userID, expenseID uuid.UUID) (*models.Expense, error)
	DeleteExpense(userID, expenseID uuid.UUID, ipAddress, userAgent string) error
}

// DashboardServiceInterface aggregates a user's expenses into dashboard metrics
type DashboardServiceInterface interface {
	GetDashboard(userID uuid.UUID) (*models.Dashboard, error)
	GetMonthlyTotals(userID uuid.UUID) ([]models.MonthlyTotal, error)
}

// ForecastServiceInterface projects future monthly spending
type ForecastServiceInterface interface {
	Forecast(userID uuid.UUID, horizon int) (*models.Forecast, error)
}

// ChartServiceInterface renders dashboard charts
type ChartServiceInterface interface {
	RenderChart(userID uuid.UUID, name, format string, w io.Writer) error
	ContentType(format string) string
}

// ExportServiceInterface writes expense reports and archives them off-host
type ExportServiceInterface interface {
	Export(userID uuid.UUID, format string, w io.Writer) (*models.ExportedReport, error)
	ArchivingEnabled() bool
	Archive(ctx context.Context, userID uuid.UUID, owner string, report *models.ExportedReport, body []byte) (string, error)
}

// ReportArchiverInterface stores exported reports off-host
type ReportArchiverInterface interface {
	Enabled() bool
	Archive(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// ExpenseGeneratorInterface generates realistic demo expenses
type ExpenseGeneratorInterface interface {
	GenerateExpenses(userID uuid.UUID, startDate, endDate time.Time, count int) []models.Expense
	GenerateRecurringBills(userID uuid.UUID, startDate, endDate time.Time) []models.Expense
	GenerateAmount(category string) decimal.Decimal
	GenerateDescription(category string) string
	SelectCategory() string
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type AuditLoggerInterface interface {
	LogExpenseCreated(ctx context.Context, expenseID, userID uuid.UUID, category, amount string)
	LogExpenseDeleted(ctx context.Context, expenseID, userID uuid.UUID)
	LogDashboardComputed(ctx context.Context, userID uuid.UUID, expenseCount int, durationMs int64)
	LogForecastComputed(ctx context.Context, userID uuid.UUID, months, horizon int, rSquared float64)
	LogReportExported(ctx context.Context, userID uuid.UUID, format string, rows int, bytes int)
	LogReportArchived(ctx context.Context, userID uuid.UUID, location string, durationMs int64)
	LogReportArchiveFailed(ctx context.Context, userID uuid.UUID, errorMsg string)
}
