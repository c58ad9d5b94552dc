package services

import (
	"errors"
	"fmt"

	"smartspend/internal/models"
	"smartspend/internal/repositories"

	"github.com/google/uuid"
)

// AuditService records and reads back the per-user activity feed
type AuditService struct {
	repo repositories.AuditLogRepositoryInterface
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface) AuditServiceInterface {
	return &AuditService{
		repo: repo,
	}
}

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidAuditLog = errors.New("invalid audit log")
)

// ValidateActivityType validates that the activity type is one of the allowed types
func ValidateActivityType(action string) error {
	validActions := map[string]bool{
		models.AuditActionLogin:          true,
		models.AuditActionLogout:         true,
		models.AuditActionRegister:       true,
		models.AuditActionFailedLogin:    true,
		models.AuditActionExpenseCreated: true,
		models.AuditActionExpenseDeleted: true,
		models.AuditActionExpensesSeeded: true,
		models.AuditActionReportExported: true,
	}

	if !validActions[action] {
		return fmt.Errorf("invalid activity type: %s", action)
	}
	return nil
}

// CreateAuditLog creates a new audit log entry with validation
func (s *AuditService) CreateAuditLog(log *models.AuditLog) error {
	if log == nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateActivityType(log.Action); err != nil {
		return err
	}

	if err := s.repo.Create(log); err != nil {
		return fmt.Errorf("failed to record %s: %w", log, err)
	}

	return nil
}

// GetUserActivity returns a page of the user's own audit trail, newest first
func (s *AuditService) GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}

	return s.repo.GetByUserID(userID, offset, limit)
}

func (s *AuditService) LogExpenseCreated(expense *models.Expense, ipAddress, userAgent string) error {
	if expense == nil {
		return ErrInvalidAuditLog
	}

	log := &models.AuditLog{
		UserID:     &expense.UserID,
		Action:     models.AuditActionExpenseCreated,
		Resource:   models.AuditResourceExpense,
		ResourceID: expense.ID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata: models.JSONBMap{
			"category": expense.Category,
			"amount":   expense.Amount.StringFixed(2),
			"date":     expense.Date.Format(models.DateLayout),
		},
	}
	return s.CreateAuditLog(log)
}

func (s *AuditService) LogExpenseDeleted(userID, expenseID uuid.UUID, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionExpenseDeleted,
		Resource:   models.AuditResourceExpense,
		ResourceID: expenseID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
	return s.CreateAuditLog(log)
}

// LogExpensesSeeded records a bulk import of generated demo data
func (s *AuditService) LogExpensesSeeded(userID uuid.UUID, count int) error {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionExpensesSeeded,
		Resource:   models.AuditResourceExpense,
		ResourceID: userID.String(),
		Metadata: models.JSONBMap{
			"count": count,
		},
	}
	return s.CreateAuditLog(log)
}

func (s *AuditService) LogReportExported(userID uuid.UUID, format string, rows int, location string) error {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionReportExported,
		Resource:   models.AuditResourceReport,
		ResourceID: format,
		Metadata: models.JSONBMap{
			"format": format,
			"rows":   rows,
		},
	}
	if location != "" {
		log.SetMetadata("location", location)
	}
	return s.CreateAuditLog(log)
}
