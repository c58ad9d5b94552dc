package repositories

import (
	"errors"
	"fmt"
	"time"

	"smartspend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultActivityPageSize = 10
	maxActivityPageSize     = 100
)

var (
	ErrNilAuditLog   = errors.New("audit log cannot be nil")
	ErrInvalidUserID = errors.New("invalid user ID")
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepositoryInterface {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(log *models.AuditLog) error {
	if log == nil {
		return ErrNilAuditLog
	}
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// GetByUserID pages through one user's activity, newest first. Out-of-range
// limits fall back to the default page size.
func (r *auditLogRepository) GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}
	if limit <= 0 || limit > maxActivityPageSize {
		limit = defaultActivityPageSize
	}
	offset = max(offset, 0)

	query := r.db.Model(&models.AuditLog{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []*models.AuditLog
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return logs, total, nil
}

// DeleteOlderThan prunes entries of every user created before now minus retention.
func (r *auditLogRepository) DeleteOlderThan(retention time.Duration) (int64, error) {
	result := r.db.Where("created_at < ?", time.Now().Add(-retention)).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
