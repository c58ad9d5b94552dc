package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditActionLogin          = "login"
	AuditActionLogout         = "logout"
	AuditActionRegister       = "register"
	AuditActionFailedLogin    = "failed_login"
	AuditActionExpenseCreated = "expense_created"
	AuditActionExpenseDeleted = "expense_deleted"
	AuditActionExpensesSeeded = "expenses_seeded"
	AuditActionReportExported = "report_exported"
)

const (
	AuditResourceUser    = "user"
	AuditResourceExpense = "expense"
	AuditResourceReport  = "report"
)

// AuditLog is one entry of a user's activity feed. UserID is nil for
// attempts that never resolved to a user, such as a login with an unknown name.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   string     `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string     `gorm:"type:varchar(255)" json:"resource_id,omitempty"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string     `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata   JSONBMap   `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (al *AuditLog) TableName() string {
	return "audit_logs"
}

func (al *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now()
	}
	return nil
}

func (al *AuditLog) SetMetadata(key string, value any) {
	if al.Metadata == nil {
		al.Metadata = JSONBMap{}
	}
	al.Metadata[key] = value
}

// GetMetadata returns the value stored under key, or fallback.
func (al *AuditLog) GetMetadata(key string, fallback any) any {
	if value, ok := al.Metadata[key]; ok {
		return value
	}
	return fallback
}

func (al *AuditLog) String() string {
	who := "anonymous"
	if al.UserID != nil {
		who = al.UserID.String()
	}
	return fmt.Sprintf("audit %s on %s/%s by %s from %s", al.Action, al.Resource, al.ResourceID, who, al.IPAddress)
}

// JSONBMap is free-form metadata stored as JSON text. An empty map is stored as NULL.
type JSONBMap map[string]any

func (m JSONBMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *JSONBMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBMap", value)
	}

	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, (*map[string]any)(m))
}
