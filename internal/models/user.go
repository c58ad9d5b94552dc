package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameInvalid  = errors.New("username may only contain letters, digits, '_', '.' and '-'")
	ErrUsernameLength   = errors.New("username must be between 3 and 50 characters")
	ErrInvalidEmail     = errors.New("invalid email format")
)

// User owns a private set of expenses. Email is optional.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`

	Expenses  []Expense  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuditLogs []AuditLog `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	u.Username = strings.TrimSpace(u.Username)
	if u.Email != nil {
		trimmed := strings.TrimSpace(*u.Email)
		if trimmed == "" {
			u.Email = nil
		} else {
			u.Email = &trimmed
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Username == "" {
		return ErrUsernameRequired
	}

	if len(u.Username) < MinUsernameLength || len(u.Username) > MaxUsernameLength {
		return ErrUsernameLength
	}

	if !usernameRegex.MatchString(u.Username) {
		return ErrUsernameInvalid
	}

	if u.Email != nil && !emailRegex.MatchString(*u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// EmailOrEmpty returns the email address or "" when none was given.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) TableName() string {
	return "users"
}
