package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MaxDescriptionLength = 500

	// DateLayout is the wire and storage layout of an expense date.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is how dates are shown to people.
	DisplayDateLayout = "02-01-2006"
)

var (
	MinExpenseAmount = decimal.RequireFromString("0.01")
	// MaxExpenseAmount is the largest value a decimal(12,2) column holds.
	MaxExpenseAmount = decimal.RequireFromString("9999999999.99")

	ErrInvalidAmount       = errors.New("amount must be at least 0.01")
	ErrAmountTooLarge      = errors.New("amount must not exceed 9999999999.99")
	ErrInvalidAmountRange  = errors.New("invalid amount range: minimum must not exceed maximum")
	ErrAmountPrecision     = errors.New("amount must have at most 2 decimal places")
	ErrInvalidCategory     = errors.New("invalid expense category")
	ErrDescriptionTooLong  = errors.New("description must be at most 500 characters")
	ErrExpenseDateRequired = errors.New("expense date is required")
	ErrExpenseUserRequired = errors.New("expense owner is required")
)

// Expense is one user-entered spending entry.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	Date        time.Time       `gorm:"type:date;not null;index:idx_expenses_user_date,priority:2" json:"date"`
	Category    string          `gorm:"type:varchar(50);not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	e.Normalize()
	return e.Validate()
}

// Normalize trims text fields and truncates the date to a calendar day.
func (e *Expense) Normalize() {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	if !e.Date.IsZero() {
		e.Date = TruncateToDay(e.Date)
	}
}

func (e *Expense) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrExpenseUserRequired
	}

	if e.Date.IsZero() {
		return ErrExpenseDateRequired
	}

	if e.Amount.LessThan(MinExpenseAmount) {
		return ErrInvalidAmount
	}

	if e.Amount.GreaterThan(MaxExpenseAmount) {
		return ErrAmountTooLarge
	}

	if !e.Amount.Equal(e.Amount.Round(2)) {
		return ErrAmountPrecision
	}

	if !IsValidCategory(e.Category) {
		return ErrInvalidCategory
	}

	if len([]rune(e.Description)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	return nil
}

// Label is the one-line description used in selection lists: "date - category - amount".
func (e *Expense) Label(currencySymbol string) string {
	return e.Date.Format(DisplayDateLayout) + " - " + e.Category + " - " + FormatCurrency(currencySymbol, e.Amount)
}

func (e *Expense) TableName() string {
	return "expenses"
}

// TruncateToDay drops the time of day, keeping the calendar date in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
