package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense() Expense {
	return Expense{
		UserID:      uuid.New(),
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Category:    CategoryFood,
		Amount:      decimal.RequireFromString("250.50"),
		Description: "Groceries",
	}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{name: "valid expense", mutate: func(e *Expense) {}},
		{name: "minimum amount", mutate: func(e *Expense) { e.Amount = decimal.RequireFromString("0.01") }},
		{name: "missing user", mutate: func(e *Expense) { e.UserID = uuid.Nil }, wantErr: ErrExpenseUserRequired},
		{name: "missing date", mutate: func(e *Expense) { e.Date = time.Time{} }, wantErr: ErrExpenseDateRequired},
		{name: "zero amount", mutate: func(e *Expense) { e.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(e *Expense) { e.Amount = decimal.NewFromInt(-5) }, wantErr: ErrInvalidAmount},
		{name: "maximum amount", mutate: func(e *Expense) { e.Amount = MaxExpenseAmount }},
		{name: "overflows column", mutate: func(e *Expense) { e.Amount = decimal.RequireFromString("10000000000") }, wantErr: ErrAmountTooLarge},
		{name: "three decimals", mutate: func(e *Expense) { e.Amount = decimal.RequireFromString("1.005") }, wantErr: ErrAmountPrecision},
		{name: "unknown category", mutate: func(e *Expense) { e.Category = "Travel" }, wantErr: ErrInvalidCategory},
		{name: "lowercase category", mutate: func(e *Expense) { e.Category = "food" }, wantErr: ErrInvalidCategory},
		{
			name:    "description too long",
			mutate:  func(e *Expense) { e.Description = strings.Repeat("x", MaxDescriptionLength+1) },
			wantErr: ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpense_BeforeCreate(t *testing.T) {
	e := validExpense()
	e.Date = time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC)
	e.Category = "  Food "
	e.Description = "  lunch  "

	require.NoError(t, e.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, "Food", e.Category)
	assert.Equal(t, "lunch", e.Description)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), e.Date)
}

func TestExpense_Label(t *testing.T) {
	e := validExpense()
	e.Amount = decimal.RequireFromString("1234.5")
	assert.Equal(t, "15-03-2024 - Food - ₹1,234.50", e.Label("₹"))
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), TruncateToDay(in))
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(in))
}
