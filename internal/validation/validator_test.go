package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseInput struct {
	Category string `json:"category" validate:"required,expense_category"`
	Amount   string `json:"amount" validate:"required,expense_amount"`
}

type userInput struct {
	Username string `json:"username" validate:"required,username"`
}

type exportInput struct {
	Format string `query:"format" validate:"omitempty,report_format"`
}

func TestExpenseCategory(t *testing.T) {
	v := NewValidator()

	for _, category := range []string{"Food", "food", " Bills ", "OTHER"} {
		assert.NoError(t, v.Validate(&expenseInput{Category: category, Amount: "1"}), category)
	}
	assert.Error(t, v.Validate(&expenseInput{Category: "Groceries", Amount: "1"}))
}

func TestExpenseAmount(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"249.50", true},
		{"1000", true},
		{"9999999999.99", true},
		{"10000000000", false},
		{"0", false},
		{"0.001", false},
		{"-5", false},
		{"12.345", false},
		{"abc", false},
	}
	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := v.Validate(&expenseInput{Category: "Food", Amount: tt.amount})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&userInput{Username: "priya_s"}))
	assert.Error(t, v.Validate(&userInput{Username: "ab"}))
	assert.Error(t, v.Validate(&userInput{Username: "has space"}))
}

func TestReportFormat(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&exportInput{}))
	assert.NoError(t, v.Validate(&exportInput{Format: "PDF"}))
	assert.Error(t, v.Validate(&exportInput{Format: "xlsx"}))
}

func TestFieldNamesComeFromTags(t *testing.T) {
	err := NewValidator().Validate(&expenseInput{Category: "nope", Amount: "1"})

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "category", validationErrs[0].Field())
	assert.Equal(t, "expense_category", validationErrs[0].Tag())

	err = NewValidator().Validate(&exportInput{Format: "xlsx"})
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "format", validationErrs[0].Field())
}

func TestGetValidatorIsShared(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
