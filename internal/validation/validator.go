package validation

import (
	"reflect"
	"strings"
	"sync"

	"smartspend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("expense_category", validateExpenseCategory)
	_ = v.RegisterValidation("expense_amount", validateExpenseAmount)
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("report_format", validateReportFormat)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate validates a struct and returns validator.ValidationErrors on failure
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validateExpenseCategory accepts the fixed categories, case-insensitively
func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.CanonicalCategory(fl.Field().String()) != ""
}

// validateExpenseAmount accepts decimal strings between 0.01 and 9999999999.99 with at most 2 decimal places
func validateExpenseAmount(fl validator.FieldLevel) bool {
	var amount decimal.Decimal
	switch fl.Field().Kind() {
	case reflect.String:
		parsed, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		if err != nil {
			return false
		}
		amount = parsed
	case reflect.Float32, reflect.Float64:
		amount = decimal.NewFromFloat(fl.Field().Float())
	default:
		return false
	}

	if amount.LessThan(models.MinExpenseAmount) || amount.GreaterThan(models.MaxExpenseAmount) {
		return false
	}
	return amount.Equal(amount.Round(2))
}

func validateUsername(fl validator.FieldLevel) bool {
	user := models.User{Username: strings.TrimSpace(fl.Field().String())}
	return user.Validate() == nil
}

func validateReportFormat(fl validator.FieldLevel) bool {
	return models.IsValidReportFormat(strings.ToLower(fl.Field().String()))
}
