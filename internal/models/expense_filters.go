package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultExpensePageSize = 50
	MaxExpensePageSize     = 500
)

var ErrInvalidDateRange = errors.New("invalid date range: start date must not be after end date")

// ExpenseFilters contains filtering options for expense queries. Dates are inclusive.
type ExpenseFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Offset    int
	Limit     int
}

// Normalize clamps paging to sane bounds. A zero Limit means the default page size.
func (f *ExpenseFilters) Normalize() {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultExpensePageSize
	}
	if f.Limit > MaxExpensePageSize {
		f.Limit = MaxExpensePageSize
	}
}
