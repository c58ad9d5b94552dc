package models

import "github.com/shopspring/decimal"

// CategoryTotal contains aggregated expense data for one category
type CategoryTotal struct {
	Category     string          `json:"category"`
	ExpenseCount int64           `json:"expense_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
