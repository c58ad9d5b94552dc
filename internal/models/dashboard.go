package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout identifies a calendar month bucket.
const MonthLayout = "2006-01"

// TopCategoryNone is reported when there are no expenses to rank.
const TopCategoryNone = "N/A"

// ExpenseSummary holds the headline metrics of a user's dashboard
type ExpenseSummary struct {
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	AverageExpense  decimal.Decimal `json:"average_expense"`
	ExpenseCount    int64           `json:"expense_count"`
	TopCategory     string          `json:"top_category"`
	LargestExpense  decimal.Decimal `json:"largest_expense"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	Last30Days      decimal.Decimal `json:"last_30_days"`
	Last7Days       decimal.Decimal `json:"last_7_days"`
	DailyAverage    decimal.Decimal `json:"daily_average"`
}

type MonthlyTotal struct {
	Month        string          `json:"month"`
	MonthStart   time.Time       `json:"month_start"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ExpenseCount int64           `json:"expense_count"`
}

type DailyTotal struct {
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// HeatmapRow is one month of the calendar heatmap, with one value per weekday (Monday first).
type HeatmapRow struct {
	Month  string            `json:"month"`
	Values []decimal.Decimal `json:"values"`
}

// Heatmap sums spending by weekday and month name.
type Heatmap struct {
	Weekdays []string        `json:"weekdays"`
	Rows     []HeatmapRow    `json:"rows"`
	Max      decimal.Decimal `json:"max"`
}

type CumulativePoint struct {
	Date       time.Time       `json:"date"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// Dashboard is the aggregated view of one user's expenses.
type Dashboard struct {
	HasData     bool              `json:"has_data"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     ExpenseSummary    `json:"summary"`
	Monthly     []MonthlyTotal    `json:"monthly"`
	Categories  []CategoryTotal   `json:"categories"`
	Daily       []DailyTotal      `json:"daily"`
	Heatmap     Heatmap           `json:"heatmap"`
	Timeline    []CumulativePoint `json:"timeline"`
}

type ForecastPoint struct {
	Month           string          `json:"month"`
	MonthStart      time.Time       `json:"month_start"`
	PredictedAmount decimal.Decimal `json:"predicted_amount"`
}

// Forecast is a straight-line projection of monthly spending.
type Forecast struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	History       []MonthlyTotal  `json:"history"`
	Predictions   []ForecastPoint `json:"predictions"`
	SlopePerMonth float64         `json:"slope_per_month"`
	Intercept     float64         `json:"intercept"`
	RSquared      float64         `json:"r_squared"`
}

// MonthStart returns the first day of t's month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
