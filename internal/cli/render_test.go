package cli

import (
	"strings"
	"testing"
	"time"

	"smartspend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDashboard() *models.Dashboard {
	return &models.Dashboard{
		HasData: true,
		Summary: models.ExpenseSummary{
			TotalExpenses:   decimal.RequireFromString("2685.50"),
			AverageExpense:  decimal.RequireFromString("383.64"),
			ExpenseCount:    7,
			TopCategory:     models.CategoryBills,
			LargestExpense:  decimal.RequireFromString("1200"),
			MonthlyExpenses: decimal.RequireFromString("1500"),
			Last30Days:      decimal.RequireFromString("2000"),
			Last7Days:       decimal.RequireFromString("300"),
			DailyAverage:    decimal.RequireFromString("66.67"),
		},
		Categories: []models.CategoryTotal{
			{Category: models.CategoryBills, ExpenseCount: 1, TotalAmount: decimal.RequireFromString("1200")},
			{Category: models.CategoryFood, ExpenseCount: 3, TotalAmount: decimal.RequireFromString("600")},
			{Category: models.CategoryOther, ExpenseCount: 1, TotalAmount: decimal.RequireFromString("5")},
		},
	}
}

func TestRenderSummary(t *testing.T) {
	forecast := &models.Forecast{
		SlopePerMonth: 120.5,
		RSquared:      0.81,
		Predictions: []models.ForecastPoint{
			{Month: "2024-07", PredictedAmount: decimal.RequireFromString("2100")},
		},
	}

	out := RenderSummary("asha", sampleDashboard(), forecast, "₹")

	assert.Contains(t, out, "ASHA")
	assert.Contains(t, out, "₹2,685.50")
	assert.Contains(t, out, "Top Category")
	assert.Contains(t, out, "Bills")
	assert.Contains(t, out, "2024-07")
	assert.Contains(t, out, "₹2,100.00")
	assert.Contains(t, out, "R² 0.81")
}

func TestRenderSummary_NoData(t *testing.T) {
	out := RenderSummary("asha", &models.Dashboard{}, nil, "₹")
	assert.Contains(t, out, "No expenses recorded yet.")
	assert.NotContains(t, out, "Spending by category")
}

func TestRenderCategoryBars(t *testing.T) {
	out := RenderCategoryBars(sampleDashboard().Categories, "₹")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, barWidth, strings.Count(lines[0], "█"))
	assert.Equal(t, 15, strings.Count(lines[1], "█"))
	assert.Equal(t, 1, strings.Count(lines[2], "█"), "small totals still get a visible bar")
	assert.Contains(t, lines[2], "₹5.00")

	assert.Empty(t, RenderCategoryBars(nil, "₹"))
}

func TestExpenseTableData(t *testing.T) {
	expenses := []models.Expense{
		{Date: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), Category: models.CategoryFood, Amount: decimal.RequireFromString("1234.5"), Description: "Groceries"},
	}

	data := ExpenseTableData(expenses, "₹")

	require.Len(t, data, 2)
	assert.Equal(t, []string{"Date", "Category", "Amount", "Description"}, data[0])
	assert.Equal(t, []string{"20-06-2024", "Food", "₹1,234.50", "Groceries"}, data[1])

	out, err := RenderExpenseTable(expenses, "₹")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
}
