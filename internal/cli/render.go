package cli

import (
	"fmt"
	"strconv"
	"strings"

	"smartspend/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

var (
	colorBorder = lipgloss.Color("#3F3F46")
	colorMuted  = lipgloss.Color("#A1A1AA")
	colorText   = lipgloss.Color("#FAFAFA")
	colorAccent = lipgloss.Color("#6366F1")
	colorGreen  = lipgloss.Color("#22C55E")
	colorRed    = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	upStyle    = lipgloss.NewStyle().Foreground(colorRed)
	downStyle  = lipgloss.NewStyle().Foreground(colorGreen)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(24)
)

const barWidth = 30

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(78).
		Align(lipgloss.Center).
		Render(titleStyle.Render(title))
}

// RenderSummary renders the dashboard metric cards, the category breakdown and, when
// forecast is non-nil, the projected months.
func RenderSummary(username string, d *models.Dashboard, forecast *models.Forecast, symbol string) string {
	var b strings.Builder
	b.WriteString(RenderTitle("SMARTSPEND · " + strings.ToUpper(username)))
	b.WriteString("\n")

	if !d.HasData {
		b.WriteString(labelStyle.Render("  No expenses recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	s := d.Summary
	money := func(v decimal.Decimal) string { return models.FormatCurrency(symbol, v) }
	rows := [][]string{
		{card("Total Expenses", money(s.TotalExpenses)), card("Average Expense", money(s.AverageExpense)), card("Transactions", strconv.FormatInt(s.ExpenseCount, 10))},
		{card("This Month", money(s.MonthlyExpenses)), card("Last 30 Days", money(s.Last30Days)), card("Last 7 Days", money(s.Last7Days))},
		{card("Top Category", s.TopCategory), card("Largest Expense", money(s.LargestExpense)), card("Daily Average", money(s.DailyAverage))},
	}
	for _, row := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(valueStyle.Render("  Spending by category"))
	b.WriteString("\n")
	b.WriteString(RenderCategoryBars(d.Categories, symbol))

	if forecast != nil && len(forecast.Predictions) > 0 {
		b.WriteString("\n")
		b.WriteString(valueStyle.Render("  Forecast"))
		b.WriteString("\n")
		trend := downStyle.Render(fmt.Sprintf("%s/month", money(decimal.NewFromFloat(forecast.SlopePerMonth))))
		if forecast.SlopePerMonth > 0 {
			trend = upStyle.Render(fmt.Sprintf("+%s/month", money(decimal.NewFromFloat(forecast.SlopePerMonth))))
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", labelStyle.Render("trend"), trend, labelStyle.Render(fmt.Sprintf("R² %.2f", forecast.RSquared))))
		for _, p := range forecast.Predictions {
			b.WriteString(fmt.Sprintf("  %s  %s\n", labelStyle.Render(p.Month), valueStyle.Render(money(p.PredictedAmount))))
		}
	}

	return b.String()
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// RenderCategoryBars draws one horizontal bar per category, scaled to the largest total.
func RenderCategoryBars(totals []models.CategoryTotal, symbol string) string {
	if len(totals) == 0 {
		return ""
	}

	largest := decimal.Zero
	nameWidth := 0
	for _, t := range totals {
		if t.TotalAmount.GreaterThan(largest) {
			largest = t.TotalAmount
		}
		if len(t.Category) > nameWidth {
			nameWidth = len(t.Category)
		}
	}

	var b strings.Builder
	for _, t := range totals {
		filled := 0
		if largest.IsPositive() {
			filled = int(t.TotalAmount.Div(largest).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		}
		if filled == 0 && t.TotalAmount.IsPositive() {
			filled = 1
		}
		b.WriteString(fmt.Sprintf("  %-*s ", nameWidth, t.Category))
		b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(strings.Repeat(" ", barWidth-filled))
		b.WriteString(" ")
		b.WriteString(models.FormatCurrency(symbol, t.TotalAmount))
		b.WriteString("\n")
	}
	return b.String()
}

// ExpenseTableData lays expenses out as a pterm table with a header row.
func ExpenseTableData(expenses []models.Expense, symbol string) pterm.TableData {
	data := pterm.TableData{{"Date", "Category", "Amount", "Description"}}
	for _, e := range expenses {
		data = append(data, []string{
			e.Date.Format(models.DisplayDateLayout),
			e.Category,
			models.FormatCurrency(symbol, e.Amount),
			e.Description,
		})
	}
	return data
}

// RenderExpenseTable renders expenses as a boxed pterm table.
func RenderExpenseTable(expenses []models.Expense, symbol string) (string, error) {
	return pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithRightAlignment().
		WithData(ExpenseTableData(expenses, symbol)).
		Srender()
}
