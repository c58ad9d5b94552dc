package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"smartspend/internal/models"
	"smartspend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// RecentWindowDays is the trailing window behind the "last 30 days" figures and the daily chart.
	RecentWindowDays = 30
	WeekWindowDays   = 7
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type dashboardService struct {
	expenseRepo repositories.ExpenseRepositoryInterface
	auditLogger AuditLoggerInterface
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
	now         func() time.Time
}

func NewDashboardService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) DashboardServiceInterface {
	return &dashboardService{
		expenseRepo: expenseRepo,
		auditLogger: auditLogger,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *dashboardService) GetDashboard(userID uuid.UUID) (*models.Dashboard, error) {
	start := time.Now()

	expenses, err := s.expenseRepo.GetAllByUser(userID)
	if err != nil {
		s.logger.Error("failed to fetch expenses for dashboard",
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	dashboard := BuildDashboard(expenses, s.now())
	if dashboard.HasData {
		first, last := dateSpan(expenses)
		categories, err := s.expenseRepo.GetCategoryTotals(userID, first, last)
		if err != nil {
			s.logger.Error("failed to fetch category totals for dashboard",
				"user_id", userID,
				"error", err)
			return nil, fmt.Errorf("failed to fetch category totals: %w", err)
		}
		for i := range categories {
			categories[i].TotalAmount = categories[i].TotalAmount.Round(2)
		}
		dashboard.Categories = categories
	}

	elapsed := time.Since(start)
	s.metrics.RecordProcessingTime("dashboard", elapsed)
	s.auditLogger.LogDashboardComputed(context.Background(), userID, len(expenses), elapsed.Milliseconds())

	return dashboard, nil
}

func (s *dashboardService) GetMonthlyTotals(userID uuid.UUID) ([]models.MonthlyTotal, error) {
	expenses, err := s.expenseRepo.GetAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	return MonthlyTotals(expenses), nil
}

// dateSpan returns the earliest and latest expense dates. expenses must not be empty.
func dateSpan(expenses []models.Expense) (time.Time, time.Time) {
	first, last := expenses[0].Date, expenses[0].Date
	for _, e := range expenses[1:] {
		if e.Date.Before(first) {
			first = e.Date
		}
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return first, last
}

// BuildDashboard aggregates expenses as of now. It never fails; with no expenses
// HasData is false and every figure is zero.
func BuildDashboard(expenses []models.Expense, now time.Time) *models.Dashboard {
	dashboard := &models.Dashboard{
		HasData:     len(expenses) > 0,
		GeneratedAt: now,
		Summary:     Summarize(expenses, now),
		Monthly:     MonthlyTotals(expenses),
		Categories:  CategoryTotals(expenses),
		Daily:       DailyTotals(expenses, now),
		Heatmap:     BuildHeatmap(expenses),
		Timeline:    CumulativeTimeline(expenses),
	}

	return dashboard
}

// Summarize computes the headline figures. "Last N days" counts expenses dated
// strictly after today minus N days.
func Summarize(expenses []models.Expense, now time.Time) models.ExpenseSummary {
	summary := models.ExpenseSummary{
		TopCategory: models.TopCategoryNone,
	}
	if len(expenses) == 0 {
		return summary
	}

	today := models.TruncateToDay(now)
	monthStart := models.MonthStart(today)
	recentCutoff := today.AddDate(0, 0, -RecentWindowDays)
	weekCutoff := today.AddDate(0, 0, -WeekWindowDays)

	counts := make(map[string]int)
	for _, e := range expenses {
		summary.TotalExpenses = summary.TotalExpenses.Add(e.Amount)
		if e.Amount.GreaterThan(summary.LargestExpense) {
			summary.LargestExpense = e.Amount
		}
		counts[e.Category]++

		date := models.TruncateToDay(e.Date)
		if models.MonthStart(date).Equal(monthStart) {
			summary.MonthlyExpenses = summary.MonthlyExpenses.Add(e.Amount)
		}
		if date.After(recentCutoff) {
			summary.Last30Days = summary.Last30Days.Add(e.Amount)
		}
		if date.After(weekCutoff) {
			summary.Last7Days = summary.Last7Days.Add(e.Amount)
		}
	}

	summary.ExpenseCount = int64(len(expenses))
	summary.AverageExpense = summary.TotalExpenses.Div(decimal.NewFromInt(summary.ExpenseCount)).Round(2)
	summary.DailyAverage = summary.Last30Days.Div(decimal.NewFromInt(RecentWindowDays)).Round(2)
	summary.TopCategory = topCategory(counts)

	return summary
}

// topCategory is the most frequent category; ties go to the alphabetically first.
func topCategory(counts map[string]int) string {
	best := models.TopCategoryNone
	bestCount := 0
	for category, count := range counts {
		if count > bestCount || (count == bestCount && category < best) {
			best = category
			bestCount = count
		}
	}
	return best
}

// MonthlyTotals sums expenses per calendar month, oldest first.
func MonthlyTotals(expenses []models.Expense) []models.MonthlyTotal {
	byMonth := make(map[time.Time]*models.MonthlyTotal)
	for _, e := range expenses {
		start := models.MonthStart(e.Date)
		total, ok := byMonth[start]
		if !ok {
			total = &models.MonthlyTotal{
				Month:      start.Format(models.MonthLayout),
				MonthStart: start,
			}
			byMonth[start] = total
		}
		total.TotalAmount = total.TotalAmount.Add(e.Amount)
		total.ExpenseCount++
	}

	result := make([]models.MonthlyTotal, 0, len(byMonth))
	for _, total := range byMonth {
		result = append(result, *total)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MonthStart.Before(result[j].MonthStart)
	})

	return result
}

// CategoryTotals sums expenses per category, largest first.
func CategoryTotals(expenses []models.Expense) []models.CategoryTotal {
	byCategory := make(map[string]*models.CategoryTotal)
	for _, e := range expenses {
		total, ok := byCategory[e.Category]
		if !ok {
			total = &models.CategoryTotal{Category: e.Category}
			byCategory[e.Category] = total
		}
		total.TotalAmount = total.TotalAmount.Add(e.Amount)
		total.ExpenseCount++
	}

	result := make([]models.CategoryTotal, 0, len(byCategory))
	for _, total := range byCategory {
		result = append(result, *total)
	}
	sort.Slice(result, func(i, j int) bool {
		if cmp := result[i].TotalAmount.Cmp(result[j].TotalAmount); cmp != 0 {
			return cmp > 0
		}
		return result[i].Category < result[j].Category
	})

	return result
}

// DailyTotals sums the last 30 days per day, oldest first. Days without expenses are omitted.
func DailyTotals(expenses []models.Expense, now time.Time) []models.DailyTotal {
	cutoff := models.TruncateToDay(now).AddDate(0, 0, -RecentWindowDays)

	byDay := make(map[time.Time]decimal.Decimal)
	for _, e := range expenses {
		date := models.TruncateToDay(e.Date)
		if !date.After(cutoff) {
			continue
		}
		byDay[date] = byDay[date].Add(e.Amount)
	}

	result := make([]models.DailyTotal, 0, len(byDay))
	for date, amount := range byDay {
		result = append(result, models.DailyTotal{Date: date, TotalAmount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result
}

// BuildHeatmap sums spending per weekday (Monday first) and month name. Months of
// different years share a row; rows are in calendar order.
func BuildHeatmap(expenses []models.Expense) models.Heatmap {
	heatmap := models.Heatmap{
		Weekdays: make([]string, len(weekdayOrder)),
		Rows:     []models.HeatmapRow{},
	}
	for i, day := range weekdayOrder {
		heatmap.Weekdays[i] = day.String()
	}

	var cells [13][7]decimal.Decimal
	var seen [13]bool
	for _, e := range expenses {
		month := e.Date.Month()
		col := (int(e.Date.Weekday()) + 6) % 7
		cells[month][col] = cells[month][col].Add(e.Amount)
		seen[month] = true
	}

	for month := time.January; month <= time.December; month++ {
		if !seen[month] {
			continue
		}
		row := models.HeatmapRow{
			Month:  month.String(),
			Values: make([]decimal.Decimal, len(weekdayOrder)),
		}
		for col := range weekdayOrder {
			value := cells[month][col]
			row.Values[col] = value
			if value.GreaterThan(heatmap.Max) {
				heatmap.Max = value
			}
		}
		heatmap.Rows = append(heatmap.Rows, row)
	}

	return heatmap
}

// CumulativeTimeline orders expenses by date (then entry time) and carries a running total.
func CumulativeTimeline(expenses []models.Expense) []models.CumulativePoint {
	sorted := make([]models.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	points := make([]models.CumulativePoint, 0, len(sorted))
	running := decimal.Zero
	for _, e := range sorted {
		running = running.Add(e.Amount)
		points = append(points, models.CumulativePoint{
			Date:       e.Date,
			Category:   e.Category,
			Amount:     e.Amount,
			Cumulative: running,
		})
	}

	return points
}
