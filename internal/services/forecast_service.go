package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"smartspend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2/matrix"
)

const (
	MinForecastHorizon = 1
	MaxForecastHorizon = 12

	hoursPerDay         = 24
	averageDaysPerMonth = 365.2425 / 12
)

var (
	ErrInsufficientForecastData = errors.New("at least two months of expenses are needed for a forecast")
	ErrInvalidForecastHorizon   = fmt.Errorf("forecast horizon must be between %d and %d months", MinForecastHorizon, MaxForecastHorizon)
)

type forecastService struct {
	dashboardService DashboardServiceInterface
	auditLogger      AuditLoggerInterface
	metrics          MetricsRecorderInterface
	logger           *slog.Logger
	now              func() time.Time
}

func NewForecastService(
	dashboardService DashboardServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ForecastServiceInterface {
	return &forecastService{
		dashboardService: dashboardService,
		auditLogger:      auditLogger,
		metrics:          metrics,
		logger:           logger,
		now:              time.Now,
	}
}

// Forecast fits a line through the user's monthly totals and projects it horizon months ahead.
func (s *forecastService) Forecast(userID uuid.UUID, horizon int) (*models.Forecast, error) {
	start := time.Now()

	history, err := s.dashboardService.GetMonthlyTotals(userID)
	if err != nil {
		s.metrics.IncrementCounter("forecasts", map[string]string{"status": "error"})
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}

	forecast, err := FitForecast(history, horizon, s.now())
	if err != nil {
		status := "error"
		if errors.Is(err, ErrInsufficientForecastData) {
			status = "insufficient_data"
		}
		s.metrics.IncrementCounter("forecasts", map[string]string{"status": status})
		return nil, err
	}

	s.metrics.IncrementCounter("forecasts", map[string]string{"status": "success"})
	s.metrics.RecordProcessingTime("forecast", time.Since(start))
	s.metrics.RecordGauge("forecast_r_squared", forecast.RSquared, nil)
	s.auditLogger.LogForecastComputed(context.Background(), userID, len(history), horizon, forecast.RSquared)

	return forecast, nil
}

// FitForecast regresses monthly totals against the number of days since the first
// month's start. Negative projections are clamped to zero.
func FitForecast(history []models.MonthlyTotal, horizon int, now time.Time) (*models.Forecast, error) {
	if horizon < MinForecastHorizon || horizon > MaxForecastHorizon {
		return nil, ErrInvalidForecastHorizon
	}
	if len(history) < 2 {
		return nil, ErrInsufficientForecastData
	}

	origin := history[0].MonthStart
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, month := range history {
		xs[i] = daysSince(origin, month.MonthStart)
		ys[i] = month.TotalAmount.InexactFloat64()
	}

	coeffs, err := matrix.Poly(xs, ys, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fit regression: %w", err)
	}
	intercept, slope := coeffs[0], coeffs[1]

	last := history[len(history)-1].MonthStart
	predictions := make([]models.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		monthStart := last.AddDate(0, i, 0)
		predicted := math.Max(0, intercept+slope*daysSince(origin, monthStart))
		predictions = append(predictions, models.ForecastPoint{
			Month:           monthStart.Format(models.MonthLayout),
			MonthStart:      monthStart,
			PredictedAmount: decimal.NewFromFloat(predicted).Round(2),
		})
	}

	return &models.Forecast{
		GeneratedAt:   now,
		History:       history,
		Predictions:   predictions,
		SlopePerMonth: slope * averageDaysPerMonth,
		Intercept:     intercept,
		RSquared:      rSquared(xs, ys, intercept, slope),
	}, nil
}

func daysSince(origin, t time.Time) float64 {
	return t.Sub(origin).Hours() / hoursPerDay
}

// rSquared is the coefficient of determination of the fitted line. A flat series that the
// line reproduces exactly scores 1.
func rSquared(xs, ys []float64, intercept, slope float64) float64 {
	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	var ssRes, ssTot float64
	for i, x := range xs {
		residual := ys[i] - (intercept + slope*x)
		ssRes += residual * residual
		deviation := ys[i] - mean
		ssTot += deviation * deviation
	}

	if ssTot == 0 {
		if ssRes < 1e-9 {
			return 1
		}
		return 0
	}

	return 1 - ssRes/ssTot
}
