package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	userRegistrations prometheus.Counter
	authAttempts      *prometheus.CounterVec
	expensesCreated   *prometheus.CounterVec
	expensesDeleted   prometheus.Counter
	expensesImported  prometheus.Counter
	expenseAmount     *prometheus.HistogramVec
	reportsExported   *prometheus.CounterVec
	reportsArchived   *prometheus.CounterVec
	forecastsComputed *prometheus.CounterVec
	dashboardDuration prometheus.Histogram
	forecastDuration  prometheus.Histogram
	exportDuration    prometheus.Histogram
	registeredUsers   prometheus.Gauge
	forecastRSquared  prometheus.Gauge
}

// NewPrometheusMetrics registers the application metrics on the default registry
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		userRegistrations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "smartspend_user_registrations_total",
				Help: "Total number of registered users",
			},
		),
		authAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartspend_auth_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		expensesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartspend_expenses_created_total",
				Help: "Total number of expenses recorded by category",
			},
			[]string{"category"},
		),
		expensesDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "smartspend_expenses_deleted_total",
				Help: "Total number of expenses deleted",
			},
		),
		expensesImported: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "smartspend_expenses_imported_total",
				Help: "Total number of expenses bulk imported",
			},
		),
		expenseAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartspend_expense_amount",
				Help:    "Recorded expense amounts in currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
			[]string{"category"},
		),
		reportsExported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartspend_reports_exported_total",
				Help: "Total number of expense reports exported by format",
			},
			[]string{"format"},
		),
		reportsArchived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartspend_reports_archived_total",
				Help: "Total number of report archive uploads by status",
			},
			[]string{"status"},
		),
		forecastsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartspend_forecasts_total",
				Help: "Total number of forecast requests by status",
			},
			[]string{"status"},
		),
		dashboardDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartspend_dashboard_duration_milliseconds",
				Help:    "Dashboard aggregation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		forecastDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartspend_forecast_duration_milliseconds",
				Help:    "Forecast computation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		exportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartspend_export_duration_seconds",
				Help:    "Report export duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		registeredUsers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartspend_registered_users",
				Help: "Current number of registered users",
			},
		),
		forecastRSquared: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartspend_forecast_last_r_squared",
				Help: "Coefficient of determination of the most recent forecast fit",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "user_registrations":
		m.userRegistrations.Inc()
	case "auth_attempts":
		if result := tags["result"]; result != "" {
			m.authAttempts.WithLabelValues(result).Inc()
		}
	case "expenses_created":
		m.expensesCreated.WithLabelValues(tags["category"]).Inc()
	case "expenses_deleted":
		m.expensesDeleted.Inc()
	case "reports_exported":
		m.reportsExported.WithLabelValues(tags["format"]).Inc()
	case "reports_archived":
		if status := tags["status"]; status != "" {
			m.reportsArchived.WithLabelValues(status).Inc()
		}
	case "forecasts":
		if status := tags["status"]; status != "" {
			m.forecastsComputed.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "dashboard":
		m.dashboardDuration.Observe(float64(duration.Milliseconds()))
	case "forecast":
		m.forecastDuration.Observe(float64(duration.Milliseconds()))
	case "export":
		m.exportDuration.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "expense_amount":
		m.expenseAmount.WithLabelValues(tags["category"]).Observe(value)
	case "expenses_imported":
		m.expensesImported.Add(value)
	case "registered_users":
		m.registeredUsers.Set(value)
	case "forecast_r_squared":
		m.forecastRSquared.Set(value)
	}
}
