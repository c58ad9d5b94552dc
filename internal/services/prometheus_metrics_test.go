package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := NewPrometheusMetricsWith(prometheus.NewRegistry())

	m.IncrementCounter("user_registrations", nil)
	m.IncrementCounter("auth_attempts", map[string]string{"result": "success"})
	m.IncrementCounter("auth_attempts", map[string]string{"result": "failure"})
	m.IncrementCounter("auth_attempts", map[string]string{"result": "failure"})
	m.IncrementCounter("auth_attempts", nil)
	m.IncrementCounter("expenses_created", map[string]string{"category": "Food"})
	m.IncrementCounter("expenses_deleted", nil)
	m.IncrementCounter("reports_exported", map[string]string{"format": "csv"})
	m.IncrementCounter("unknown_metric", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.userRegistrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expensesCreated.WithLabelValues("Food")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expensesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportsExported.WithLabelValues("csv")))
}

func TestPrometheusMetrics_GaugesAndDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWith(reg)

	m.RecordGauge("registered_users", 42, nil)
	m.RecordGauge("expenses_imported", 30, nil)
	m.RecordGauge("forecast_r_squared", 0.87, nil)
	m.RecordGauge("expense_amount", 250, map[string]string{"category": "Bills"})
	m.RecordProcessingTime("dashboard", 12*time.Millisecond)
	m.RecordProcessingTime("export", time.Second)

	assert.Equal(t, 42.0, testutil.ToFloat64(m.registeredUsers))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.expensesImported))
	assert.InDelta(t, 0.87, testutil.ToFloat64(m.forecastRSquared), 1e-9)

	count, err := testutil.GatherAndCount(reg, "smartspend_expense_amount", "smartspend_dashboard_duration_milliseconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusMetricsWith(prometheus.NewRegistry())
		NewPrometheusMetricsWith(prometheus.NewRegistry())
	})
}
