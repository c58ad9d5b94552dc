package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type contextKey string

// Context keys read by the audit logger to tie log lines to a request.
const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"
)

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogExpenseCreated(ctx context.Context, expenseID, userID uuid.UUID, category, amount string) {
	al.logger.InfoContext(ctx, "expense created",
		slog.String("event_type", "expense_created"),
		slog.String("expense_id", expenseID.String()),
		slog.String("user_id", userID.String()),
		slog.String("category", category),
		slog.String("amount", amount),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogExpenseDeleted(ctx context.Context, expenseID, userID uuid.UUID) {
	al.logger.InfoContext(ctx, "expense deleted",
		slog.String("event_type", "expense_deleted"),
		slog.String("expense_id", expenseID.String()),
		slog.String("user_id", userID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogDashboardComputed(ctx context.Context, userID uuid.UUID, expenseCount int, durationMs int64) {
	al.logger.DebugContext(ctx, "dashboard computed",
		slog.String("event_type", "dashboard_computed"),
		slog.String("user_id", userID.String()),
		slog.Int("expense_count", expenseCount),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogForecastComputed(ctx context.Context, userID uuid.UUID, months, horizon int, rSquared float64) {
	al.logger.InfoContext(ctx, "forecast computed",
		slog.String("event_type", "forecast_computed"),
		slog.String("user_id", userID.String()),
		slog.Int("history_months", months),
		slog.Int("horizon", horizon),
		slog.Float64("r_squared", rSquared),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogReportExported(ctx context.Context, userID uuid.UUID, format string, rows int, bytes int) {
	al.logger.InfoContext(ctx, "report exported",
		slog.String("event_type", "report_exported"),
		slog.String("user_id", userID.String()),
		slog.String("format", format),
		slog.Int("rows", rows),
		slog.Int("bytes", bytes),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogReportArchived(ctx context.Context, userID uuid.UUID, location string, durationMs int64) {
	al.logger.InfoContext(ctx, "report archived",
		slog.String("event_type", "report_archived"),
		slog.String("user_id", userID.String()),
		slog.String("location", location),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogReportArchiveFailed(ctx context.Context, userID uuid.UUID, errorMsg string) {
	al.logger.WarnContext(ctx, "report archive failed",
		slog.String("event_type", "report_archive_failed"),
		slog.String("user_id", userID.String()),
		slog.String("error", errorMsg),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}

	return ""
}
