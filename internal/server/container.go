package server

import (
	"context"
	"log/slog"

	"smartspend/internal/config"
	"smartspend/internal/database"
	"smartspend/internal/repositories"
	"smartspend/internal/services"

	"github.com/prometheus/client_golang/prometheus"
)

// Container holds the repositories and services shared by the HTTP server and the CLI
type Container struct {
	Config *config.Config
	DB     *database.DB
	Logger *slog.Logger

	UserRepo             repositories.UserRepositoryInterface
	ExpenseRepo          repositories.ExpenseRepositoryInterface
	AuditLogRepo         repositories.AuditLogRepositoryInterface
	BlacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface

	Metrics          services.MetricsRecorderInterface
	AuditLogger      services.AuditLoggerInterface
	AuditService     services.AuditServiceInterface
	PasswordService  services.PasswordServiceInterface
	TokenService     services.TokenServiceInterface
	AuthService      services.AuthServiceInterface
	ExpenseService   services.ExpenseServiceInterface
	DashboardService services.DashboardServiceInterface
	ForecastService  services.ForecastServiceInterface
	ChartService     services.ChartServiceInterface
	ExportService    services.ExportServiceInterface
	ReportArchiver   services.ReportArchiverInterface
}

// NewContainer wires every service against db. Metrics are registered on reg.
func NewContainer(cfg *config.Config, db *database.DB, logger *slog.Logger, reg prometheus.Registerer) *Container {
	c := &Container{
		Config: cfg,
		DB:     db,
		Logger: logger,

		UserRepo:             repositories.NewUserRepository(db.DB),
		ExpenseRepo:          repositories.NewExpenseRepository(db.DB),
		AuditLogRepo:         repositories.NewAuditLogRepository(db.DB),
		BlacklistedTokenRepo: repositories.NewBlacklistedTokenRepository(db.DB),

		Metrics:         services.NewPrometheusMetricsWith(reg),
		AuditLogger:     services.NewAuditLogger(logger),
		PasswordService: services.NewPasswordService(cfg.Security.BCryptCost, cfg.Security.PasswordMinLength),
		TokenService:    services.NewTokenService(&cfg.JWT),
	}

	c.AuditService = services.NewAuditService(c.AuditLogRepo)
	c.AuthService = services.NewAuthService(
		c.UserRepo,
		c.AuditLogRepo,
		c.BlacklistedTokenRepo,
		c.PasswordService,
		c.TokenService,
		c.Metrics,
		logger,
	)
	c.ExpenseService = services.NewExpenseService(c.ExpenseRepo, c.AuditService, c.AuditLogger, c.Metrics, logger)
	c.DashboardService = services.NewDashboardService(c.ExpenseRepo, c.AuditLogger, c.Metrics, logger)
	c.ForecastService = services.NewForecastService(c.DashboardService, c.AuditLogger, c.Metrics, logger)
	c.ChartService = services.NewChartService(c.DashboardService, c.ForecastService, &cfg.App)
	c.ReportArchiver = newReportArchiver(cfg.Reports, c.Metrics, logger)
	c.ExportService = services.NewExportService(
		c.ExpenseRepo,
		c.AuditService,
		c.AuditLogger,
		c.Metrics,
		logger,
		cfg.App.CurrencySymbol,
		c.ReportArchiver,
	)

	return c
}

// newReportArchiver builds the process-wide S3 archiver. A broken AWS setup disables
// archiving instead of failing startup.
func newReportArchiver(cfg config.ReportsConfig, metrics services.MetricsRecorderInterface, logger *slog.Logger) services.ReportArchiverInterface {
	archiver, err := services.NewReportArchiver(context.Background(), cfg, metrics, logger)
	if err != nil {
		logger.Warn("report archiving disabled", "bucket", cfg.S3Bucket, "error", err)
		archiver, _ = services.NewReportArchiver(context.Background(), config.ReportsConfig{}, metrics, logger)
	}
	return archiver
}
