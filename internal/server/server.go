package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"smartspend/internal/handlers"
	"smartspend/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodySize = "1M"

// New builds the Echo instance with the JSON API, the web UI, docs, health and metrics.
// Background work started for the server stops when ctx is done.
func New(ctx context.Context, c *Container, gatherer prometheus.Gatherer) (*echo.Echo, error) {
	renderer, err := handlers.NewTemplateRenderer(c.Config.App.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()
	e.Renderer = renderer

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(c.Logger))
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.BodyLimit(maxBodySize))
	if len(c.Config.Server.CORSAllowOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     c.Config.Server.CORSAllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader},
			ExposeHeaders:    []string{middleware.TraceIDHeader, echo.HeaderContentDisposition},
			AllowCredentials: true,
		}))
	}
	e.Use(middleware.RateLimiter(ctx, c.Config.Security.RateLimitPerSecond, c.Config.Security.RateLimitBurst))

	registerRoutes(e, c, gatherer)
	return e, nil
}

func registerRoutes(e *echo.Echo, c *Container, gatherer prometheus.Gatherer) {
	cookieName := c.Config.Session.CookieName
	requireAuth := middleware.RequireAuth(c.AuthService, c.TokenService, cookieName)
	requireSession := middleware.RequireSession(c.AuthService, cookieName)

	health := handlers.NewHealthCheckHandler(c.DB.DB)
	docs := handlers.NewDocsHandler()
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/docs", docs.ServeScalarUI)
	e.GET("/docs/openapi.json", docs.ServeOpenAPI)

	authHandler := handlers.NewAuthHandler(c.AuthService, c.TokenService)
	expenseHandler := handlers.NewExpenseHandler(c.ExpenseService, c.ExportService, c.Config.App.CurrencySymbol)
	dashboardHandler := handlers.NewDashboardHandler(c.DashboardService, c.ForecastService, c.ChartService, c.Config.App.ForecastHorizon)
	activityHandler := handlers.NewActivityHandler(c.AuditService)

	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)

	v1.GET("/expenses", expenseHandler.ListExpenses, requireAuth)
	v1.POST("/expenses", expenseHandler.CreateExpense, requireAuth)
	v1.GET("/expenses/export", expenseHandler.ExportExpenses, requireAuth)
	v1.GET("/expenses/:id", expenseHandler.GetExpense, requireAuth)
	v1.DELETE("/expenses/:id", expenseHandler.DeleteExpense, requireAuth)
	v1.GET("/categories", expenseHandler.ListCategories, requireAuth)
	v1.GET("/dashboard", dashboardHandler.GetDashboard, requireAuth)
	v1.GET("/dashboard/charts/:name", dashboardHandler.GetChart, requireAuth)
	v1.GET("/forecast", dashboardHandler.GetForecast, requireAuth)
	v1.GET("/activity", activityHandler.GetActivity, requireAuth)

	web := handlers.NewWebHandler(
		c.AuthService,
		c.ExpenseService,
		c.DashboardService,
		c.ForecastService,
		c.Config.Session,
		c.Config.App.ForecastHorizon,
		c.Logger,
	)
	e.GET("/", web.Index)
	e.GET("/login", web.LoginPage)
	e.POST("/login", web.Login)
	e.GET("/register", web.RegisterPage)
	e.POST("/register", web.Register)
	e.POST("/logout", web.Logout)
	e.GET("/dashboard", web.Dashboard, requireSession)
	e.GET("/expenses", web.Expenses, requireSession)
	e.GET("/expenses/new", web.NewExpensePage, requireSession)
	e.POST("/expenses/new", web.CreateExpense, requireSession)
	e.GET("/expenses/delete", web.DeleteExpensePage, requireSession)
	e.POST("/expenses/delete", web.DeleteExpense, requireSession)
}

// Run serves until ctx is cancelled, then drains in-flight requests within the
// configured shutdown timeout.
func Run(ctx context.Context, e *echo.Echo, c *Container) error {
	cfg := c.Config
	srv := &http.Server{
		Addr:         cfg.Address(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("Starting server", "address", srv.Addr, "environment", cfg.Server.Environment)
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
