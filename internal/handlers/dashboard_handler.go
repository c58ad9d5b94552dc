package handlers

import (
	"bytes"
	"net/http"

	"smartspend/internal/errors"
	"smartspend/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the aggregated dashboard, charts and forecast
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
	forecastService  services.ForecastServiceInterface
	chartService     services.ChartServiceInterface
	defaultHorizon   int
}

func NewDashboardHandler(
	dashboardService services.DashboardServiceInterface,
	forecastService services.ForecastServiceInterface,
	chartService services.ChartServiceInterface,
	defaultHorizon int,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		forecastService:  forecastService,
		chartService:     chartService,
		defaultHorizon:   defaultHorizon,
	}
}

// GetDashboard returns every dashboard metric for the caller
// @Summary Dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Dashboard
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	dashboard, err := h.dashboardService.GetDashboard(userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dashboard)
}

// GetChart renders one dashboard chart
// @Summary Dashboard chart
// @Tags Dashboard
// @Security BearerAuth
// @Produce image/svg+xml,image/png
// @Param name path string true "monthly, category-pie, category-bar, daily, timeline or forecast"
// @Param format query string false "svg (default) or png"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse "DASHBOARD_001"
// @Router /dashboard/charts/{name} [get]
func (h *DashboardHandler) GetChart(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	format := c.QueryParam("format")
	var buf bytes.Buffer
	if err := h.chartService.RenderChart(userID, c.Param("name"), format, &buf); err != nil {
		return sendServiceError(c, err)
	}

	c.Response().Header().Set("Cache-Control", "private, no-store")
	return c.Blob(http.StatusOK, h.chartService.ContentType(format), buf.Bytes())
}

// GetForecast projects monthly spending
// @Summary Spending forecast
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param months query int false "Months to project, 1-12"
// @Success 200 {object} models.Forecast
// @Failure 422 {object} errors.ErrorResponse "DASHBOARD_002"
// @Router /forecast [get]
func (h *DashboardHandler) GetForecast(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	forecast, err := h.forecastService.Forecast(userID, getIntParam(c, "months", h.defaultHorizon))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, forecast)
}
