package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"smartspend/internal/config"
	"smartspend/internal/dto"
	apierrors "smartspend/internal/errors"
	"smartspend/internal/models"
	"smartspend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// flashMessages are the only notices a redirect may ask a page to show.
var flashMessages = map[string]string{
	"registered": "Account created! Please login.",
	"added":      "Expense added successfully!",
	"deleted":    "Expense deleted!",
	"logout":     "You have been logged out.",
}

// pageData is the view model shared by every page template
type pageData struct {
	Title           string
	Username        string
	Flash           string
	Error           string
	FormUsername    string
	FormEmail       string
	Today           string
	Categories      []string
	Charts          []string
	Expenses        []models.Expense
	Dashboard       *models.Dashboard
	Forecast        *models.Forecast
	ForecastMessage string
}

// WebHandler serves the browser UI. The session token lives in an HTTP-only cookie.
type WebHandler struct {
	authService      services.AuthServiceInterface
	expenseService   services.ExpenseServiceInterface
	dashboardService services.DashboardServiceInterface
	forecastService  services.ForecastServiceInterface
	session          config.SessionConfig
	forecastHorizon  int
	logger           *slog.Logger
	now              func() time.Time
}

func NewWebHandler(
	authService services.AuthServiceInterface,
	expenseService services.ExpenseServiceInterface,
	dashboardService services.DashboardServiceInterface,
	forecastService services.ForecastServiceInterface,
	session config.SessionConfig,
	forecastHorizon int,
	logger *slog.Logger,
) *WebHandler {
	return &WebHandler{
		authService:      authService,
		expenseService:   expenseService,
		dashboardService: dashboardService,
		forecastService:  forecastService,
		session:          session,
		forecastHorizon:  forecastHorizon,
		logger:           logger,
		now:              time.Now,
	}
}

func (h *WebHandler) page(c echo.Context, title string) pageData {
	return pageData{
		Title:    title,
		Username: getUsernameFromContext(c),
		Flash:    flashMessages[c.QueryParam("flash")],
	}
}

func (h *WebHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *WebHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", h.page(c, "Login"))
}

func (h *WebHandler) Login(c echo.Context) error {
	data := h.page(c, "Login")

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		data.Error = "Please fill all fields"
		return c.Render(http.StatusBadRequest, "login", data)
	}
	data.FormUsername = req.Username
	if err := c.Validate(req); err != nil {
		data.Error = "Please fill all fields"
		return c.Render(http.StatusBadRequest, "login", data)
	}

	tokens, err := h.authService.Login(&req, ClientIP(c), c.Request().UserAgent())
	if err != nil {
		data.Error = webErrorMessage(err)
		return c.Render(http.StatusUnauthorized, "login", data)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.ExpiresAt,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *WebHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register", h.page(c, "Register"))
}

func (h *WebHandler) Register(c echo.Context) error {
	data := h.page(c, "Register")

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		data.Error = "Please fill all fields"
		return c.Render(http.StatusBadRequest, "register", data)
	}
	data.FormUsername = req.Username
	data.FormEmail = req.Email
	if err := c.Validate(req); err != nil {
		data.Error = webErrorMessage(err)
		return c.Render(http.StatusBadRequest, "register", data)
	}

	if _, err := h.authService.Register(&req, ClientIP(c), c.Request().UserAgent()); err != nil {
		data.Error = webErrorMessage(err)
		status := http.StatusBadRequest
		if code, ok := errorCodeFor(err); ok {
			status = apierrors.StatusFor(code)
		}
		return c.Render(status, "register", data)
	}

	return c.Redirect(http.StatusSeeOther, "/login?flash=registered")
}

// Logout revokes the session token and clears the cookie.
func (h *WebHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.session.CookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(cookie.Value, ClientIP(c), c.Request().UserAgent()); err != nil {
			h.logger.WarnContext(c.Request().Context(), "Logout failed",
				"trace_id", getTraceID(c),
				"error", err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/login?flash=logout")
}

func (h *WebHandler) Dashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	dashboard, err := h.dashboardService.GetDashboard(userID)
	if err != nil {
		return err
	}

	data := h.page(c, "Dashboard")
	data.Dashboard = dashboard
	if !dashboard.HasData {
		return c.Render(http.StatusOK, "dashboard", data)
	}

	for _, name := range services.ChartNames() {
		if name == services.ChartForecast || (name == services.ChartDaily && len(dashboard.Daily) == 0) {
			continue
		}
		data.Charts = append(data.Charts, name)
	}

	forecast, err := h.forecastService.Forecast(userID, h.forecastHorizon)
	switch {
	case err == nil:
		data.Forecast = forecast
		data.Charts = append(data.Charts, services.ChartForecast)
	case errors.Is(err, services.ErrInsufficientForecastData):
		data.ForecastMessage = "Need at least 2 months of data for forecasting."
	default:
		return err
	}

	return c.Render(http.StatusOK, "dashboard", data)
}

func (h *WebHandler) Expenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	expenses, err := h.expenseService.GetAllExpenses(userID)
	if err != nil {
		return err
	}

	data := h.page(c, "Expenses")
	data.Expenses = expenses
	return c.Render(http.StatusOK, "expenses", data)
}

func (h *WebHandler) NewExpensePage(c echo.Context) error {
	return c.Render(http.StatusOK, "expense_new", h.expenseForm(c))
}

func (h *WebHandler) CreateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	data := h.expenseForm(c)
	var req dto.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		data.Error = "Please fill all fields"
		return c.Render(http.StatusBadRequest, "expense_new", data)
	}
	if err := c.Validate(req); err != nil {
		data.Error = webErrorMessage(err)
		return c.Render(http.StatusBadRequest, "expense_new", data)
	}

	if _, err := h.expenseService.AddExpense(userID, &req, ClientIP(c), c.Request().UserAgent()); err != nil {
		if _, ok := errorCodeFor(err); !ok {
			return err
		}
		data.Error = webErrorMessage(err)
		return c.Render(http.StatusBadRequest, "expense_new", data)
	}

	return c.Redirect(http.StatusSeeOther, "/expenses/new?flash=added")
}

func (h *WebHandler) DeleteExpensePage(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	expenses, err := h.expenseService.GetAllExpenses(userID)
	if err != nil {
		return err
	}

	data := h.page(c, "Delete Expense")
	data.Expenses = expenses
	return c.Render(http.StatusOK, "expense_delete", data)
}

func (h *WebHandler) DeleteExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	expenseID, err := uuid.Parse(c.FormValue("id"))
	if err != nil {
		return h.renderDeleteError(c, userID, "Please select an expense to delete")
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID, ClientIP(c), c.Request().UserAgent()); err != nil {
		if _, ok := errorCodeFor(err); !ok {
			return err
		}
		return h.renderDeleteError(c, userID, webErrorMessage(err))
	}

	return c.Redirect(http.StatusSeeOther, "/expenses/delete?flash=deleted")
}

func (h *WebHandler) renderDeleteError(c echo.Context, userID uuid.UUID, message string) error {
	expenses, err := h.expenseService.GetAllExpenses(userID)
	if err != nil {
		return err
	}

	data := h.page(c, "Delete Expense")
	data.Expenses = expenses
	data.Error = message
	return c.Render(http.StatusBadRequest, "expense_delete", data)
}

func (h *WebHandler) expenseForm(c echo.Context) pageData {
	data := h.page(c, "Add Expense")
	data.Categories = models.AllCategories()
	data.Today = h.now().Format(models.DateLayout)
	return data
}

// webErrorMessage turns an error into a message fit for a form.
func webErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		switch validationErrs[0].Tag() {
		case "required":
			return "Please fill all fields"
		case "expense_amount":
			return "Amount must be a positive number with at most 2 decimals"
		case "expense_category":
			return "Please choose a valid category"
		case "username":
			return "Username must be 3-50 letters, digits, '_', '.' or '-'"
		case "email":
			return "Invalid email format"
		case "datetime":
			return "Date must be in YYYY-MM-DD format"
		default:
			return "Invalid " + validationErrs[0].Field()
		}
	}

	if code, ok := errorCodeFor(err); ok {
		switch code {
		case apierrors.AuthWeakPassword, apierrors.UserInvalidUsername, apierrors.ValidationInvalidEmail,
			apierrors.ExpenseInvalidAmount, apierrors.ExpenseDescriptionLength:
			return err.Error()
		}
		return apierrors.GetErrorMessage(code)
	}

	return "Something went wrong, please try again"
}
