package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
	AuthTokenRevoked       ErrorCode = "AUTH_005"
	AuthPasswordMismatch   ErrorCode = "AUTH_006"
	AuthWeakPassword       ErrorCode = "AUTH_007"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
	ValidationInvalidID     ErrorCode = "VALIDATION_007"
)

// User error codes (USER_*)
const (
	UserAlreadyExists   ErrorCode = "USER_001"
	UserNotFound        ErrorCode = "USER_002"
	UserInvalidUsername ErrorCode = "USER_003"
)

// Expense error codes (EXPENSE_*)
const (
	ExpenseNotFound          ErrorCode = "EXPENSE_001"
	ExpenseInvalidAmount     ErrorCode = "EXPENSE_002"
	ExpenseInvalidCategory   ErrorCode = "EXPENSE_003"
	ExpenseInvalidDate       ErrorCode = "EXPENSE_004"
	ExpenseDescriptionLength ErrorCode = "EXPENSE_005"
	ExpenseInvalidFormat     ErrorCode = "EXPENSE_006"
)

// Dashboard error codes (DASHBOARD_*)
const (
	DashboardNoData               ErrorCode = "DASHBOARD_001"
	DashboardInsufficientForecast ErrorCode = "DASHBOARD_002"
	DashboardUnknownChart         ErrorCode = "DASHBOARD_003"
	DashboardInvalidHorizon       ErrorCode = "DASHBOARD_004"
	DashboardUnsupportedFormat    ErrorCode = "DASHBOARD_005"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials: "Invalid username or password",
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token format",
	AuthTokenRevoked:       "Session has been logged out",
	AuthPasswordMismatch:   "Passwords do not match",
	AuthWeakPassword:       "Password does not meet the minimum length",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidDate:   "Invalid date format or range",
	ValidationInvalidID:     "Invalid ID format",

	// User errors
	UserAlreadyExists:   "Username already exists",
	UserNotFound:        "User not found",
	UserInvalidUsername: "Invalid username",

	// Expense errors
	ExpenseNotFound:          "Expense not found",
	ExpenseInvalidAmount:     "Amount must be between 0.01 and 9999999999.99 with at most 2 decimal places",
	ExpenseInvalidCategory:   "Invalid expense category",
	ExpenseInvalidDate:       "Invalid expense date",
	ExpenseDescriptionLength: "Description is too long",
	ExpenseInvalidFormat:     "Unsupported report format",

	// Dashboard errors
	DashboardNoData:               "No expenses recorded yet",
	DashboardInsufficientForecast: "At least two months of expenses are needed for a forecast",
	DashboardUnknownChart:         "Unknown chart",
	DashboardInvalidHorizon:       "Forecast horizon must be between 1 and 12 months",
	DashboardUnsupportedFormat:    "Unsupported chart format",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
