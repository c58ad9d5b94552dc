package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the envelope every API error is returned in.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail lines of the response.
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage replaces the default message of the code.
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			Details: []string{},
			TraceID: traceID,
		},
	}
	for _, opt := range opts {
		opt(response)
	}
	return response
}

// NewValidationError turns field -> message pairs into "field: message" details,
// sorted by field so the output is stable.
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(fields))
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, fieldErrors[field]))
	}

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides err behind SYSTEM_001 and hands it back for server-side logging.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

var statusByCode = map[ErrorCode]int{
	AuthInvalidCredentials: http.StatusUnauthorized,
	AuthMissingToken:       http.StatusUnauthorized,
	AuthExpiredToken:       http.StatusUnauthorized,
	AuthInvalidTokenFormat: http.StatusUnauthorized,
	AuthTokenRevoked:       http.StatusUnauthorized,
	AuthPasswordMismatch:   http.StatusBadRequest,
	AuthWeakPassword:       http.StatusBadRequest,

	ValidationGeneral:       http.StatusBadRequest,
	ValidationRequiredField: http.StatusBadRequest,
	ValidationInvalidFormat: http.StatusBadRequest,
	ValidationOutOfRange:    http.StatusBadRequest,
	ValidationInvalidEmail:  http.StatusBadRequest,
	ValidationInvalidDate:   http.StatusBadRequest,
	ValidationInvalidID:     http.StatusBadRequest,

	UserAlreadyExists:   http.StatusConflict,
	UserNotFound:        http.StatusNotFound,
	UserInvalidUsername: http.StatusBadRequest,

	ExpenseNotFound:          http.StatusNotFound,
	ExpenseInvalidAmount:     http.StatusBadRequest,
	ExpenseInvalidCategory:   http.StatusBadRequest,
	ExpenseInvalidDate:       http.StatusBadRequest,
	ExpenseDescriptionLength: http.StatusBadRequest,
	ExpenseInvalidFormat:     http.StatusBadRequest,

	DashboardNoData:               http.StatusNotFound,
	DashboardInsufficientForecast: http.StatusUnprocessableEntity,
	DashboardUnknownChart:         http.StatusBadRequest,
	DashboardInvalidHorizon:       http.StatusBadRequest,
	DashboardUnsupportedFormat:    http.StatusBadRequest,

	SystemInternalError:      http.StatusInternalServerError,
	SystemDatabaseError:      http.StatusInternalServerError,
	SystemServiceUnavailable: http.StatusServiceUnavailable,
	SystemConfigurationError: http.StatusInternalServerError,
	SystemUnexpectedError:    http.StatusInternalServerError,
	SystemRateLimitExceeded:  http.StatusTooManyRequests,
}

// StatusFor returns the HTTP status of code. Unknown codes are 500.
func StatusFor(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (er *ErrorResponse) HTTPStatus() int {
	return StatusFor(ErrorCode(er.Error.Code))
}

func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Error.Code, er.Error.Message, er.Error.TraceID)
}
