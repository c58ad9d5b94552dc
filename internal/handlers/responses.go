package handlers

import (
	"log/slog"

	"smartspend/internal/errors"

	"github.com/labstack/echo/v4"
)

// TraceIDContextKey mirrors the key the request ID middleware stores the trace ID under.
const TraceIDContextKey = "trace_id"

// SuccessResponse wraps every non-error JSON body.
type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
	return traceID
}

// SendError writes the envelope for code with the status code maps to.
// Handlers never return echo.HTTPError for expected failures.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	resp := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(resp.HTTPStatus(), resp)
}

// SendSystemError logs err with the trace ID and answers with an opaque SYSTEM_001.
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	resp, internalErr := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "Internal error",
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Path(),
		"error", internalErr,
	)
	return c.JSON(resp.HTTPStatus(), resp)
}
