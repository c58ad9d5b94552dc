package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Keys the auth middleware stores the session under.
const (
	UserIDContextKey   = "user_id"
	UsernameContextKey = "username"
	TokenJTIContextKey = "token_jti"
)

var ErrUnauthorized = errors.New("unauthorized")

func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return userID, nil
}

func getUsernameFromContext(c echo.Context) string {
	username, _ := c.Get(UsernameContextKey).(string)
	return username
}

// getIntParam reads an integer query parameter, falling back on absence or garbage.
func getIntParam(c echo.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return value
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket address.
func ClientIP(c echo.Context) string {
	header := c.Request().Header
	if xff := header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := header.Get(echo.HeaderXRealIP); xri != "" {
		return xri
	}
	return c.RealIP()
}
