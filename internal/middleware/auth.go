package middleware

import (
	"errors"
	"net/http"
	"strings"

	apierrors "smartspend/internal/errors"
	"smartspend/internal/handlers"
	"smartspend/internal/models"
	"smartspend/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth accepts a bearer token or, failing that, the session cookie. Failures
// are reported as JSON errors.
func RequireAuth(authService services.AuthServiceInterface, tokenService services.TokenServiceInterface, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				extracted, err := tokenService.ExtractTokenFromHeader(authHeader)
				if err != nil {
					return handlers.SendError(c, apierrors.AuthInvalidTokenFormat)
				}
				token = extracted
			} else if cookie, err := c.Cookie(cookieName); err == nil {
				token = cookie.Value
			}

			if token == "" {
				return handlers.SendError(c, apierrors.AuthMissingToken)
			}

			claims, err := authService.Authenticate(token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrExpiredToken):
					return handlers.SendError(c, apierrors.AuthExpiredToken)
				case errors.Is(err, services.ErrTokenRevoked):
					return handlers.SendError(c, apierrors.AuthTokenRevoked)
				case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrInvalidTokenType):
					return handlers.SendError(c, apierrors.AuthInvalidTokenFormat)
				default:
					return handlers.SendSystemError(c, err)
				}
			}

			if err := setUserContext(c, claims); err != nil {
				return handlers.SendError(c, apierrors.AuthInvalidTokenFormat, apierrors.WithDetails("Invalid user ID in token"))
			}

			return next(c)
		}
	}
}

// RequireSession guards browser pages: without a valid session cookie the visitor is
// sent to the login page.
func RequireSession(authService services.AuthServiceInterface, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || strings.TrimSpace(cookie.Value) == "" {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			claims, err := authService.Authenticate(cookie.Value)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			if err := setUserContext(c, claims); err != nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			return next(c)
		}
	}
}

func setUserContext(c echo.Context, claims *models.CustomClaims) error {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return err
	}

	c.Set(handlers.UserIDContextKey, userID)
	c.Set(handlers.UsernameContextKey, claims.Username)
	c.Set(handlers.TokenJTIContextKey, claims.ID)
	return nil
}
