package handlers

import (
	"errors"

	apierrors "smartspend/internal/errors"
	"smartspend/internal/models"
	"smartspend/internal/repositories"
	"smartspend/internal/services"

	"github.com/labstack/echo/v4"
)

// serviceErrorCodes maps domain sentinels to API error codes. Order matters only for
// errors that wrap more than one sentinel.
var serviceErrorCodes = []struct {
	err  error
	code apierrors.ErrorCode
}{
	{repositories.ErrExpenseNotFound, apierrors.ExpenseNotFound},
	{repositories.ErrUserNotFound, apierrors.UserNotFound},
	{services.ErrInvalidExpenseDate, apierrors.ExpenseInvalidDate},
	{services.ErrInvalidExpenseAmount, apierrors.ExpenseInvalidAmount},
	{models.ErrInvalidAmount, apierrors.ExpenseInvalidAmount},
	{models.ErrAmountTooLarge, apierrors.ExpenseInvalidAmount},
	{models.ErrInvalidAmountRange, apierrors.ValidationOutOfRange},
	{models.ErrAmountPrecision, apierrors.ExpenseInvalidAmount},
	{models.ErrInvalidCategory, apierrors.ExpenseInvalidCategory},
	{models.ErrDescriptionTooLong, apierrors.ExpenseDescriptionLength},
	{models.ErrExpenseDateRequired, apierrors.ExpenseInvalidDate},
	{models.ErrInvalidDateRange, apierrors.ValidationInvalidDate},
	{services.ErrUnsupportedReportFormat, apierrors.ExpenseInvalidFormat},
	{services.ErrArchiveDisabled, apierrors.SystemServiceUnavailable},
	{services.ErrInsufficientForecastData, apierrors.DashboardInsufficientForecast},
	{services.ErrInvalidForecastHorizon, apierrors.DashboardInvalidHorizon},
	{services.ErrNoChartData, apierrors.DashboardNoData},
	{services.ErrUnknownChart, apierrors.DashboardUnknownChart},
	{services.ErrUnsupportedChartFormat, apierrors.DashboardUnsupportedFormat},
	{services.ErrUserAlreadyExists, apierrors.UserAlreadyExists},
	{services.ErrPasswordMismatch, apierrors.AuthPasswordMismatch},
	{services.ErrPasswordEmpty, apierrors.AuthWeakPassword},
	{services.ErrPasswordTooShort, apierrors.AuthWeakPassword},
	{services.ErrPasswordTooLong, apierrors.AuthWeakPassword},
	{services.ErrInvalidCredentials, apierrors.AuthInvalidCredentials},
	{services.ErrTokenRevoked, apierrors.AuthTokenRevoked},
	{services.ErrExpiredToken, apierrors.AuthExpiredToken},
	{services.ErrInvalidToken, apierrors.AuthInvalidTokenFormat},
	{models.ErrUsernameRequired, apierrors.UserInvalidUsername},
	{models.ErrUsernameLength, apierrors.UserInvalidUsername},
	{models.ErrUsernameInvalid, apierrors.UserInvalidUsername},
	{models.ErrInvalidEmail, apierrors.ValidationInvalidEmail},
}

// errorCodeFor returns the API code for a known domain error.
func errorCodeFor(err error) (apierrors.ErrorCode, bool) {
	for _, m := range serviceErrorCodes {
		if errors.Is(err, m.err) {
			return m.code, true
		}
	}
	return "", false
}

// sendServiceError converts a service error into the standard envelope. Known client
// errors carry the underlying message as a detail; anything else is a system error.
func sendServiceError(c echo.Context, err error) error {
	code, ok := errorCodeFor(err)
	if !ok {
		return SendSystemError(c, err)
	}
	return SendError(c, code, apierrors.WithDetails(err.Error()))
}
