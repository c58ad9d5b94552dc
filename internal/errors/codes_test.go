package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodesTestSuite defines the test suite for error codes
type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

var codesByFamily = map[string][]ErrorCode{
	"AUTH_": {
		AuthInvalidCredentials,
		AuthMissingToken,
		AuthExpiredToken,
		AuthInvalidTokenFormat,
		AuthTokenRevoked,
		AuthPasswordMismatch,
		AuthWeakPassword,
	},
	"VALIDATION_": {
		ValidationGeneral,
		ValidationRequiredField,
		ValidationInvalidFormat,
		ValidationOutOfRange,
		ValidationInvalidEmail,
		ValidationInvalidDate,
		ValidationInvalidID,
	},
	"USER_": {
		UserAlreadyExists,
		UserNotFound,
		UserInvalidUsername,
	},
	"EXPENSE_": {
		ExpenseNotFound,
		ExpenseInvalidAmount,
		ExpenseInvalidCategory,
		ExpenseInvalidDate,
		ExpenseDescriptionLength,
		ExpenseInvalidFormat,
	},
	"DASHBOARD_": {
		DashboardNoData,
		DashboardInsufficientForecast,
		DashboardUnknownChart,
		DashboardInvalidHorizon,
		DashboardUnsupportedFormat,
	},
	"SYSTEM_": {
		SystemInternalError,
		SystemDatabaseError,
		SystemServiceUnavailable,
		SystemConfigurationError,
		SystemUnexpectedError,
		SystemRateLimitExceeded,
	},
}

func allCodes() []ErrorCode {
	var codes []ErrorCode
	for _, family := range codesByFamily {
		codes = append(codes, family...)
	}
	return codes
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{"Auth Invalid Credentials", AuthInvalidCredentials, "Invalid username or password"},
		{"Auth Missing Token", AuthMissingToken, "Authorization token is required"},
		{"Validation General", ValidationGeneral, "Validation failed"},
		{"User Already Exists", UserAlreadyExists, "Username already exists"},
		{"Expense Not Found", ExpenseNotFound, "Expense not found"},
		{"Dashboard Insufficient Forecast", DashboardInsufficientForecast, "At least two months of expenses are needed for a forecast"},
		{"System Internal Error", SystemInternalError, "An unexpected error occurred. Please contact support with trace ID"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
}

func (s *CodesTestSuite) TestIsValidErrorCode_ValidCodes() {
	for _, code := range allCodes() {
		s.True(IsValidErrorCode(code), "Expected %s to be valid", code)
	}
}

func (s *CodesTestSuite) TestIsValidErrorCode_InvalidCode() {
	for _, code := range []ErrorCode{"INVALID_001", "UNKNOWN_CODE", "", "AUTH_999", "CUSTOMER_001"} {
		s.Run(string(code), func() {
			s.False(IsValidErrorCode(code), "Expected %s to be invalid", code)
		})
	}
}

// TestErrorCodeConstants_Uniqueness ensures all error codes are unique
func (s *CodesTestSuite) TestErrorCodeConstants_Uniqueness() {
	seen := make(map[ErrorCode]bool)
	for _, code := range allCodes() {
		s.False(seen[code], "Duplicate error code found: %s", code)
		seen[code] = true
	}
	s.Len(seen, len(errorMessages))
}

func (s *CodesTestSuite) TestErrorCodeConstants_Format() {
	for prefix, codes := range codesByFamily {
		s.Run(prefix, func() {
			for _, code := range codes {
				s.True(strings.HasPrefix(string(code), prefix), "Error code %s should start with %s", code, prefix)
			}
		})
	}
}

func (s *CodesTestSuite) TestAllErrorCodesHaveMessages() {
	for _, code := range allCodes() {
		message := GetErrorMessage(code)
		s.NotEmpty(message, "Error code %s should have a message", code)
		s.NotEqual("An error occurred", message, "Error code %s should have a specific message", code)
	}
}
