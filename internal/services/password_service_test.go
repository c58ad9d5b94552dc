package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.service = NewPasswordService(bcrypt.MinCost, 6)
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestValidatePassword_ValidPassword() {
	s.NoError(s.service.ValidatePassword("secret"))
	s.NoError(s.service.ValidatePassword("a much longer pass phrase"))
}

func (s *PasswordServiceTestSuite) TestValidatePassword_Empty() {
	s.ErrorIs(s.service.ValidatePassword(""), ErrPasswordEmpty)
}

func (s *PasswordServiceTestSuite) TestValidatePassword_TooShort() {
	err := s.service.ValidatePassword("abc12")
	s.ErrorIs(err, ErrPasswordTooShort)
	s.Contains(err.Error(), "at least 6 characters")
}

func (s *PasswordServiceTestSuite) TestValidatePassword_TooLong() {
	s.ErrorIs(s.service.ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)), ErrPasswordTooLong)
}

func (s *PasswordServiceTestSuite) TestValidatePassword_ConfigurableMinimum() {
	strict := NewPasswordService(bcrypt.MinCost, 10)
	s.ErrorIs(strict.ValidatePassword("ninechars"), ErrPasswordTooShort)
	s.NoError(strict.ValidatePassword("tencharsok"))
}

func (s *PasswordServiceTestSuite) TestHashAndCompare() {
	hash, err := s.service.HashPassword("secret")
	s.Require().NoError(err)
	s.NotEqual("secret", hash)
	s.True(strings.HasPrefix(hash, "$2a$"))

	s.True(s.service.ComparePassword("secret", hash))
	s.False(s.service.ComparePassword("Secret", hash))
	s.False(s.service.ComparePassword("secret", "not-a-hash"))
}

func (s *PasswordServiceTestSuite) TestHashPassword_RejectsInvalid() {
	hash, err := s.service.HashPassword("123")
	s.Error(err)
	s.Empty(hash)
	s.Contains(err.Error(), "password validation failed")
}

func (s *PasswordServiceTestSuite) TestDefaults() {
	svc := NewPasswordService(0, 0).(*PasswordService)
	s.Equal(DefaultBCryptCost, svc.cost)
	s.Equal(DefaultMinPasswordLength, svc.minLength)
}
