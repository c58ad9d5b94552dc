package repositories

import (
	"testing"
	"time"

	"smartspend/internal/database"
	"smartspend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	suite.Run(t, new(BlacklistedTokenRepositorySuite))
}

type BlacklistedTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BlacklistedTokenRepositoryInterface
}

func (s *BlacklistedTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBlacklistedTokenRepository(s.db.DB)
}

func (s *BlacklistedTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BlacklistedTokenRepositorySuite) TestCreateAndGetByJTI() {
	token := &models.BlacklistedToken{
		JTI:       uuid.NewString(),
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	s.NoError(s.repo.Create(token))
	s.NotZero(token.BlacklistedAt)

	found, err := s.repo.GetByJTI(token.JTI)
	s.NoError(err)
	s.Equal(token.UserID, found.UserID)

	_, err = s.repo.GetByJTI("unknown")
	s.Equal(ErrTokenNotFound, err)
}

func (s *BlacklistedTokenRepositorySuite) TestCreate_SameJTITwice() {
	jti := uuid.NewString()
	s.NoError(s.repo.Create(&models.BlacklistedToken{JTI: jti, UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}))
	s.NoError(s.repo.Create(&models.BlacklistedToken{JTI: jti, UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}))
}

func (s *BlacklistedTokenRepositorySuite) TestDeleteExpired() {
	s.Require().NoError(s.repo.Create(&models.BlacklistedToken{JTI: "old", UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}))
	s.Require().NoError(s.repo.Create(&models.BlacklistedToken{JTI: "new", UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}))

	deleted, err := s.repo.DeleteExpired()
	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByJTI("old")
	s.Equal(ErrTokenNotFound, err)
}
