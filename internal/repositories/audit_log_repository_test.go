package repositories

import (
	"testing"
	"time"

	"smartspend/internal/database"
	"smartspend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestAuditLogRepository(t *testing.T) {
	suite.Run(t, new(AuditLogRepositorySuite))
}

type AuditLogRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo AuditLogRepositoryInterface
}

func (s *AuditLogRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAuditLogRepository(s.db.DB)
}

func (s *AuditLogRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_Create() {
	userID := uuid.New()

	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionLogin,
		Resource:   models.AuditResourceUser,
		ResourceID: userID.String(),
		IPAddress:  "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
	}
	log.SetMetadata("username", "alice")

	err := s.repo.Create(log)
	s.NoError(err)
	s.NotEqual(uuid.Nil, log.ID)
	s.NotZero(log.CreatedAt)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_CreateWithoutUserID() {
	log := &models.AuditLog{
		UserID:    nil,
		Action:    models.AuditActionFailedLogin,
		Resource:  models.AuditResourceUser,
		IPAddress: "192.168.1.1",
	}

	s.NoError(s.repo.Create(log))
	s.ErrorIs(s.repo.Create(nil), ErrNilAuditLog)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_GetByUserID() {
	userID := uuid.New()
	otherID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i, action := range []string{models.AuditActionLogin, models.AuditActionExpenseCreated, models.AuditActionExpenseDeleted} {
		log := &models.AuditLog{
			UserID:    &userID,
			Action:    action,
			Resource:  models.AuditResourceExpense,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		log.SetMetadata("amount", "12.50")
		s.Require().NoError(s.repo.Create(log))
	}
	s.Require().NoError(s.repo.Create(&models.AuditLog{UserID: &otherID, Action: models.AuditActionLogin, Resource: models.AuditResourceUser}))

	logs, total, err := s.repo.GetByUserID(userID, 0, 2)
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(logs, 2)
	s.Equal(models.AuditActionExpenseDeleted, logs[0].Action)
	s.Equal("12.50", logs[0].GetMetadata("amount", ""))

	_, _, err = s.repo.GetByUserID(uuid.Nil, 0, 10)
	s.ErrorIs(err, ErrInvalidUserID)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_DeleteOlderThan() {
	userID := uuid.New()
	s.Require().NoError(s.repo.Create(&models.AuditLog{
		UserID:    &userID,
		Action:    models.AuditActionLogin,
		Resource:  models.AuditResourceUser,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	s.Require().NoError(s.repo.Create(&models.AuditLog{
		UserID:   &userID,
		Action:   models.AuditActionLogout,
		Resource: models.AuditResourceUser,
	}))

	deleted, err := s.repo.DeleteOlderThan(24 * time.Hour)
	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, total, err := s.repo.GetByUserID(userID, 0, 10)
	s.NoError(err)
	s.Equal(int64(1), total)
}
