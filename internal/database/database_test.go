package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"smartspend/internal/config"
	"smartspend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDeletingUserCascadesToExpenses(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	user := CreateTestUser(t, db, "bob")
	CreateTestExpense(t, db, user.ID, time.Now(), models.CategoryBills, "99.99")

	require.NoError(t, db.Delete(user).Error)

	var count int64
	require.NoError(t, db.Model(&models.Expense{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateIndexes(t *testing.T) {
	db := SetupTestDB(t)
	assert.NoError(t, db.CreateIndexes())
	assert.True(t, db.Migrator().HasIndex(&models.Expense{}, "idx_expenses_user_category"))
}

func TestNew_SQLiteForeignKeysOnEveryConnection(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "smartspend.db"),
		MaxConnections:  10,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Minute,
	}

	db, err := New(cfg, logger.Silent)
	require.NoError(t, err)
	defer db.Close()

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	ctx := context.Background()
	first, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for i, conn := range []*sql.Conn{first, second} {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled, "connection %d", i)
	}
}
