package handlers

import (
	"fmt"
	"testing"
	"time"

	"mysre-api/internal/config"
	"mysre-api/internal/database"
	"mysre-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, tier models.SubscriptionTier, balance int64) *models.User {
	t.Helper()

	id := uuid.New()
	user := &models.User{
		ID:                id,
		Email:             fmt.Sprintf("%s@example.com", id),
		Name:              "Test User",
		PasswordHash:      "x",
		Role:              models.MemberRole,
		Tier:              tier,
		TokenBalance:      balance,
		MonthlyTokenLimit: balance,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func testTierLimits() *config.TierLimitConfig {
	return config.NewTierLimitConfig()
}
