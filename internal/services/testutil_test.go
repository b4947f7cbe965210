package services

import (
	"fmt"
	"sync"
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

	// Single connection keeps the shared in-memory DB alive and serializes
	// writers the way the sqlite driver expects
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

// fakeEmailService records alert calls so tests can observe the async
// low-balance advisory.
type fakeEmailService struct {
	mu            sync.Mutex
	welcomeCount  int
	lowBalCount   int
	lastRemaining int64
}

func (f *fakeEmailService) SendWelcomeEmail(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomeCount++
	return nil
}

func (f *fakeEmailService) SendLowBalanceAlert(user *models.User, remaining int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lowBalCount++
	f.lastRemaining = remaining
	return nil
}

func (f *fakeEmailService) lowBalanceAlerts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lowBalCount
}
