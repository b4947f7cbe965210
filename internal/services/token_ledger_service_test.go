package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) (TokenLedgerService, *gorm.DB) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewUsageEventRepository(db)
	return NewTokenLedgerService(db, userRepo, eventRepo), db
}

func TestRecordUsage_Success(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.ProTier, 8500)

	receipt, err := ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 500, "chat session", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(8000), receipt.RemainingBalance)
	assert.True(t, receipt.Event.TotalCost.Equal(decimal.RequireFromString("0.00075")),
		"expected 0.00075, got %s", receipt.Event.TotalCost)
	assert.True(t, receipt.Event.CostPerToken.Equal(decimal.RequireFromString("0.0000015")))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, int64(8000), stored.TokenBalance)

	var count int64
	require.NoError(t, db.Model(&models.UsageEvent{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordUsage_InsufficientBalance(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.BasicTier, 100)

	_, err := ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 101, "", nil)
	assert.ErrorIs(t, err, errors.ErrInsufficientBalance)

	// Balance and history must be untouched
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, int64(100), stored.TokenBalance)

	var count int64
	require.NoError(t, db.Model(&models.UsageEvent{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecordUsage_ExactBalance(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.BasicTier, 250)

	receipt, err := ledger.RecordUsage(context.Background(), user.ID, "content_generation", 250, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), receipt.RemainingBalance)
}

func TestRecordUsage_InvalidAmount(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.BasicTier, 1000)

	_, err := ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 0, "", nil)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	_, err = ledger.RecordUsage(context.Background(), user.ID, "ai_chat", -5, "", nil)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}

func TestRecordUsage_UserNotFound(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.RecordUsage(context.Background(), uuid.New(), "ai_chat", 10, "", nil)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRecordUsage_Concurrent(t *testing.T) {
	ledger, db := newTestLedger(t)

	const workers = 10
	const perWorker = int64(100)
	user := createTestUser(t, db, models.ProTier, workers*perWorker)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.RecordUsage(context.Background(), user.ID, "ai_chat", perWorker, "", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, int64(0), stored.TokenBalance, "balance must land on exactly zero")

	var count int64
	require.NoError(t, db.Model(&models.UsageEvent{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(workers), count)
}

func TestRecordUsage_ConcurrentOverdraw(t *testing.T) {
	ledger, db := newTestLedger(t)

	// Only half the requests can be satisfied; the rest must fail cleanly
	const workers = 10
	user := createTestUser(t, db, models.BasicTier, 500)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 100, "", nil)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, errors.ErrInsufficientBalance)
			failures++
		}
	}
	assert.Equal(t, 5, failures)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.GreaterOrEqual(t, stored.TokenBalance, int64(0), "balance must never go negative")
	assert.Equal(t, int64(0), stored.TokenBalance)
}

func TestGetMonthlyUsage_Breakdown(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.ProTier, 10000)

	_, err := ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 300, "", nil)
	require.NoError(t, err)
	_, err = ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 200, "", nil)
	require.NoError(t, err)
	_, err = ledger.RecordUsage(context.Background(), user.ID, "content_generation", 1000, "", nil)
	require.NoError(t, err)

	summary, err := ledger.GetMonthlyUsage(context.Background(), user.ID, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1500), summary.TotalTokens)
	assert.True(t, summary.TotalCost.Equal(decimal.RequireFromString("0.00225")),
		"expected 0.00225, got %s", summary.TotalCost)

	chat := summary.Actions["ai_chat"]
	assert.Equal(t, int64(500), chat.Tokens)
	assert.Equal(t, 2, chat.Count)

	gen := summary.Actions["content_generation"]
	assert.Equal(t, int64(1000), gen.Tokens)
	assert.Equal(t, 1, gen.Count)
}

func TestGetMonthlyUsage_EmptyMonth(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.BasicTier, 1000)

	summary, err := ledger.GetMonthlyUsage(context.Background(), user.ID, "2024-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-01", summary.Month)
	assert.Equal(t, int64(0), summary.TotalTokens)
	assert.True(t, summary.TotalCost.IsZero())
	assert.Empty(t, summary.Actions)
}

func TestGetMonthlyUsage_BadMonth(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.BasicTier, 1000)

	_, err := ledger.GetMonthlyUsage(context.Background(), user.ID, "January")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestGetMonthlyUsage_MonthBoundary(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.ProTier, 10000)

	rate := decimal.RequireFromString("0.0000015")

	// Final fractional second of January
	lastInstant := &models.UsageEvent{
		UserID:       user.ID,
		Action:       "ai_chat",
		TokensUsed:   100,
		CostPerToken: rate,
		TotalCost:    decimal.NewFromInt(100).Mul(rate),
		CreatedAt:    time.Date(2024, 1, 31, 23, 59, 59, 500_000_000, time.UTC),
	}
	require.NoError(t, db.Create(lastInstant).Error)

	// First instant of February
	firstInstant := &models.UsageEvent{
		UserID:       user.ID,
		Action:       "ai_chat",
		TokensUsed:   40,
		CostPerToken: rate,
		TotalCost:    decimal.NewFromInt(40).Mul(rate),
		CreatedAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(firstInstant).Error)

	jan, err := ledger.GetMonthlyUsage(context.Background(), user.ID, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, int64(100), jan.TotalTokens)

	feb, err := ledger.GetMonthlyUsage(context.Background(), user.ID, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, int64(40), feb.TotalTokens)
}

func TestRecordUsage_CostFrozenAtWriteTime(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.EnterpriseTier, 10000)

	receipt, err := ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 1000, "", nil)
	require.NoError(t, err)

	// Moving the user to a pricier tier must not change recorded history
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("tier", models.BasicTier).Error)

	var stored models.UsageEvent
	require.NoError(t, db.First(&stored, "id = ?", receipt.Event.ID).Error)
	assert.True(t, stored.CostPerToken.Equal(decimal.RequireFromString("0.000001")))
	assert.True(t, stored.TotalCost.Equal(decimal.RequireFromString("0.001")))

	summary, err := ledger.GetMonthlyUsage(context.Background(), user.ID, "")
	require.NoError(t, err)
	assert.True(t, summary.TotalCost.Equal(decimal.RequireFromString("0.001")),
		"summary must use the stored cost, not the live rate")
}

func TestResetMonthlyBalance(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.ProTier, 5000)

	_, err := ledger.RecordUsage(context.Background(), user.ID, "ai_chat", 4500, "", nil)
	require.NoError(t, err)

	require.NoError(t, ledger.ResetMonthlyBalance(context.Background(), user.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, user.MonthlyTokenLimit, stored.TokenBalance)
}

func TestTopUpBalance(t *testing.T) {
	ledger, db := newTestLedger(t)
	user := createTestUser(t, db, models.BasicTier, 50)

	require.NoError(t, ledger.TopUpBalance(context.Background(), user.ID, 1000))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, int64(1050), stored.TokenBalance)

	err := ledger.TopUpBalance(context.Background(), user.ID, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}
