package services

import (
	"context"
	"testing"
	"time"

	"mysre-api/internal/models"
	"mysre-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActivityService(t *testing.T) ActivityLogService {
	db := setupTestDB(t)
	return NewActivityLogService(repository.NewActivityLogRepository(db))
}

func TestActivityLog_RoundTrip(t *testing.T) {
	svc := newTestActivityService(t)

	require.NoError(t, svc.LogRequest("user-1", "/api/articles", "GET", 200, models.StatusSuccess, "Article search: ml"))
	require.NoError(t, svc.LogRequest("user-1", "/api/billing/token-usage", "POST", 400, models.StatusError, "Billing token-usage"))
	require.NoError(t, svc.LogRequest("user-2", "/api/articles", "GET", 200, models.StatusSuccess, "Article get"))

	logs, total, err := svc.ListActivity(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 3)
}

func TestActivityLog_UserWindow(t *testing.T) {
	svc := newTestActivityService(t)

	require.NoError(t, svc.LogRequest("user-1", "/api/articles", "GET", 200, models.StatusSuccess, "Article get"))
	require.NoError(t, svc.LogRequest("user-2", "/api/articles", "GET", 200, models.StatusSuccess, "Article get"))

	now := time.Now()

	logs, err := svc.GetUserLogs("user-1", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "user-1", logs[0].UserID)

	// Outside the window
	logs, err = svc.GetUserLogs("user-1", now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, logs)
}
