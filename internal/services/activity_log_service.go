package services

import (
	"context"
	"mysre-api/internal/models"
	"mysre-api/internal/repository"
	"time"
)

type ActivityLogService interface {
	LogRequest(userID, endpoint, method string, statusCode int, status models.RequestStatus, summary string) error
	ListActivity(ctx context.Context, page, pageSize int) ([]models.ActivityLog, int64, error)
	GetUserLogs(userID string, from, to time.Time) ([]models.ActivityLog, error)
}

type activityLogService struct {
	repo repository.ActivityLogRepository
}

func NewActivityLogService(repo repository.ActivityLogRepository) ActivityLogService {
	return &activityLogService{repo: repo}
}

func (s *activityLogService) LogRequest(userID, endpoint, method string, statusCode int, status models.RequestStatus, summary string) error {
	log := &models.ActivityLog{
		UserID:     userID,
		Endpoint:   endpoint,
		Method:     method,
		Status:     status,
		StatusCode: statusCode,
		Summary:    summary,
		Timestamp:  time.Now(),
	}
	return s.repo.Create(log)
}

func (s *activityLogService) ListActivity(ctx context.Context, page, pageSize int) ([]models.ActivityLog, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *activityLogService) GetUserLogs(userID string, from, to time.Time) ([]models.ActivityLog, error) {
	return s.repo.GetUserLogs(userID, from, to)
}
