package repository

import (
	"context"
	"mysre-api/internal/models"
	"time"

	"gorm.io/gorm"
)

type ActivityLogRepository interface {
	Create(log *models.ActivityLog) error
	List(ctx context.Context, page, pageSize int) ([]models.ActivityLog, int64, error)
	GetUserLogs(userID string, from, to time.Time) ([]models.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(log *models.ActivityLog) error {
	return r.db.Create(log).Error
}

func (r *activityLogRepository) List(ctx context.Context, page, pageSize int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	offset := (page - 1) * pageSize

	err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.WithContext(ctx).
		Order("timestamp DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// GetUserLogs returns one user's activity rows in [from, to).
func (r *activityLogRepository) GetUserLogs(userID string, from, to time.Time) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := r.db.
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}
