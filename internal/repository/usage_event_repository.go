package repository

import (
	"context"
	"mysre-api/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.UsageEvent) error
	ListByUserPeriod(ctx context.Context, userID uuid.UUID, periodStart, periodEnd time.Time) ([]models.UsageEvent, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.UsageEvent, error)
	ListByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]models.UsageEvent, error)
	ListAll(ctx context.Context) ([]models.UsageEvent, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type usageEventRepository struct {
	db *gorm.DB
}

func NewUsageEventRepository(db *gorm.DB) UsageEventRepository {
	return &usageEventRepository{db: db}
}

// Create inserts on the supplied transaction handle; usage events are only
// ever written together with the balance decrement they belong to.
func (r *usageEventRepository) Create(ctx context.Context, tx *gorm.DB, event *models.UsageEvent) error {
	return tx.WithContext(ctx).Create(event).Error
}

// ListByUserPeriod returns a user's events in [periodStart, periodEnd).
func (r *usageEventRepository) ListByUserPeriod(ctx context.Context, userID uuid.UUID, periodStart, periodEnd time.Time) ([]models.UsageEvent, error) {
	var events []models.UsageEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, periodStart, periodEnd).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *usageEventRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.UsageEvent, error) {
	var events []models.UsageEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *usageEventRepository) ListByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]models.UsageEvent, error) {
	var events []models.UsageEvent
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", periodStart, periodEnd).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *usageEventRepository) ListAll(ctx context.Context) ([]models.UsageEvent, error) {
	var events []models.UsageEvent
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *usageEventRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UsageEvent{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
