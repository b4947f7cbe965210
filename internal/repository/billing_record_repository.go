package repository

import (
	"context"
	"errors"
	"mysre-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingRecordRepository interface {
	Upsert(ctx context.Context, record *models.BillingRecord) error
	GetByUserPeriod(ctx context.Context, userID uuid.UUID, period string) (*models.BillingRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BillingRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error
}

var ErrBillingRecordNotFound = errors.New("billing record not found")

type billingRecordRepository struct {
	db *gorm.DB
}

func NewBillingRecordRepository(db *gorm.DB) BillingRecordRepository {
	return &billingRecordRepository{db: db}
}

// Upsert creates the record for (user, period) or refreshes its totals.
// Payment status is left untouched on refresh; settlement owns it.
func (r *billingRecordRepository) Upsert(ctx context.Context, record *models.BillingRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.BillingRecord
		err := tx.Where("user_id = ? AND period = ?", record.UserID, record.Period).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(record).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"total_tokens": record.TotalTokens,
			"total_cost":   record.TotalCost,
		}).Error
	})
}

func (r *billingRecordRepository) GetByUserPeriod(ctx context.Context, userID uuid.UUID, period string) (*models.BillingRecord, error) {
	var record models.BillingRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND period = ?", userID, period).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBillingRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *billingRecordRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BillingRecord, error) {
	var records []models.BillingRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period DESC").
		Find(&records).Error
	return records, err
}

func (r *billingRecordRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.BillingRecord{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBillingRecordNotFound
	}
	return nil
}
