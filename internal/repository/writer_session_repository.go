package repository

import (
	"context"
	"errors"
	"mysre-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WriterSessionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WriterSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WriterSession, error)
	Create(ctx context.Context, session *models.WriterSession) error
	Update(ctx context.Context, session *models.WriterSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type writerSessionRepository struct {
	db *gorm.DB
}

func NewWriterSessionRepository(db *gorm.DB) WriterSessionRepository {
	return &writerSessionRepository{db: db}
}

func (r *writerSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WriterSession, error) {
	var session models.WriterSession

	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *writerSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WriterSession, error) {
	var sessions []models.WriterSession

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error

	return sessions, err
}

func (r *writerSessionRepository) Create(ctx context.Context, session *models.WriterSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *writerSessionRepository) Update(ctx context.Context, session *models.WriterSession) error {
	result := r.db.WithContext(ctx).Model(&models.WriterSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"title":      session.Title,
			"content":    session.Content,
			"word_count": session.WordCount,
			"status":     session.Status,
			"updated_at": session.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *writerSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WriterSession{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
