package repository

import (
	"mysre-api/internal/models"
	"time"

	"gorm.io/gorm"
)

type ServiceTokenRepository interface {
	GetByToken(token string) (*models.ServiceToken, error)
	CreateToken(token string) error
	DeleteOldTokens() error
}

type serviceTokenRepository struct {
	db *gorm.DB
}

func NewServiceTokenRepository(db *gorm.DB) ServiceTokenRepository {
	return &serviceTokenRepository{db: db}
}

func (r *serviceTokenRepository) GetByToken(token string) (*models.ServiceToken, error) {
	var st models.ServiceToken
	if err := r.db.Where("token = ?", token).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceTokenRepository) CreateToken(token string) error {
	return r.db.Create(&models.ServiceToken{Token: token}).Error
}

func (r *serviceTokenRepository) DeleteOldTokens() error {
	return r.db.Where("created_at < ?", time.Now().Add(-24*time.Hour)).Delete(&models.ServiceToken{}).Error
}
