package migrations

import (
	"time"

	"mysre-api/internal/config"
	"mysre-api/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser guarantees at least one admin account exists. The password
// comes from ADMIN_PASSWORD at deploy time; callers skip seeding when it is
// empty.
func SeedAdminUser(db *gorm.DB, email, password string, tierLimits *config.TierLimitConfig) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.AdminRole).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	limit := tierLimits.TokenLimits[models.EnterpriseTier]

	admin := &models.User{
		ID:                uuid.New(),
		Email:             email,
		Name:              "Administrator",
		PasswordHash:      string(hash),
		Role:              models.AdminRole,
		Tier:              models.EnterpriseTier,
		TokenBalance:      limit,
		MonthlyTokenLimit: limit,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	return db.Create(admin).Error
}
