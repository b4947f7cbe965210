package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	AdminRole  UserRole = "ADMIN"
	MemberRole UserRole = "USER"
)

type SubscriptionTier string

const (
	BasicTier      SubscriptionTier = "basic"
	ProTier        SubscriptionTier = "pro"
	EnterpriseTier SubscriptionTier = "enterprise"
)

type User struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name              string           `gorm:"type:varchar(255)" json:"name"`
	PasswordHash      string           `gorm:"type:varchar(255);not null" json:"-"`
	Role              UserRole         `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Tier              SubscriptionTier `gorm:"type:varchar(20);not null;default:'basic'" json:"tier"`
	TokenBalance      int64            `gorm:"not null;default:0" json:"token_balance"`
	MonthlyTokenLimit int64            `gorm:"not null;default:0" json:"monthly_token_limit"`
	StripeID          string           `gorm:"type:varchar(255)" json:"-"`
	CreatedAt         time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return nil
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

func (User) TableName() string {
	return "users"
}
