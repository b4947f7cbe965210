package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// BillingRecord is the monthly settlement rollup derived from usage events.
// Period uses the YYYY-MM form.
type BillingRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_billing_user_period,unique" json:"user_id"`
	Period        string          `gorm:"type:varchar(7);not null;index:idx_billing_user_period,unique" json:"period"`
	TotalTokens   int64           `gorm:"not null" json:"total_tokens"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(20,10);not null" json:"total_cost"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (b *BillingRecord) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	return nil
}

func (b *BillingRecord) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now()
	return nil
}

func (BillingRecord) TableName() string {
	return "billing_records"
}
