package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UsageEvent is an append-only record of one token-consuming action.
// CostPerToken and TotalCost are frozen at write time; history keeps the
// rate in effect when the event was recorded even if pricing changes later.
type UsageEvent struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string          `gorm:"type:varchar(100);not null;index" json:"action"`
	TokensUsed   int64           `gorm:"not null" json:"tokens_used"`
	CostPerToken decimal.Decimal `gorm:"type:decimal(20,10);not null" json:"cost_per_token"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(20,10);not null" json:"total_cost"`
	Context      string          `gorm:"type:text" json:"context,omitempty"`
	Metadata     JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;index" json:"created_at"`
}

func (e *UsageEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}

func (UsageEvent) TableName() string {
	return "usage_events"
}
