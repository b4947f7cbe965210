package config

import (
	"mysre-api/internal/models"
)

// TierLimitConfig carries the per-tier monthly token allowance and the
// per-tier monthly request cap used by the rate limiter.
type TierLimitConfig struct {
	TokenLimits   map[models.SubscriptionTier]int64
	RequestLimits map[models.SubscriptionTier]int
}

func NewTierLimitConfig() *TierLimitConfig {
	return &TierLimitConfig{
		TokenLimits: map[models.SubscriptionTier]int64{
			models.BasicTier:      10000,
			models.ProTier:        100000,
			models.EnterpriseTier: 1000000,
		},
		RequestLimits: map[models.SubscriptionTier]int{
			models.BasicTier:      1000,
			models.ProTier:        300000,
			models.EnterpriseTier: -1, // No limit for Enterprise
		},
	}
}
