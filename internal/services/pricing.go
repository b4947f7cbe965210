package services

import (
	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// Per-token rates in currency units. Historical usage events keep the rate
// that was in effect when they were written; changing this table only
// affects new events.
var tierRates = map[models.SubscriptionTier]decimal.Decimal{
	models.BasicTier:      decimal.RequireFromString("0.000002"),
	models.ProTier:        decimal.RequireFromString("0.0000015"),
	models.EnterpriseTier: decimal.RequireFromString("0.000001"),
}

// CostPerToken returns the per-token rate for a tier. Unknown tiers are an
// error, never a silent default.
func CostPerToken(tier models.SubscriptionTier) (decimal.Decimal, error) {
	rate, ok := tierRates[tier]
	if !ok {
		return decimal.Zero, errors.ErrInvalidTier
	}
	return rate, nil
}
