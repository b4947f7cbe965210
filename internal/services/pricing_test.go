package services

import (
	"testing"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostPerToken_KnownTiers(t *testing.T) {
	basic, err := CostPerToken(models.BasicTier)
	require.NoError(t, err)
	assert.True(t, basic.Equal(decimal.RequireFromString("0.000002")))

	pro, err := CostPerToken(models.ProTier)
	require.NoError(t, err)
	assert.True(t, pro.Equal(decimal.RequireFromString("0.0000015")))

	enterprise, err := CostPerToken(models.EnterpriseTier)
	require.NoError(t, err)
	assert.True(t, enterprise.Equal(decimal.RequireFromString("0.000001")))
}

func TestCostPerToken_UnknownTier(t *testing.T) {
	_, err := CostPerToken(models.SubscriptionTier("platinum"))
	assert.ErrorIs(t, err, errors.ErrInvalidTier)

	_, err = CostPerToken(models.SubscriptionTier(""))
	assert.ErrorIs(t, err, errors.ErrInvalidTier)
}

func TestCostPerToken_Pure(t *testing.T) {
	first, err := CostPerToken(models.ProTier)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := CostPerToken(models.ProTier)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}
