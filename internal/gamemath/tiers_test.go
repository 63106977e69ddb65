package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinforge/arcade-backend/internal/models"
)

func TestAllotTierBoundaries(t *testing.T) {
	tiers := DefaultWheelTiers()

	tests := []struct {
		name string
		draw int64
		want int
	}{
		{"first value", 0, 0},
		{"inside first tier", 150, 0},
		{"last value of first tier", 199, 0},
		{"exact bound falls into next tier", 200, 1},
		{"inside mid tier", 5000, 6},
		{"exact mid bound", 4900, 6},
		{"last value of range", 9999, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AllotTier(tiers, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllotTierOutOfRange(t *testing.T) {
	tiers := DefaultWheelTiers()

	_, err := AllotTier(tiers, DrawRange)
	assert.ErrorIs(t, err, ErrDrawOutOfRange)

	_, err = AllotTier(tiers, -1)
	assert.ErrorIs(t, err, ErrDrawOutOfRange)
}

// Every draw in [0, DrawRange) must land in exactly one tier, the tier
// index must never decrease as the draw increases, and every tier must be
// reachable.
func TestAllotTierCoversWholeRange(t *testing.T) {
	tiers := DefaultWheelTiers()
	require.NoError(t, ValidateTierTable(tiers))

	hit := make([]bool, len(tiers))
	prev := 0
	for d := int64(0); d < DrawRange; d++ {
		got, err := AllotTier(tiers, d)
		require.NoError(t, err, "draw %d", d)
		require.GreaterOrEqual(t, got, prev, "tier index regressed at draw %d", d)
		hit[got] = true
		prev = got
	}
	for i, h := range hit {
		assert.True(t, h, "tier %d unreachable", i)
	}
}

func TestValidateTierTable(t *testing.T) {
	tests := []struct {
		name  string
		tiers []models.TierEntry
		ok    bool
	}{
		{"default wheel", DefaultWheelTiers(), true},
		{"empty", nil, false},
		{
			"non-increasing bound",
			[]models.TierEntry{
				{UpperBound: 500, Reward: models.RewardAsset, Multiplier: 200},
				{UpperBound: 500, Reward: models.RewardAsset, Multiplier: 100},
			},
			false,
		},
		{
			"gap at the end",
			[]models.TierEntry{
				{UpperBound: 500, Reward: models.RewardAsset, Multiplier: 200},
				{UpperBound: 9000, Reward: models.RewardAsset, Multiplier: 100},
			},
			false,
		},
		{
			"ascending asset multipliers",
			[]models.TierEntry{
				{UpperBound: 500, Reward: models.RewardAsset, Multiplier: 100},
				{UpperBound: 10000, Reward: models.RewardAsset, Multiplier: 200},
			},
			false,
		},
		{
			"zero secondary amount",
			[]models.TierEntry{
				{UpperBound: 500, Reward: models.RewardSecondary},
				{UpperBound: 10000, Reward: models.RewardAsset, Multiplier: 100},
			},
			false,
		},
		{
			"unknown reward kind",
			[]models.TierEntry{
				{UpperBound: 10000, Reward: models.RewardKind("CONFETTI")},
			},
			false,
		},
		{
			"zero-multiplier loss tier allowed after wins",
			[]models.TierEntry{
				{UpperBound: 500, Reward: models.RewardAsset, Multiplier: 300},
				{UpperBound: 10000, Reward: models.RewardAsset, Multiplier: 0},
			},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTierTable(tt.tiers)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTierTable)
			}
		})
	}
}

func TestPayoutFloors(t *testing.T) {
	assert.Equal(t, int64(2000), Payout(1000, 200))
	assert.Equal(t, int64(1498), Payout(999, 150)) // 1498.5 floors
	assert.Equal(t, int64(0), Payout(1000, 0))
	assert.Equal(t, int64(0), Payout(1, 50))
}

func TestConsolationFloors(t *testing.T) {
	assert.Equal(t, int64(123), Consolation(1234, 10))
	assert.Equal(t, int64(0), Consolation(9, 10))
	assert.Equal(t, int64(0), Consolation(1000, 0))
}

func TestNFTLotteryTiers(t *testing.T) {
	for p := MinWinningPercent; p <= MaxWinningPercent; p++ {
		tiers := NFTLotteryTiers(p)
		require.NoError(t, ValidateTierTable(tiers), "percent %d", p)
		assert.Equal(t, int64(p)*100, tiers[0].UpperBound)
		assert.Equal(t, models.RewardNFT, tiers[0].Reward)
	}
	assert.Error(t, ValidateWinningPercent(0))
	assert.Error(t, ValidateWinningPercent(6))
	assert.NoError(t, ValidateWinningPercent(3))
}
