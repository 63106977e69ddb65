package gamemath

import (
	"errors"
	"fmt"

	"github.com/spinforge/arcade-backend/internal/models"
)

// NFT lottery winning percentage bounds; the caller picks a value in
// {1..5} per play.
const (
	MinWinningPercent = 1
	MaxWinningPercent = 5
)

var ErrInvalidWinningPercent = errors.New("invalid winning percent")

// ValidateWinningPercent bounds the caller-chosen winning percentage.
func ValidateWinningPercent(p int) error {
	if p < MinWinningPercent || p > MaxWinningPercent {
		return fmt.Errorf("%w: %d, want %d..%d", ErrInvalidWinningPercent, p, MinWinningPercent, MaxWinningPercent)
	}
	return nil
}

// NFTLotteryTiers builds the two-tier table for a winning percentage p:
// draws below p% of the draw range win a collectible, everything else is a
// zero-multiplier loss that falls through to the secondary-currency
// consolation.
func NFTLotteryTiers(p int) []models.TierEntry {
	bound := int64(p) * DrawRange / 100
	return []models.TierEntry{
		{UpperBound: bound, Reward: models.RewardNFT},
		{UpperBound: DrawRange, Reward: models.RewardAsset, Multiplier: 0},
	}
}
