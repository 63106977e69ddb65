package gamemath

import "github.com/spinforge/arcade-backend/internal/models"

// DefaultWheelTiers is the shipped 12-tier wheel table over [0, 10000):
// one collectible tier, four descending stake-multiplier tiers, four
// descending secondary-currency tiers and three descending ticket tiers.
func DefaultWheelTiers() []models.TierEntry {
	return []models.TierEntry{
		{UpperBound: 200, Reward: models.RewardNFT},
		{UpperBound: 400, Reward: models.RewardAsset, Multiplier: 500},
		{UpperBound: 900, Reward: models.RewardAsset, Multiplier: 300},
		{UpperBound: 1900, Reward: models.RewardAsset, Multiplier: 200},
		{UpperBound: 3400, Reward: models.RewardAsset, Multiplier: 150},
		{UpperBound: 4900, Reward: models.RewardSecondary, Amount: 500},
		{UpperBound: 6400, Reward: models.RewardSecondary, Amount: 250},
		{UpperBound: 7900, Reward: models.RewardSecondary, Amount: 100},
		{UpperBound: 9100, Reward: models.RewardSecondary, Amount: 50},
		{UpperBound: 9700, Reward: models.RewardTickets, Amount: 3},
		{UpperBound: 9900, Reward: models.RewardTickets, Amount: 2},
		{UpperBound: 10000, Reward: models.RewardTickets, Amount: 1},
	}
}
