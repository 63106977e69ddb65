package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameKind identifies a game variant
type GameKind string

const (
	GameWheel      GameKind = "WHEEL"
	GameDice       GameKind = "DICE"
	GameCoinFlip   GameKind = "COINFLIP"
	GamePlinko     GameKind = "PLINKO"
	GameNFTLottery GameKind = "NFT_LOTTERY"
)

// RewardKind identifies what a resolved tier pays out
type RewardKind string

const (
	RewardAsset     RewardKind = "ASSET"     // stake-asset payout via multiplier
	RewardNFT       RewardKind = "NFT"       // one collectible voucher from inventory
	RewardSecondary RewardKind = "SECONDARY" // secondary currency, flat amount
	RewardTickets   RewardKind = "TICKETS"   // raffle tickets, flat amount
)

// TierEntry is one row of a cumulative tier table. UpperBound is exclusive;
// the entry covers draws in [previous bound, UpperBound). Multiplier is the
// stake multiplier scaled by 100 for ASSET tiers; Amount is the flat grant
// for SECONDARY and TICKETS tiers.
type TierEntry struct {
	UpperBound int64      `bson:"upperBound" json:"upperBound"`
	Reward     RewardKind `bson:"reward" json:"reward"`
	Multiplier int64      `bson:"multiplier,omitempty" json:"multiplier,omitempty"`
	Amount     int64      `bson:"amount,omitempty" json:"amount,omitempty"`
}

// GameConfig holds the administrator-managed parameters for one game on one
// asset kind. The settlement engine reads it as a snapshot at play time and
// never mutates it. Multiplier tables are pre-scaled by 100 and payouts use
// floor division, so the house edge lives entirely in these numbers.
type GameConfig struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Game      GameKind           `bson:"game" json:"game"`
	AssetKind string             `bson:"assetKind" json:"assetKind"`
	Active    bool               `bson:"active" json:"active"`
	MinStake  int64              `bson:"minStake" json:"minStake"`
	MaxStake  int64              `bson:"maxStake" json:"maxStake"`

	// ExchangeRate converts stake to secondary currency on a losing play:
	// consolation = stake / ExchangeRate, floor.
	ExchangeRate int64 `bson:"exchangeRate" json:"exchangeRate"`

	// Tiers drives WHEEL and is derived for NFT_LOTTERY; empty for the
	// formula-resolved games.
	Tiers []TierEntry `bson:"tiers,omitempty" json:"tiers,omitempty"`

	// DiceMultipliers maps dice sums 2..12 to multipliers scaled by 100
	// (11 entries, index 0 is sum 2).
	DiceMultipliers []int64 `bson:"diceMultipliers,omitempty" json:"diceMultipliers,omitempty"`

	// PlinkoMultipliers maps landing slots to multipliers scaled by 100;
	// the pin row count is len(PlinkoMultipliers)-1.
	PlinkoMultipliers []int64 `bson:"plinkoMultipliers,omitempty" json:"plinkoMultipliers,omitempty"`

	// Coin flip house edge as a fraction: edge percent = Numerator/Denominator.
	HouseEdgeNumerator   int64 `bson:"houseEdgeNumerator,omitempty" json:"houseEdgeNumerator,omitempty"`
	HouseEdgeDenominator int64 `bson:"houseEdgeDenominator,omitempty" json:"houseEdgeDenominator,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
