package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlayStatus represents the outcome of a settled play
type PlayStatus string

const (
	PlayStatusWon  PlayStatus = "WON"
	PlayStatusLost PlayStatus = "LOST"
)

// CoinFace is the side selected in a coin flip
type CoinFace string

const (
	CoinFaceHeads CoinFace = "HEADS"
	CoinFaceTails CoinFace = "TAILS"
)

// PlayRequest is the player-facing body for a single play. Game-specific
// fields are only read for their game: SelectedFace for COINFLIP, BetVector
// for DICE (11 slots, sums 2..12), Balls for PLINKO, WinningPercent for
// NFT_LOTTERY.
type PlayRequest struct {
	AssetKind      string   `json:"assetKind" binding:"required"`
	Stake          int64    `json:"stake" binding:"required"`
	SelectedFace   CoinFace `json:"selectedFace,omitempty"`
	BetVector      []int64  `json:"betVector,omitempty"`
	Balls          int      `json:"balls,omitempty"`
	WinningPercent int      `json:"winningPercent,omitempty"`
	UseVoucher     bool     `json:"useVoucher,omitempty"`
}

// PlayMultipleRequest wraps PlayRequest with an iteration count.
type PlayMultipleRequest struct {
	PlayRequest
	Count int `json:"count" binding:"required,min=1"`
}

// PlayRecord is the persisted audit record of one settled play iteration.
type PlayRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID        primitive.ObjectID `bson:"accountId" json:"accountId"`
	Game             GameKind           `bson:"game" json:"game"`
	AssetKind        string             `bson:"assetKind" json:"assetKind"`
	Stake            int64              `bson:"stake" json:"stake"`
	Status           PlayStatus         `bson:"status" json:"status"`
	Draw             int64              `bson:"draw" json:"draw"`
	DrawDetail       []int64            `bson:"drawDetail,omitempty" json:"drawDetail,omitempty"`
	LandedFace       CoinFace           `bson:"landedFace,omitempty" json:"landedFace,omitempty"`
	Tier             int                `bson:"tier" json:"tier"`
	Reward           RewardKind         `bson:"reward" json:"reward"`
	AmountWon        int64              `bson:"amountWon" json:"amountWon"`
	SecondaryAwarded int64              `bson:"secondaryAwarded" json:"secondaryAwarded"`
	TicketsAwarded   int64              `bson:"ticketsAwarded" json:"ticketsAwarded"`
	NFTRef           string             `bson:"nftRef,omitempty" json:"nftRef,omitempty"`
	VoucherUsed      bool               `bson:"voucherUsed" json:"voucherUsed"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlayOutcome is the response body for a settled play.
type PlayOutcome struct {
	Status           PlayStatus `json:"status"`
	Draw             int64      `json:"draw"`
	DrawDetail       []int64    `json:"drawDetail,omitempty"`
	LandedFace       CoinFace   `json:"landedFace,omitempty"`
	Tier             int        `json:"tier"`
	Reward           RewardKind `json:"reward"`
	AmountWon        int64      `json:"amountWon"`
	SecondaryAwarded int64      `json:"secondaryAwarded"`
	TicketsAwarded   int64      `json:"ticketsAwarded"`
	NFTRef           string     `json:"nftRef,omitempty"`
	VoucherUsed      bool       `json:"voucherUsed"`
}
