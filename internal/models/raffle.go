package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleKind distinguishes divisible-pot raffles from unique-prize raffles
type RaffleKind string

const (
	// RaffleKindCoin raffles split a fungible pot across winners and
	// survive multiple resolutions.
	RaffleKindCoin RaffleKind = "COIN"
	// RaffleKindUnique raffles award one collectible, then archive their
	// participants and retire.
	RaffleKindUnique RaffleKind = "UNIQUE"
)

// RaffleStatus represents the lifecycle of a raffle
type RaffleStatus string

const (
	RaffleStatusOpen     RaffleStatus = "OPEN"
	RaffleStatusClosed   RaffleStatus = "CLOSED"
	RaffleStatusResolved RaffleStatus = "RESOLVED"
)

// Raffle is one raffle record. Participants is a multiset: an account is
// appended once per ticket it spent, so a uniform draw over the slice is
// already ticket-weighted.
type Raffle struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Kind         RaffleKind           `bson:"kind" json:"kind"`
	Title        string               `bson:"title" json:"title"`
	AssetKind    string               `bson:"assetKind,omitempty" json:"assetKind,omitempty"`
	PotAmount    int64                `bson:"potAmount,omitempty" json:"potAmount,omitempty"`
	PrizeRef     string               `bson:"prizeRef,omitempty" json:"prizeRef,omitempty"`
	Participants []primitive.ObjectID `bson:"participants" json:"-"`
	EntryCount   int                  `bson:"entryCount" json:"entryCount"`
	Active       bool                 `bson:"active" json:"active"`
	Status       RaffleStatus         `bson:"status" json:"status"`
	Resolutions  int                  `bson:"resolutions" json:"resolutions"`
	ExecutionLog []string             `bson:"executionLog,omitempty" json:"executionLog,omitempty"`
	ResolvedAt   time.Time            `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CreateRaffleRequest is the admin body for opening a raffle.
type CreateRaffleRequest struct {
	Kind      RaffleKind `json:"kind" binding:"required"`
	Title     string     `json:"title" binding:"required"`
	AssetKind string     `json:"assetKind,omitempty"`
	PotAmount int64      `json:"potAmount,omitempty"`
	PrizeRef  string     `json:"prizeRef,omitempty"`
}

// EnterRaffleRequest is the player body for spending tickets on entries.
type EnterRaffleRequest struct {
	Tickets int64 `json:"tickets" binding:"required,min=1"`
}

// TicketBalance is a player's spendable raffle ticket balance, funded by
// claiming ledger-accrued tickets.
type TicketBalance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID primitive.ObjectID `bson:"accountId" json:"accountId"`
	Tickets   int64              `bson:"tickets" json:"tickets"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
