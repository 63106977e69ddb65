package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleWinner records one winning draw of a raffle resolution.
type RaffleWinner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID    primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	AccountID   primitive.ObjectID `bson:"accountId" json:"accountId"`
	PrizeAmount int64              `bson:"prizeAmount,omitempty" json:"prizeAmount,omitempty"`
	PrizeRef    string             `bson:"prizeRef,omitempty" json:"prizeRef,omitempty"`
	AssetKind   string             `bson:"assetKind,omitempty" json:"assetKind,omitempty"`
	WonAt       time.Time          `bson:"wonAt" json:"wonAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
