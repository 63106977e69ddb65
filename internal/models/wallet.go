package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet holds a player's spendable balances per asset kind. Play fees and
// raffle entry fees are debited from here into the treasury; claimed
// winnings are credited back here.
type Wallet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID primitive.ObjectID `bson:"accountId" json:"accountId"`
	Balances  map[string]int64   `bson:"balances" json:"balances"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
