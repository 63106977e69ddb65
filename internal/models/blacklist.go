package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlacklistEntry bars an account from playing and from entering raffles.
type BlacklistEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID primitive.ObjectID `bson:"accountId" json:"accountId"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	BannedBy  string             `bson:"bannedBy,omitempty" json:"bannedBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
