package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleArchive is the append-only record of a consumed participant
// multiset, written once per raffle resolution and indexed by a
// monotonically increasing sequence number.
type RaffleArchive struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Sequence     int64                `bson:"sequence" json:"sequence"`
	RaffleID     primitive.ObjectID   `bson:"raffleId" json:"raffleId"`
	Kind         RaffleKind           `bson:"kind" json:"kind"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	WinnerIDs    []primitive.ObjectID `bson:"winnerIds" json:"winnerIds"`
	ResolvedAt   time.Time            `bson:"resolvedAt" json:"resolvedAt"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}
