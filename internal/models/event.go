package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType classifies an observability record
type EventType string

const (
	EventPlaySettled        EventType = "PLAY_SETTLED"
	EventClaimCompleted     EventType = "CLAIM_COMPLETED"
	EventRaffleEntered      EventType = "RAFFLE_ENTERED"
	EventRaffleResolved     EventType = "RAFFLE_RESOLVED"
	EventTreasuryMoved      EventType = "TREASURY_MOVED"
	EventAccountBlacklisted EventType = "ACCOUNT_BLACKLISTED"
)

// Event is a fire-and-forget structured record emitted after a successful
// state transition. Emission failures are logged and never fail the
// operation that produced the event.
type Event struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Type      EventType              `bson:"type" json:"type"`
	Source    string                 `bson:"source" json:"source"`
	AccountID primitive.ObjectID     `bson:"accountId,omitempty" json:"accountId,omitempty"`
	Payload   map[string]interface{} `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
