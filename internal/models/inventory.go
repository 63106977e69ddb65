package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NFTItem is a platform-held collectible voucher reference. Items back the
// wheel's collectible tier and unique-prize raffles; a settlement reserves
// an item when it credits the voucher to a ledger, and a claim removes it
// once custody transfers the asset out.
type NFTItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Ref        string             `bson:"ref" json:"ref"`
	Collection string             `bson:"collection,omitempty" json:"collection,omitempty"`
	Reserved   bool               `bson:"reserved" json:"reserved"`
	ReservedBy primitive.ObjectID `bson:"reservedBy,omitempty" json:"reservedBy,omitempty"`
	AddedBy    string             `bson:"addedBy,omitempty" json:"addedBy,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
