package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxClaimSelectors caps how many asset-kind selectors one claim processes.
const MaxClaimSelectors = 5

// ClaimRequest selects which ledger legs to withdraw. Count determines how
// many of the positional selectors are actually processed; the voucher,
// ticket and secondary sweeps always run.
type ClaimRequest struct {
	Selectors []string `json:"selectors"`
	Count     int      `json:"count"`
}

// ClaimPayout is one fungible leg of a claim receipt.
type ClaimPayout struct {
	AssetKind string `bson:"assetKind" json:"assetKind"`
	Amount    int64  `bson:"amount" json:"amount"`
}

// ClaimReceipt records everything one claim call moved out of a ledger.
// A claim with nothing accrued still succeeds and yields an empty receipt.
type ClaimReceipt struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Ref              string             `bson:"ref" json:"ref"`
	AccountID        primitive.ObjectID `bson:"accountId" json:"accountId"`
	Payouts          []ClaimPayout      `bson:"payouts" json:"payouts"`
	NFTRefs          []string           `bson:"nftRefs,omitempty" json:"nftRefs,omitempty"`
	TicketsIssued    int64              `bson:"ticketsIssued" json:"ticketsIssued"`
	SecondaryClaimed int64              `bson:"secondaryClaimed" json:"secondaryClaimed"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
