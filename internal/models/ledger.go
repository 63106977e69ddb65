package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FreePlayVoucher entitles its holder to one fee-free play of a game. The
// settlement engine consumes vouchers from the front of the ledger list.
type FreePlayVoucher struct {
	Ref       string    `bson:"ref" json:"ref"`
	Game      GameKind  `bson:"game" json:"game"`
	AssetKind string    `bson:"assetKind" json:"assetKind"`
	Stake     int64     `bson:"stake" json:"stake"`
	GrantedAt time.Time `bson:"grantedAt" json:"grantedAt"`
}

// RewardLedger accumulates a player's unclaimed winnings across asset kinds
// and reward categories. It is created on the first credit, mutated only
// additively by settlements, and zeroed field-by-field by claims; the
// document itself is never deleted.
type RewardLedger struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID        primitive.ObjectID `bson:"accountId" json:"accountId"`
	Balances         map[string]int64   `bson:"balances" json:"balances"`
	NFTVouchers      []string           `bson:"nftVouchers" json:"nftVouchers"`
	RaffleTickets    int64              `bson:"raffleTickets" json:"raffleTickets"`
	SecondaryCoins   int64              `bson:"secondaryCoins" json:"secondaryCoins"`
	FreePlayVouchers []FreePlayVoucher  `bson:"freePlayVouchers" json:"freePlayVouchers"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Empty reports whether the ledger has nothing left to claim.
func (l *RewardLedger) Empty() bool {
	for _, v := range l.Balances {
		if v > 0 {
			return false
		}
	}
	return len(l.NFTVouchers) == 0 && l.RaffleTickets == 0 && l.SecondaryCoins == 0
}

// LedgerCredit is one settlement's additive contribution to a ledger. The
// repository applies it as a single atomic document update so a credit can
// never be half-visible across reward kinds.
type LedgerCredit struct {
	Amounts   map[string]int64
	NFTRefs   []string
	Tickets   int64
	Secondary int64
	Vouchers  []FreePlayVoucher
}

// LedgerDebit removes claimed value from a ledger. Amounts must not exceed
// the balances read under the claim lock; NFT refs are removed
// individually so concurrently credited vouchers survive.
type LedgerDebit struct {
	Amounts   map[string]int64
	NFTRefs   []string
	Tickets   int64
	Secondary int64
}
