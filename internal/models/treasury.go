package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TreasuryPool is the platform-owned escrow for one asset kind. Pools are
// created lazily on the first deposit and never removed; the active flag
// only gates extraction, never deposits.
type TreasuryPool struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AssetKind      string             `bson:"assetKind" json:"assetKind"`
	Balance        int64              `bson:"balance" json:"balance"`
	Active         bool               `bson:"active" json:"active"`
	TotalDeposited int64              `bson:"totalDeposited" json:"totalDeposited"`
	TotalExtracted int64              `bson:"totalExtracted" json:"totalExtracted"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TreasuryStatus is the admin-facing snapshot of every pool, including the
// lifetime deposit/extract counters used for conservation audits.
type TreasuryStatus struct {
	Pools         []*TreasuryPool `json:"pools"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
