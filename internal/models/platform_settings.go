package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformSettings is the singleton document of platform-wide switches.
// RafflesActive gates every raffle entry regardless of per-raffle flags;
// RaffleEntryFee is the anti-spam fee charged in BaseAssetKind on entry.
type PlatformSettings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RafflesActive  bool               `bson:"rafflesActive" json:"rafflesActive"`
	RaffleEntryFee int64              `bson:"raffleEntryFee" json:"raffleEntryFee"`
	BaseAssetKind  string             `bson:"baseAssetKind" json:"baseAssetKind"`
	Maintenance    bool               `bson:"maintenance" json:"maintenance"`
	UpdatedBy      string             `bson:"updatedBy" json:"updatedBy"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPlatformSettings returns the settings used until an admin edits them
func DefaultPlatformSettings() *PlatformSettings {
	return &PlatformSettings{
		RafflesActive:  true,
		RaffleEntryFee: 10,
		BaseAssetKind:  "GEM",
		Maintenance:    false,
	}
}

// UpdateSettingsRequest carries an admin edit of the platform settings
type UpdateSettingsRequest struct {
	RafflesActive  *bool  `json:"rafflesActive"`
	RaffleEntryFee *int64 `json:"raffleEntryFee"`
	BaseAssetKind  string `json:"baseAssetKind"`
	Maintenance    *bool  `json:"maintenance"`
}
