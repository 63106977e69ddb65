// Package gamemath holds the pure resolution math shared by every game:
// cumulative tier tables, closed-form dice and coin-flip resolution, and
// plinko path derivation. Everything here is deterministic for a fixed
// draw; obtaining the draw is the caller's concern.
package gamemath

import (
	"errors"
	"fmt"

	"github.com/spinforge/arcade-backend/internal/models"
)

// DrawRange is the half-open draw space [0, DrawRange) every tier table
// partitions.
const DrawRange int64 = 10000

// MultiplierScale is the fixed-point denominator for pre-scaled payout
// multipliers: payout = stake * multiplier / MultiplierScale, floored.
const MultiplierScale int64 = 100

var (
	// ErrDrawOutOfRange signals a draw at or beyond DrawRange. The draw
	// source is bounded, so hitting this means a configuration invariant
	// was violated; it is never a player-facing outcome.
	ErrDrawOutOfRange = errors.New("draw out of tier table range")

	// ErrInvalidTierTable rejects tables that fail validation.
	ErrInvalidTierTable = errors.New("invalid tier table")
)

// AllotTier resolves a draw against a cumulative tier table and returns the
// index of the first entry whose upper bound exceeds the draw. Bounds are
// exclusive-upper/inclusive-lower: a draw equal to a bound falls into the
// next tier. Pure and reproducible for a fixed table and draw.
func AllotTier(tiers []models.TierEntry, draw int64) (int, error) {
	if draw < 0 || draw >= DrawRange {
		return 0, fmt.Errorf("%w: draw %d", ErrDrawOutOfRange, draw)
	}
	for i := range tiers {
		if draw < tiers[i].UpperBound {
			return i, nil
		}
	}
	// Unreachable for a validated table; treat as a table defect.
	return 0, fmt.Errorf("%w: no tier covers draw %d", ErrInvalidTierTable, draw)
}

// ValidateTierTable enforces the configuration-time invariants: the bounds
// strictly increase, the last bound equals DrawRange (the partition is
// exhaustive with no gaps or overlaps), and payout values are strictly
// descending within each reward kind.
func ValidateTierTable(tiers []models.TierEntry) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%w: empty table", ErrInvalidTierTable)
	}
	var prev int64
	for i, t := range tiers {
		if t.UpperBound <= prev {
			return fmt.Errorf("%w: bound %d at index %d does not increase", ErrInvalidTierTable, t.UpperBound, i)
		}
		prev = t.UpperBound
		switch t.Reward {
		case models.RewardAsset:
			if t.Multiplier < 0 {
				return fmt.Errorf("%w: negative multiplier at index %d", ErrInvalidTierTable, i)
			}
		case models.RewardSecondary, models.RewardTickets:
			if t.Amount <= 0 {
				return fmt.Errorf("%w: non-positive amount at index %d", ErrInvalidTierTable, i)
			}
		case models.RewardNFT:
			// Carries no value fields.
		default:
			return fmt.Errorf("%w: unknown reward kind %q at index %d", ErrInvalidTierTable, t.Reward, i)
		}
	}
	if prev != DrawRange {
		return fmt.Errorf("%w: last bound %d, want %d", ErrInvalidTierTable, prev, DrawRange)
	}
	if err := checkDescending(tiers); err != nil {
		return err
	}
	return nil
}

// checkDescending verifies that within each reward kind the payout values
// strictly descend in table order, so better tiers always sit earlier.
func checkDescending(tiers []models.TierEntry) error {
	last := map[models.RewardKind]int64{}
	for i, t := range tiers {
		var v int64
		switch t.Reward {
		case models.RewardAsset:
			if t.Multiplier == 0 {
				continue // zero-multiplier loss tiers are exempt
			}
			v = t.Multiplier
		case models.RewardSecondary, models.RewardTickets:
			v = t.Amount
		default:
			continue
		}
		if prev, ok := last[t.Reward]; ok && v >= prev {
			return fmt.Errorf("%w: %s value %d at index %d not descending", ErrInvalidTierTable, t.Reward, v, i)
		}
		last[t.Reward] = v
	}
	return nil
}

// Payout computes a fixed-point tier payout: stake * multiplier, floor
// divided by MultiplierScale. The house edge is encoded entirely in the
// multiplier; nothing is adjusted after the division.
func Payout(stake, multiplier int64) int64 {
	return stake * multiplier / MultiplierScale
}

// Consolation converts a losing stake to secondary currency at the
// configured exchange rate, floored. A zero or negative rate disables the
// consolation.
func Consolation(stake, exchangeRate int64) int64 {
	if exchangeRate <= 0 {
		return 0
	}
	return stake / exchangeRate
}
