package gamemath

import (
	"errors"
	"fmt"

	"github.com/spinforge/arcade-backend/internal/models"
)

// CoinFlipDrawRange is the coin flip draw space: draws are in [1, 100].
const CoinFlipDrawRange int64 = 100

// CoinFlipWinMultiplier pays even money on a won flip (scaled by 100).
// The house edge lives entirely in the middle band that resolves against
// the player, never in the payout.
const CoinFlipWinMultiplier int64 = 200

var ErrInvalidHouseEdge = errors.New("invalid house edge")

// ValidateHouseEdge checks that the numerator/denominator pair reduces to
// an even whole percentage in [0, 50], so the two win bands stay symmetric.
func ValidateHouseEdge(numerator, denominator int64) error {
	if denominator <= 0 {
		return fmt.Errorf("%w: zero denominator", ErrInvalidHouseEdge)
	}
	if numerator < 0 || numerator%denominator != 0 {
		return fmt.Errorf("%w: %d/%d is not a whole percentage", ErrInvalidHouseEdge, numerator, denominator)
	}
	pct := numerator / denominator
	if pct > 50 || pct%2 != 0 {
		return fmt.Errorf("%w: %d%% edge", ErrInvalidHouseEdge, pct)
	}
	return nil
}

// CoinFlipBands returns the inclusive boundaries of the three resolution
// bands for a validated house edge: draws in [1, low] resolve HEADS, draws
// in (high, 100] resolve TAILS, and draws in (low, high] resolve against
// the player's selection.
func CoinFlipBands(numerator, denominator int64) (low, high int64) {
	pct := numerator / denominator
	low = (CoinFlipDrawRange - pct) / 2
	high = CoinFlipDrawRange - low
	return low, high
}

// ResolveCoinFlip settles a flip for a draw in [1, 100]. The middle band of
// house-edge width always resolves to the opposite of the player's
// selection, so the player loses there regardless of the face chosen.
func ResolveCoinFlip(selected models.CoinFace, draw, numerator, denominator int64) (models.CoinFace, bool) {
	low, high := CoinFlipBands(numerator, denominator)
	var resolved models.CoinFace
	switch {
	case draw <= low:
		resolved = models.CoinFaceHeads
	case draw > high:
		resolved = models.CoinFaceTails
	default:
		if selected == models.CoinFaceHeads {
			resolved = models.CoinFaceTails
		} else {
			resolved = models.CoinFaceHeads
		}
	}
	return resolved, resolved == selected
}
