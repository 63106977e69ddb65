package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spinforge/arcade-backend/internal/models"
)

func TestValidateHouseEdge(t *testing.T) {
	assert.NoError(t, ValidateHouseEdge(100, 10)) // 10%
	assert.NoError(t, ValidateHouseEdge(0, 1))    // fair coin
	assert.NoError(t, ValidateHouseEdge(4, 2))    // 2%

	assert.ErrorIs(t, ValidateHouseEdge(100, 0), ErrInvalidHouseEdge)
	assert.ErrorIs(t, ValidateHouseEdge(7, 1), ErrInvalidHouseEdge)   // odd percent
	assert.ErrorIs(t, ValidateHouseEdge(101, 2), ErrInvalidHouseEdge) // not whole
	assert.ErrorIs(t, ValidateHouseEdge(52, 1), ErrInvalidHouseEdge)  // beyond 50%
}

func TestCoinFlipBands(t *testing.T) {
	low, high := CoinFlipBands(100, 10)
	assert.Equal(t, int64(45), low)
	assert.Equal(t, int64(55), high)

	low, high = CoinFlipBands(0, 1)
	assert.Equal(t, int64(50), low)
	assert.Equal(t, int64(50), high)
}

func TestResolveCoinFlip(t *testing.T) {
	tests := []struct {
		name     string
		selected models.CoinFace
		draw     int64
		resolved models.CoinFace
		won      bool
	}{
		{"low band is heads", models.CoinFaceHeads, 45, models.CoinFaceHeads, true},
		{"low band against tails pick", models.CoinFaceTails, 1, models.CoinFaceHeads, false},
		{"house band flips heads pick", models.CoinFaceHeads, 48, models.CoinFaceTails, false},
		{"house band flips tails pick", models.CoinFaceTails, 48, models.CoinFaceHeads, false},
		{"house band lower edge", models.CoinFaceHeads, 46, models.CoinFaceTails, false},
		{"house band upper edge", models.CoinFaceHeads, 55, models.CoinFaceTails, false},
		{"high band is tails", models.CoinFaceTails, 56, models.CoinFaceTails, true},
		{"top of range", models.CoinFaceTails, 100, models.CoinFaceTails, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, won := ResolveCoinFlip(tt.selected, tt.draw, 100, 10)
			assert.Equal(t, tt.resolved, resolved)
			assert.Equal(t, tt.won, won)
		})
	}
}

// A fair coin has no house band: every draw resolves to a face decided by
// the 50/50 split alone.
func TestResolveCoinFlipFairCoin(t *testing.T) {
	for d := int64(1); d <= 100; d++ {
		resolved, _ := ResolveCoinFlip(models.CoinFaceHeads, d, 0, 1)
		if d <= 50 {
			assert.Equal(t, models.CoinFaceHeads, resolved, "draw %d", d)
		} else {
			assert.Equal(t, models.CoinFaceTails, resolved, "draw %d", d)
		}
	}
}
