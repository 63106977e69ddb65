package gamemath

import (
	"errors"
	"fmt"
)

// Plinko ball count bounds per play.
const (
	MinPlinkoBalls = 1
	MaxPlinkoBalls = 10
)

var ErrInvalidBallCount = errors.New("invalid plinko ball count")

// DefaultPlinkoMultipliers is the shipped 8-row slot table (9 landing
// slots), scaled by 100: edges pay 5x, the centre pays half the stake back.
func DefaultPlinkoMultipliers() []int64 {
	return []int64{500, 300, 150, 80, 50, 80, 150, 300, 500}
}

// ValidateBallCount bounds the balls dropped in one play.
func ValidateBallCount(balls int) error {
	if balls < MinPlinkoBalls || balls > MaxPlinkoBalls {
		return fmt.Errorf("%w: %d balls, want %d..%d", ErrInvalidBallCount, balls, MinPlinkoBalls, MaxPlinkoBalls)
	}
	return nil
}

// PlinkoSlot derives a ball's landing slot from one random byte per pin
// row: an odd byte deflects the ball right, an even byte left, and the slot
// is the count of right deflections. The byte-parity construction is part
// of the payout table calibration and must not be replaced by a different
// binomial sampling scheme.
func PlinkoSlot(path []byte) int {
	slot := 0
	for _, b := range path {
		if b&1 == 1 {
			slot++
		}
	}
	return slot
}

// ResolvePlinko settles one ball: the slot multiplier applies to the
// per-ball stake with floor division.
func ResolvePlinko(stake int64, slot int, multipliers []int64) int64 {
	if slot < 0 || slot >= len(multipliers) {
		return 0
	}
	return Payout(stake, multipliers[slot])
}
