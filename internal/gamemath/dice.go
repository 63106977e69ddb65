package gamemath

import (
	"errors"
	"fmt"
)

// DiceSlots is the length of a dice bet vector: one slot per possible
// two-die sum, index 0 for sum 2 through index 10 for sum 12.
const DiceSlots = 11

// Dice bet vectors must spread the stake over at least one and at most
// four sums.
const (
	MinDiceLegs = 1
	MaxDiceLegs = 4
)

// DiceLossGrant is the single unit of stake asset credited alongside the
// secondary-currency consolation when every leg of a dice play misses.
// Deliberate floor protection: a dice player is never left entirely empty.
const DiceLossGrant int64 = 1

var ErrInvalidBetVector = errors.New("invalid dice bet vector")

// DefaultDiceMultipliers maps sums 2..12 to multipliers scaled by 100,
// mirrored around seven: rarer sums pay more.
func DefaultDiceMultipliers() []int64 {
	return []int64{1000, 600, 400, 300, 250, 200, 250, 300, 400, 600, 1000}
}

// ValidateBetVector checks the dice preconditions: exactly DiceSlots
// entries, no negative legs, between MinDiceLegs and MaxDiceLegs non-zero
// legs, and the legs summing exactly to the declared stake.
func ValidateBetVector(vector []int64, stake int64) error {
	if len(vector) != DiceSlots {
		return fmt.Errorf("%w: got %d slots, want %d", ErrInvalidBetVector, len(vector), DiceSlots)
	}
	var legs int
	var total int64
	for i, v := range vector {
		if v < 0 {
			return fmt.Errorf("%w: negative leg at slot %d", ErrInvalidBetVector, i)
		}
		if v > 0 {
			legs++
			total += v
		}
	}
	if legs < MinDiceLegs || legs > MaxDiceLegs {
		return fmt.Errorf("%w: %d non-zero legs, want %d..%d", ErrInvalidBetVector, legs, MinDiceLegs, MaxDiceLegs)
	}
	if total != stake {
		return fmt.Errorf("%w: legs sum to %d, stake is %d", ErrInvalidBetVector, total, stake)
	}
	return nil
}

// ResolveDice settles a dice play: the draw is two die faces, the winning
// slot is their sum, and the payout is that slot's leg times its multiplier
// (scaled by 100, floored). A zero payout is a loss.
func ResolveDice(vector []int64, multipliers []int64, die1, die2 int64) int64 {
	sum := die1 + die2
	if sum < 2 || sum > 12 {
		return 0
	}
	i := sum - 2
	if int(i) >= len(vector) || int(i) >= len(multipliers) {
		return 0
	}
	return Payout(vector[i], multipliers[i])
}
