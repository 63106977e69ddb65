package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func betOn(sum int, amount int64) []int64 {
	v := make([]int64, DiceSlots)
	v[sum-2] = amount
	return v
}

func TestValidateBetVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []int64
		stake  int64
		ok     bool
	}{
		{"single leg on seven", betOn(7, 1000), 1000, true},
		{"wrong length", make([]int64, 10), 0, false},
		{"no legs", make([]int64, DiceSlots), 0, false},
		{"negative leg", func() []int64 { v := betOn(7, 1000); v[0] = -1; return v }(), 999, false},
		{"stake mismatch", betOn(7, 1000), 500, false},
		{
			"four legs",
			func() []int64 {
				v := make([]int64, DiceSlots)
				v[0], v[3], v[5], v[10] = 100, 200, 300, 400
				return v
			}(),
			1000,
			true,
		},
		{
			"five legs rejected",
			func() []int64 {
				v := make([]int64, DiceSlots)
				v[0], v[1], v[2], v[3], v[4] = 100, 100, 100, 100, 100
				return v
			}(),
			500,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBetVector(tt.vector, tt.stake)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidBetVector)
			}
		})
	}
}

func TestResolveDice(t *testing.T) {
	mults := DefaultDiceMultipliers()
	require.Len(t, mults, DiceSlots)

	// 1000 on sum seven, dice land (3,4): 1000 * 200 / 100.
	won := ResolveDice(betOn(7, 1000), mults, 3, 4)
	assert.Equal(t, int64(2000), won)

	// Same bet, dice land (2,2): leg not hit.
	won = ResolveDice(betOn(7, 1000), mults, 2, 2)
	assert.Equal(t, int64(0), won)

	// Rarest sum pays 10x.
	won = ResolveDice(betOn(2, 500), mults, 1, 1)
	assert.Equal(t, int64(5000), won)
}

func TestDefaultDiceMultipliersMirrored(t *testing.T) {
	mults := DefaultDiceMultipliers()
	for i := 0; i < DiceSlots/2; i++ {
		assert.Equal(t, mults[i], mults[DiceSlots-1-i], "slot %d not mirrored", i)
	}
}
