package services

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreasuryDepositCreatesActivePool(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.treasury.Deposit(ctx, "COIN", 500))

	pool, err := f.treasury.Pool(ctx, "COIN")
	require.NoError(t, err)
	assert.Equal(t, int64(500), pool.Balance)
	assert.Equal(t, int64(500), pool.TotalDeposited)
	assert.True(t, pool.Active)
}

func TestTreasuryDepositRejectsNonPositiveAmounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.treasury.Deposit(ctx, "COIN", 0), ErrInvalidAmount)
	assert.ErrorIs(t, f.treasury.Deposit(ctx, "COIN", -10), ErrInvalidAmount)
}

func TestTreasuryDepositOverflowRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.treasury.Deposit(ctx, "COIN", math.MaxInt64))

	err := f.treasury.Deposit(ctx, "COIN", 1)
	assert.ErrorIs(t, err, ErrAmountOverflow)
	assert.Equal(t, int64(math.MaxInt64), f.poolBalance(t, "COIN"))
}

func TestTreasuryExtract(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 1000)

	require.NoError(t, f.treasury.Extract(ctx, "COIN", 400))

	pool, err := f.treasury.Pool(ctx, "COIN")
	require.NoError(t, err)
	assert.Equal(t, int64(600), pool.Balance)
	assert.Equal(t, int64(400), pool.TotalExtracted)
	assert.Equal(t, pool.Balance, pool.TotalDeposited-pool.TotalExtracted)
}

func TestTreasuryExtractInsufficientBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 100)

	assert.ErrorIs(t, f.treasury.Extract(ctx, "COIN", 200), ErrInsufficientBalance)
	assert.ErrorIs(t, f.treasury.Extract(ctx, "UNSEEN", 1), ErrInsufficientBalance)
	assert.Equal(t, int64(100), f.poolBalance(t, "COIN"))
}

func TestTreasuryExtractInactivePool(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 1000)

	pool, err := f.treasury.ToggleActive(ctx, "COIN")
	require.NoError(t, err)
	require.False(t, pool.Active)

	assert.ErrorIs(t, f.treasury.Extract(ctx, "COIN", 10), ErrPoolInactive)

	// Deposits keep landing while extraction is closed
	require.NoError(t, f.treasury.Deposit(ctx, "COIN", 50))
	assert.Equal(t, int64(1050), f.poolBalance(t, "COIN"))

	pool, err = f.treasury.ToggleActive(ctx, "COIN")
	require.NoError(t, err)
	require.True(t, pool.Active)
	assert.NoError(t, f.treasury.Extract(ctx, "COIN", 10))
}

func TestTreasuryToggleUnknownKind(t *testing.T) {
	f := newFixture()

	_, err := f.treasury.ToggleActive(context.Background(), "UNSEEN")
	assert.Error(t, err)
}

// Over any randomized operation sequence the pool must satisfy
// totalDeposited - totalExtracted == balance, never go negative, and end
// at exactly the sum of accepted movements.
func TestTreasuryConservationOverRandomizedSequence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	r := rand.New(rand.NewSource(7))

	f.seedTreasury(t, "COIN", 1)
	expected := int64(1)
	for i := 0; i < 2000; i++ {
		amount := r.Int63n(1000) + 1
		if r.Intn(2) == 0 {
			require.NoError(t, f.treasury.Deposit(ctx, "COIN", amount))
			expected += amount
		} else {
			err := f.treasury.Extract(ctx, "COIN", amount)
			if amount > expected {
				require.ErrorIs(t, err, ErrInsufficientBalance)
			} else {
				require.NoError(t, err)
				expected -= amount
			}
		}

		pool, err := f.treasury.Pool(ctx, "COIN")
		require.NoError(t, err)
		require.GreaterOrEqual(t, pool.Balance, int64(0))
		require.Equal(t, pool.Balance, pool.TotalDeposited-pool.TotalExtracted)
	}

	assert.Equal(t, expected, f.poolBalance(t, "COIN"))
}

func TestTreasuryStatusSnapshotsEveryPool(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 100)
	f.seedTreasury(t, "GEM", 200)

	status, err := f.treasury.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Pools, 2)
	assert.False(t, status.LastUpdatedAt.IsZero())

	kinds := map[string]int64{}
	for _, pool := range status.Pools {
		kinds[pool.AssetKind] = pool.Balance
		assert.False(t, pool.UpdatedAt.After(status.LastUpdatedAt))
	}
	assert.Equal(t, int64(100), kinds["COIN"])
	assert.Equal(t, int64(200), kinds["GEM"])
}
