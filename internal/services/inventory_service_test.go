package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInventoryAddSkipsBlanksAndDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	added, err := f.inventory.Add(ctx, []string{"nft-1", " nft-2 ", "", "nft-1", "   "}, "genesis", "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	items, err := f.inventory.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "genesis", item.Collection)
		assert.Equal(t, "admin", item.AddedBy)
		assert.False(t, item.Reserved)
	}

	available, err := f.inventory.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)
}

func TestInventoryAddRejectsEmptyBatch(t *testing.T) {
	f := newFixture()

	_, err := f.inventory.Add(context.Background(), []string{"", "  ", "\t"}, "genesis", "admin")
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = f.inventory.Add(context.Background(), nil, "genesis", "admin")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestInventoryReservedItemsLeaveAvailableCount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.inventory.Add(ctx, []string{"nft-1", "nft-2"}, "genesis", "admin")
	require.NoError(t, err)

	_, err = f.inventoryRepo.PopAvailable(ctx, primitive.NilObjectID)
	require.NoError(t, err)

	available, err := f.inventory.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), available)

	items, err := f.inventory.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2, "reserved items stay listed until a claim removes them")
}
