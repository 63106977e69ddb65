package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
)

func TestClaimWithNothingAccruedIsANoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()

	receipt, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.Ref)
	assert.Empty(t, receipt.Payouts)
	assert.Empty(t, receipt.NFTRefs)
	assert.Zero(t, receipt.TicketsIssued)
	assert.Zero(t, receipt.SecondaryClaimed)

	receipts, err := f.ledger.Receipts(ctx, account, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, receipts, "empty receipts are not persisted")
}

// A play's winnings accrue in the ledger, a claim moves them to the
// wallet, and a second claim finds nothing: the full player round trip.
func TestClaimRoundTripFromPlay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.seedTreasury(t, "COIN", 5000)
	f.fund(t, account, "COIN", 1000)
	f.draws.PushInts(2, 3) // dice 3 and 4: wins sum 7

	_, err := f.games.Play(ctx, account, models.GameDice, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     1000,
		BetVector: diceVector(map[int64]int64{7: 1000}),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2000), f.ledgerOf(t, account).Balances["COIN"])

	receipt, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{Selectors: []string{"COIN"}, Count: 1})
	require.NoError(t, err)
	require.Len(t, receipt.Payouts, 1)
	assert.Equal(t, int64(2000), receipt.Payouts[0].Amount)

	assert.Equal(t, int64(2000), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(4000), f.poolBalance(t, "COIN")) // 5000 + 1000 fee - 2000 claim
	assert.True(t, f.ledgerOf(t, account).Empty())

	// Claiming again moves nothing
	again, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{Selectors: []string{"COIN"}, Count: 1})
	require.NoError(t, err)
	assert.Empty(t, again.Payouts)
	assert.Equal(t, int64(2000), f.walletBalance(t, account, "COIN"))

	receipts, err := f.ledger.Receipts(ctx, account, 1, 10)
	require.NoError(t, err)
	assert.Len(t, receipts, 1)
}

func TestClaimHonorsSelectorCount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 1000)
	f.seedTreasury(t, "GEM", 1000)
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100, "GEM": 200},
	}))

	receipt, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{
		Selectors: []string{"COIN", "GEM"},
		Count:     1,
	})
	require.NoError(t, err)

	require.Len(t, receipt.Payouts, 1)
	assert.Equal(t, "COIN", receipt.Payouts[0].AssetKind)
	assert.Equal(t, int64(200), f.ledgerOf(t, account).Balances["GEM"], "unselected balance stays claimable")
	assert.Equal(t, int64(0), f.walletBalance(t, account, "GEM"))
}

func TestClaimSelectorCountValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()

	tests := []struct {
		name string
		req  *models.ClaimRequest
	}{
		{"negative count", &models.ClaimRequest{Selectors: []string{"COIN"}, Count: -1}},
		{"count beyond cap", &models.ClaimRequest{Selectors: []string{"A", "B", "C", "D", "E", "F"}, Count: 6}},
		{"count beyond selectors", &models.ClaimRequest{Selectors: []string{"COIN"}, Count: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.Claim(ctx, account, tt.req)
			assert.ErrorIs(t, err, ErrInvalidSelector)
		})
	}
}

func TestClaimUnknownSelectorRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100},
	}))
	f.seedTreasury(t, "COIN", 1000)

	_, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{
		Selectors: []string{"BOGUS"},
		Count:     1,
	})
	assert.ErrorIs(t, err, ErrInvalidSelector)
	assert.Equal(t, int64(100), f.ledgerOf(t, account).Balances["COIN"])
}

func TestClaimInactivePoolRejectedBeforeAnyMovement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 1000)
	f.seedTreasury(t, "GEM", 1000)
	_, err := f.treasury.ToggleActive(ctx, "GEM")
	require.NoError(t, err)
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100, "GEM": 100},
	}))

	// GEM is validated up front, so the COIN leg never moves either
	_, err = f.ledger.Claim(ctx, account, &models.ClaimRequest{
		Selectors: []string{"COIN", "GEM"},
		Count:     2,
	})
	require.ErrorIs(t, err, ErrPoolInactive)

	assert.Equal(t, int64(0), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(100), f.ledgerOf(t, account).Balances["COIN"])
	assert.Equal(t, int64(1000), f.poolBalance(t, "COIN"))
}

func TestClaimExceedingPoolRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 50)
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100},
	}))

	_, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{Selectors: []string{"COIN"}, Count: 1})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(100), f.ledgerOf(t, account).Balances["COIN"])
}

func TestClaimSweepsVouchersTicketsAndSecondary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 1000)
	f.addInventory(t, "n1", "n2")
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts:   map[string]int64{"COIN": 100},
		NFTRefs:   []string{"n1", "n2"},
		Tickets:   5,
		Secondary: 75,
	}))

	receipt, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{Selectors: []string{"COIN"}, Count: 1})
	require.NoError(t, err)

	require.Len(t, receipt.Payouts, 1)
	assert.Equal(t, int64(100), receipt.Payouts[0].Amount)
	assert.Equal(t, []string{"n1", "n2"}, receipt.NFTRefs)
	assert.Equal(t, int64(5), receipt.TicketsIssued)
	assert.Equal(t, int64(75), receipt.SecondaryClaimed)

	// Collectibles went through custody and left the inventory
	assert.Len(t, f.custody.Transfers, 2)
	items, err := f.inventory.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Tickets became spendable raffle tickets
	balance, err := f.raffles.TicketBalance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.Tickets)

	assert.True(t, f.ledgerOf(t, account).Empty())
}

func TestClaimZeroCountStillSweeps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100},
		Tickets: 3,
	}))

	receipt, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{Count: 0})
	require.NoError(t, err)

	assert.Empty(t, receipt.Payouts)
	assert.Equal(t, int64(3), receipt.TicketsIssued)

	ledger := f.ledgerOf(t, account)
	assert.Equal(t, int64(100), ledger.Balances["COIN"], "unselected balances stay")
	assert.Zero(t, ledger.RaffleTickets)
}

func TestClaimDuplicateSelectorsPayOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 1000)
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100},
	}))

	receipt, err := f.ledger.Claim(ctx, account, &models.ClaimRequest{
		Selectors: []string{"COIN", "COIN"},
		Count:     2,
	})
	require.NoError(t, err)

	require.Len(t, receipt.Payouts, 1)
	assert.Equal(t, int64(100), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(900), f.poolBalance(t, "COIN"))
}

func TestClaimLeavesFreePlayVouchersAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 1000)
	_, err := f.ledger.GrantVoucher(ctx, account, models.GameWheel, "COIN", 50)
	require.NoError(t, err)
	require.NoError(t, f.ledgerRepo.ApplyCredit(ctx, account, &models.LedgerCredit{
		Amounts: map[string]int64{"COIN": 100},
	}))

	_, err = f.ledger.Claim(ctx, account, &models.ClaimRequest{Selectors: []string{"COIN"}, Count: 1})
	require.NoError(t, err)

	assert.Len(t, f.ledgerOf(t, account).FreePlayVouchers, 1, "claims never consume play vouchers")
}

func TestGrantVoucherValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()

	_, err := f.ledger.GrantVoucher(ctx, account, "SLOTS", "COIN", 100)
	assert.ErrorIs(t, err, ErrInvalidGameKind)

	_, err = f.ledger.GrantVoucher(ctx, account, models.GameWheel, "", 100)
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = f.ledger.GrantVoucher(ctx, account, models.GameWheel, "COIN", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	voucher, err := f.ledger.GrantVoucher(ctx, account, models.GameWheel, "COIN", 100)
	require.NoError(t, err)
	assert.NotEmpty(t, voucher.Ref)
	assert.Len(t, f.ledgerOf(t, account).FreePlayVouchers, 1)
}

func TestWalletDeposits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()

	assert.ErrorIs(t, f.ledger.DepositToWallet(ctx, account, "", 100), ErrInvalidSelector)
	assert.ErrorIs(t, f.ledger.DepositToWallet(ctx, account, "COIN", 0), ErrInvalidAmount)

	require.NoError(t, f.ledger.DepositToWallet(ctx, account, "COIN", 250))
	assert.Equal(t, int64(250), f.walletBalance(t, account, "COIN"))

	// An account that never held funds reads as an empty wallet
	other, err := f.ledger.Wallet(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, other.Balances)
}
