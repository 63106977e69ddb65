package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/pkg/rng"
)

func TestCreateCoinRaffleEscrowsPot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 1000)

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind:      models.RaffleKindCoin,
		Title:     "weekly pot",
		AssetKind: "COIN",
		PotAmount: 400,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(400), raffle.PotAmount)
	assert.True(t, raffle.Active)
	assert.Equal(t, models.RaffleStatusOpen, raffle.Status)
	assert.Equal(t, int64(600), f.poolBalance(t, "COIN"), "pot must leave the treasury at creation")
}

func TestCreateCoinRaffleValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 100)

	_, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", PotAmount: 100,
	})
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN", PotAmount: 5000,
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(100), f.poolBalance(t, "COIN"))

	_, err = f.raffles.Create(ctx, &models.CreateRaffleRequest{Kind: "MYSTERY", Title: "r"})
	assert.ErrorIs(t, err, ErrInvalidRaffleKind)
}

func TestCreateUniqueRaffleReservesPrize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addInventory(t, "prize-1")

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind:  models.RaffleKindUnique,
		Title: "collectible drop",
	})
	require.NoError(t, err)
	assert.Equal(t, "prize-1", raffle.PrizeRef)

	available, err := f.inventory.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), available)

	// Inventory exhausted: the next prize-less raffle cannot open
	_, err = f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind:  models.RaffleKindUnique,
		Title: "second drop",
	})
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// An explicit prize ref skips the inventory entirely
	named, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind:     models.RaffleKindUnique,
		Title:    "named drop",
		PrizeRef: "external-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "external-7", named.PrizeRef)
}

func TestEnterSpendsTicketsAndChargesFee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 100)

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN", PotAmount: 100,
	})
	require.NoError(t, err)

	require.NoError(t, f.raffles.IssueTickets(ctx, account, 10))
	f.fund(t, account, "GEM", 50) // default entry fee is 10 GEM

	entered, err := f.raffles.Enter(ctx, account, raffle.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, entered.EntryCount)
	assert.Len(t, entered.Participants, 3, "one multiset entry per ticket")
	for _, p := range entered.Participants {
		assert.Equal(t, account, p)
	}

	balance, err := f.raffles.TicketBalance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, int64(7), balance.Tickets)

	assert.Equal(t, int64(40), f.walletBalance(t, account, "GEM"))
	assert.Equal(t, int64(10), f.poolBalance(t, "GEM"), "entry fee merges into the treasury")
}

func TestEnterWithZeroFeeNeedsNoWallet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 100)
	f.setRaffleEntryFee(t, 0)

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN", PotAmount: 100,
	})
	require.NoError(t, err)
	require.NoError(t, f.raffles.IssueTickets(ctx, account, 1))

	_, err = f.raffles.Enter(ctx, account, raffle.ID, 1)
	assert.NoError(t, err)
}

func TestEnterGates(t *testing.T) {
	ctx := context.Background()

	newCoinRaffle := func(t *testing.T, f *fixture) *models.Raffle {
		t.Helper()
		f.seedTreasury(t, "COIN", 100)
		raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
			Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN", PotAmount: 100,
		})
		require.NoError(t, err)
		return raffle
	}

	t.Run("ticket count bounds", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)

		_, err := f.raffles.Enter(ctx, account, raffle.ID, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = f.raffles.Enter(ctx, account, raffle.ID, MaxTicketsPerEntry+1)
		assert.ErrorIs(t, err, ErrTicketLimitExceeded)
	})

	t.Run("insufficient tickets", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)
		require.NoError(t, f.raffles.IssueTickets(ctx, account, 2))

		_, err := f.raffles.Enter(ctx, account, raffle.ID, 3)
		assert.ErrorIs(t, err, ErrInsufficientTickets)
	})

	t.Run("insufficient fee funds", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)
		require.NoError(t, f.raffles.IssueTickets(ctx, account, 5))

		_, err := f.raffles.Enter(ctx, account, raffle.ID, 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		balance, err := f.raffles.TicketBalance(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, int64(5), balance.Tickets, "failed entry must not burn tickets")
	})

	t.Run("platform raffle pause", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)

		settings, err := f.settingsRepo.Get(ctx)
		require.NoError(t, err)
		settings.RafflesActive = false
		require.NoError(t, f.settingsRepo.Update(ctx, settings))

		_, err = f.raffles.Enter(ctx, account, raffle.ID, 1)
		assert.ErrorIs(t, err, ErrRafflePaused)
	})

	t.Run("maintenance mode", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)

		settings, err := f.settingsRepo.Get(ctx)
		require.NoError(t, err)
		settings.Maintenance = true
		require.NoError(t, f.settingsRepo.Update(ctx, settings))

		_, err = f.raffles.Enter(ctx, account, raffle.ID, 1)
		assert.ErrorIs(t, err, ErrMaintenance)
	})

	t.Run("blacklisted account", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)
		require.NoError(t, f.settings.Blacklist(ctx, account, "abuse", "admin"))

		_, err := f.raffles.Enter(ctx, account, raffle.ID, 1)
		assert.ErrorIs(t, err, ErrBlacklisted)
	})

	t.Run("deactivated raffle", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		raffle := newCoinRaffle(t, f)
		require.NoError(t, f.raffles.SetActive(ctx, raffle.ID, false))

		_, err := f.raffles.Enter(ctx, account, raffle.ID, 1)
		assert.ErrorIs(t, err, ErrRafflePaused)
	})
}

func TestPickWinnersGates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 1000)

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN", PotAmount: 100,
	})
	require.NoError(t, err)

	_, err = f.raffles.PickWinners(ctx, raffle.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidWinnerCount)

	// Still accepting entries
	_, err = f.raffles.PickWinners(ctx, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleActive)

	// Deactivated but empty
	require.NoError(t, f.raffles.SetActive(ctx, raffle.ID, false))
	_, err = f.raffles.PickWinners(ctx, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestPickWinnersCoinSplitsPotWithReplacement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	accountA := primitive.NewObjectID()
	accountB := primitive.NewObjectID()
	f.seedTreasury(t, "COIN", 1000)
	f.setRaffleEntryFee(t, 0)

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "r", AssetKind: "COIN", PotAmount: 101,
	})
	require.NoError(t, err)

	require.NoError(t, f.raffles.IssueTickets(ctx, accountA, 1))
	require.NoError(t, f.raffles.IssueTickets(ctx, accountB, 1))
	_, err = f.raffles.Enter(ctx, accountA, raffle.ID, 1)
	require.NoError(t, err)
	_, err = f.raffles.Enter(ctx, accountB, raffle.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.raffles.SetActive(ctx, raffle.ID, false))

	// Both draws land on the first participant: with replacement the same
	// account wins both shares
	f.draws.PushUint64(0, 0)
	winners, err := f.raffles.PickWinners(ctx, raffle.ID, 2)
	require.NoError(t, err)
	require.Len(t, winners, 2)

	assert.Equal(t, accountA, winners[0].AccountID)
	assert.Equal(t, accountA, winners[1].AccountID)
	assert.Equal(t, int64(100), f.walletBalance(t, accountA, "COIN"))
	assert.Equal(t, int64(0), f.walletBalance(t, accountB, "COIN"))

	// Integer-division dust stays in the escrow; the raffle survives
	resolved, err := f.raffles.Get(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resolved.PotAmount)
	assert.Equal(t, models.RaffleStatusClosed, resolved.Status)
	assert.Equal(t, 1, resolved.Resolutions)
	assert.Len(t, resolved.Participants, 2, "coin resolutions keep the multiset")

	// The drained pot cannot fund another resolution
	_, err = f.raffles.PickWinners(ctx, raffle.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestPickWinnersUniqueArchivesAndRetires(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	accountA := primitive.NewObjectID()
	accountB := primitive.NewObjectID()
	f.setRaffleEntryFee(t, 0)
	f.addInventory(t, "prize-9")

	raffle, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind:  models.RaffleKindUnique,
		Title: "drop",
	})
	require.NoError(t, err)

	require.NoError(t, f.raffles.IssueTickets(ctx, accountA, 2))
	require.NoError(t, f.raffles.IssueTickets(ctx, accountB, 1))
	_, err = f.raffles.Enter(ctx, accountA, raffle.ID, 2)
	require.NoError(t, err)
	_, err = f.raffles.Enter(ctx, accountB, raffle.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.raffles.SetActive(ctx, raffle.ID, false))

	f.draws.PushUint64(0) // participants[0] is accountA
	winners, err := f.raffles.PickWinners(ctx, raffle.ID, 1)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, accountA, winners[0].AccountID)
	assert.Equal(t, "prize-9", winners[0].PrizeRef)

	// Prize moved through custody and out of the inventory
	assert.Len(t, f.custody.Transfers, 1)
	items, err := f.inventory.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The consumed multiset is archived under the first sequence number
	archives, err := f.raffles.Archives(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, int64(1), archives[0].Sequence)
	assert.Len(t, archives[0].Participants, 3)
	assert.Equal(t, []primitive.ObjectID{accountA}, archives[0].WinnerIDs)

	// The raffle is retired for good
	resolved, err := f.raffles.Get(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleStatusResolved, resolved.Status)
	assert.False(t, resolved.Active)
	assert.Empty(t, resolved.Participants)
	assert.Zero(t, resolved.EntryCount)

	_, err = f.raffles.Enter(ctx, accountB, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleResolved)
	_, err = f.raffles.PickWinners(ctx, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleResolved)
	err = f.raffles.SetActive(ctx, raffle.ID, true)
	assert.ErrorIs(t, err, ErrRaffleResolved)
}

// An account holding 90 of 100 multiset entries must win close to 90% of
// a long resolution sequence.
func TestPickWinnersTicketWeighting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	accountA := primitive.NewObjectID()
	accountB := primitive.NewObjectID()

	participants := make([]primitive.ObjectID, 0, 100)
	for i := 0; i < 90; i++ {
		participants = append(participants, accountA)
	}
	for i := 0; i < 10; i++ {
		participants = append(participants, accountB)
	}
	raffle := &models.Raffle{
		Kind:         models.RaffleKindCoin,
		Title:        "weighted",
		AssetKind:    "COIN",
		PotAmount:    10000,
		Participants: participants,
		EntryCount:   len(participants),
		Active:       false,
		Status:       models.RaffleStatusClosed,
	}
	require.NoError(t, f.raffleRepo.Create(ctx, raffle))

	seeded := NewRaffleService(f.raffleRepo, f.winnerRepo, f.archiveRepo, f.ticketRepo,
		f.walletRepo, f.inventoryRepo, f.blacklistRepo, f.settingsRepo, f.treasury,
		f.custody, NewEventService(f.eventRepo), rng.NewSeededSource(42))

	winners, err := seeded.PickWinners(ctx, raffle.ID, 1000)
	require.NoError(t, err)
	require.Len(t, winners, 1000)

	var aWins int
	for _, w := range winners {
		if w.AccountID == accountA {
			aWins++
		}
	}
	assert.InDelta(t, 900, aWins, 50, "holding 90 of 100 entries should win about 900 of 1000 draws")
	assert.Equal(t, int64(10*aWins), f.walletBalance(t, accountA, "COIN"))
}

func TestTicketBalanceForUnknownAccountIsZero(t *testing.T) {
	f := newFixture()
	account := primitive.NewObjectID()

	balance, err := f.raffles.TicketBalance(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, account, balance.AccountID)
	assert.Zero(t, balance.Tickets)
}

func TestIssueTicketsRejectsNonPositive(t *testing.T) {
	f := newFixture()
	account := primitive.NewObjectID()

	err := f.raffles.IssueTickets(context.Background(), account, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRaffleListFiltersByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedTreasury(t, "COIN", 1000)

	open, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "open", AssetKind: "COIN", PotAmount: 100,
	})
	require.NoError(t, err)
	closed, err := f.raffles.Create(ctx, &models.CreateRaffleRequest{
		Kind: models.RaffleKindCoin, Title: "closed", AssetKind: "COIN", PotAmount: 100,
	})
	require.NoError(t, err)
	require.NoError(t, f.raffles.SetActive(ctx, closed.ID, false))

	openOnly, err := f.raffles.List(ctx, models.RaffleStatusOpen, 1, 10)
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)

	all, err := f.raffles.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
