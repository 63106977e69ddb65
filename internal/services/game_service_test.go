package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinforge/arcade-backend/internal/models"
)

// diceVector spreads stake legs over the given sums (2..12).
func diceVector(legs map[int64]int64) []int64 {
	vector := make([]int64, 11)
	for sum, amount := range legs {
		vector[sum-2] = amount
	}
	return vector
}

func TestPlayDiceWinScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 1000)
	f.draws.PushInts(2, 3) // dice land 3 and 4: sum 7

	outcome, err := f.games.Play(ctx, account, models.GameDice, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     1000,
		BetVector: diceVector(map[int64]int64{7: 1000}),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlayStatusWon, outcome.Status)
	assert.Equal(t, []int64{3, 4}, outcome.DrawDetail)
	assert.Equal(t, int64(2000), outcome.AmountWon)

	// Fee moved wallet → treasury; the win accrued in the ledger only
	assert.Equal(t, int64(0), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(1000), f.poolBalance(t, "COIN"))
	assert.Equal(t, int64(2000), f.ledgerOf(t, account).Balances["COIN"])
}

func TestPlayDiceLossKeepsFloor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 1000)
	f.draws.PushInts(2, 3) // sum 7, but the bet is on sum 2

	outcome, err := f.games.Play(ctx, account, models.GameDice, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     1000,
		BetVector: diceVector(map[int64]int64{2: 1000}),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlayStatusLost, outcome.Status)
	assert.Equal(t, int64(1), outcome.AmountWon)
	assert.Equal(t, int64(100), outcome.SecondaryAwarded) // 1000 / exchange rate 10

	ledger := f.ledgerOf(t, account)
	assert.Equal(t, int64(1), ledger.Balances["COIN"])
	assert.Equal(t, int64(100), ledger.SecondaryCoins)
}

func TestPlayDiceRejectsMalformedVectors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 1000)

	tests := []struct {
		name   string
		vector []int64
	}{
		{"wrong length", []int64{100}},
		{"legs do not sum to stake", diceVector(map[int64]int64{7: 50})},
		{"too many legs", diceVector(map[int64]int64{2: 20, 3: 20, 4: 20, 5: 20, 6: 20})},
		{"negative leg", func() []int64 {
			v := diceVector(map[int64]int64{7: 150})
			v[0] = -50
			return v
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.games.Play(ctx, account, models.GameDice, &models.PlayRequest{
				AssetKind: "COIN",
				Stake:     100,
				BetVector: tt.vector,
			})
			assert.Error(t, err)
		})
	}

	// Nothing moved across all the rejected plays
	assert.Equal(t, int64(1000), f.walletBalance(t, account, "COIN"))
}

func TestPlayWheelNFTTier(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 100)
	f.addInventory(t, "nft-1")
	f.draws.PushInts(150) // inside the collectible tier [0, 200)

	outcome, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     100,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlayStatusWon, outcome.Status)
	assert.Equal(t, models.RewardNFT, outcome.Reward)
	assert.Equal(t, "nft-1", outcome.NFTRef)
	assert.Equal(t, []string{"nft-1"}, f.ledgerOf(t, account).NFTVouchers)

	available, err := f.inventory.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), available, "won item must be reserved")
}

func TestPlayWheelNFTTierEmptyInventoryLeavesNoTrace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 100)
	f.draws.PushInts(150)

	_, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     100,
	})
	require.ErrorIs(t, err, ErrInsufficientInventory)

	// The failed play must leave zero net state change
	assert.Equal(t, int64(100), f.walletBalance(t, account, "COIN"))
	_, err = f.treasuryRepo.FindByKind(ctx, "COIN")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments, "no fee may reach the treasury")
	_, err = f.ledgerRepo.FindByAccount(ctx, account)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments, "no ledger may be created")

	plays, err := f.games.History(ctx, account, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, plays)
}

func TestPlayWheelTicketTier(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 100)
	f.draws.PushInts(9500) // ticket tier [9100, 9700): 3 tickets

	outcome, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     100,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RewardTickets, outcome.Reward)
	assert.Equal(t, int64(3), outcome.TicketsAwarded)
	assert.Equal(t, int64(3), f.ledgerOf(t, account).RaffleTickets)
}

func TestPlayCoinFlipMiddleBandAlwaysLoses(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 1000)
	f.draws.PushInts(47) // draw 48: inside the 10% middle band (45, 55]

	outcome, err := f.games.Play(ctx, account, models.GameCoinFlip, &models.PlayRequest{
		AssetKind:    "COIN",
		Stake:        500,
		SelectedFace: models.CoinFaceHeads,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlayStatusLost, outcome.Status)
	assert.Equal(t, int64(48), outcome.Draw)
	assert.Equal(t, models.CoinFaceTails, outcome.LandedFace)
	assert.Equal(t, int64(0), outcome.AmountWon)
	assert.Equal(t, int64(50), outcome.SecondaryAwarded) // 500 / exchange rate 10
}

func TestPlayCoinFlipWinPaysEvenMoney(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 1000)
	f.draws.PushInts(10) // draw 11: in the HEADS band [1, 45]

	outcome, err := f.games.Play(ctx, account, models.GameCoinFlip, &models.PlayRequest{
		AssetKind:    "COIN",
		Stake:        500,
		SelectedFace: models.CoinFaceHeads,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlayStatusWon, outcome.Status)
	assert.Equal(t, models.CoinFaceHeads, outcome.LandedFace)
	assert.Equal(t, int64(1000), outcome.AmountWon)
}

func TestPlayCoinFlipRejectsUnknownFace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 100)

	_, err := f.games.Play(ctx, account, models.GameCoinFlip, &models.PlayRequest{
		AssetKind:    "COIN",
		Stake:        100,
		SelectedFace: "EDGE",
	})
	assert.ErrorIs(t, err, ErrInvalidCoinFace)
}

func TestPlayPlinkoSettlesEveryBall(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 200)

	// 8 pin rows: all-left lands slot 0, all-right slot 8, both pay 5x
	f.draws.PushBytes(make([]byte, 8))
	f.draws.PushBytes([]byte{1, 1, 1, 1, 1, 1, 1, 1})

	outcome, err := f.games.Play(ctx, account, models.GamePlinko, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     100,
		Balls:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 8}, outcome.DrawDetail)
	assert.Equal(t, int64(1000), outcome.AmountWon) // 2 balls x 100 x 5.00

	// The fee is stake per ball
	assert.Equal(t, int64(0), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(200), f.poolBalance(t, "COIN"))
}

func TestPlayPlinkoFeeOverflowRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()

	config := &models.GameConfig{
		Game:      models.GamePlinko,
		AssetKind: "COIN",
		Active:    true,
		MinStake:  1,
		MaxStake:  math.MaxInt64,
	}
	_, err := f.configs.Upsert(ctx, config)
	require.NoError(t, err)

	_, err = f.games.Play(ctx, account, models.GamePlinko, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     math.MaxInt64 / 9,
		Balls:     10,
	})
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestPlayNFTLotteryTwoTiers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 200)
	f.addInventory(t, "lot-1")

	// Winning percent 5 wins on draws below 500
	f.draws.PushInts(499)
	outcome, err := f.games.Play(ctx, account, models.GameNFTLottery, &models.PlayRequest{
		AssetKind:      "COIN",
		Stake:          100,
		WinningPercent: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RewardNFT, outcome.Reward)
	assert.Equal(t, "lot-1", outcome.NFTRef)

	// Draw exactly at the bound falls into the losing tier
	f.draws.PushInts(500)
	outcome, err = f.games.Play(ctx, account, models.GameNFTLottery, &models.PlayRequest{
		AssetKind:      "COIN",
		Stake:          100,
		WinningPercent: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlayStatusLost, outcome.Status)
	assert.Equal(t, int64(0), outcome.AmountWon)
	assert.Equal(t, int64(10), outcome.SecondaryAwarded)
}

func TestPlayNFTLotteryRejectsOutOfRangePercent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 100)

	for _, percent := range []int{0, 6, -1} {
		_, err := f.games.Play(ctx, account, models.GameNFTLottery, &models.PlayRequest{
			AssetKind:      "COIN",
			Stake:          100,
			WinningPercent: percent,
		})
		assert.Error(t, err, "percent %d", percent)
	}
}

func TestPlayGates(t *testing.T) {
	ctx := context.Background()

	t.Run("maintenance mode", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		f.seedGames(t, "COIN")

		settings, err := f.settingsRepo.Get(ctx)
		require.NoError(t, err)
		settings.Maintenance = true
		require.NoError(t, f.settingsRepo.Update(ctx, settings))

		_, err = f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 100})
		assert.ErrorIs(t, err, ErrMaintenance)
	})

	t.Run("blacklisted account", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		f.seedGames(t, "COIN")
		require.NoError(t, f.settings.Blacklist(ctx, account, "abuse", "admin"))

		_, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 100})
		assert.ErrorIs(t, err, ErrBlacklisted)
	})

	t.Run("unconfigured game", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()

		_, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 100})
		assert.ErrorIs(t, err, ErrGameNotConfigured)
	})

	t.Run("deactivated game", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		f.seedGames(t, "COIN")
		require.NoError(t, f.configs.SetActive(ctx, models.GameWheel, "COIN", false))

		_, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 100})
		assert.ErrorIs(t, err, ErrGameInactive)
	})

	t.Run("deactivated treasury pool", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		f.seedGames(t, "COIN")
		f.seedTreasury(t, "COIN", 100)
		_, err := f.treasury.ToggleActive(ctx, "COIN")
		require.NoError(t, err)

		_, err = f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 100})
		assert.ErrorIs(t, err, ErrPoolInactive)
	})

	t.Run("stake out of bounds", func(t *testing.T) {
		f := newFixture()
		account := primitive.NewObjectID()
		config := &models.GameConfig{Game: models.GameWheel, AssetKind: "COIN", Active: true, MinStake: 10, MaxStake: 100}
		_, err := f.configs.Upsert(ctx, config)
		require.NoError(t, err)

		_, err = f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 5})
		assert.ErrorIs(t, err, ErrStakeOutOfBounds)
		_, err = f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{AssetKind: "COIN", Stake: 500})
		assert.ErrorIs(t, err, ErrStakeOutOfBounds)
	})
}

func TestPlayInsufficientFunds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.draws.PushInts(5000)

	_, err := f.games.Play(ctx, account, models.GameWheel, &models.PlayRequest{
		AssetKind: "COIN",
		Stake:     100,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = f.treasuryRepo.FindByKind(ctx, "COIN")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestPlayVouchersConsumedFromTheFront(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")

	first, err := f.ledger.GrantVoucher(ctx, account, models.GameCoinFlip, "COIN", 100)
	require.NoError(t, err)
	second, err := f.ledger.GrantVoucher(ctx, account, models.GameCoinFlip, "COIN", 100)
	require.NoError(t, err)

	f.draws.PushInts(47) // middle band: a loss, so no asset credit either
	outcome, err := f.games.Play(ctx, account, models.GameCoinFlip, &models.PlayRequest{
		AssetKind:    "COIN",
		Stake:        100,
		SelectedFace: models.CoinFaceHeads,
		UseVoucher:   true,
	})
	require.NoError(t, err)
	assert.True(t, outcome.VoucherUsed)

	// No wallet was ever funded and no fee reached the treasury
	assert.Equal(t, int64(0), f.walletBalance(t, account, "COIN"))
	_, err = f.treasuryRepo.FindByKind(ctx, "COIN")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	ledger := f.ledgerOf(t, account)
	require.Len(t, ledger.FreePlayVouchers, 1)
	assert.Equal(t, second.Ref, ledger.FreePlayVouchers[0].Ref, "the earlier grant must be consumed first")
	assert.NotEqual(t, first.Ref, ledger.FreePlayVouchers[0].Ref)
}

func TestPlayVoucherMismatchFallsThroughToPaidPlay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 100)

	// Voucher stake does not match the play fee
	_, err := f.ledger.GrantVoucher(ctx, account, models.GameCoinFlip, "COIN", 50)
	require.NoError(t, err)

	f.draws.PushInts(47)
	outcome, err := f.games.Play(ctx, account, models.GameCoinFlip, &models.PlayRequest{
		AssetKind:    "COIN",
		Stake:        100,
		SelectedFace: models.CoinFaceHeads,
		UseVoucher:   true,
	})
	require.NoError(t, err)

	assert.False(t, outcome.VoucherUsed)
	assert.Equal(t, int64(0), f.walletBalance(t, account, "COIN"))
	assert.Len(t, f.ledgerOf(t, account).FreePlayVouchers, 1, "mismatched voucher must survive")
}

func TestPlayMultipleRunsIndependentIterations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 300)
	f.draws.PushInts(10, 47, 60) // win, middle-band loss, TAILS loss

	outcomes, err := f.games.PlayMultiple(ctx, account, models.GameCoinFlip, &models.PlayMultipleRequest{
		PlayRequest: models.PlayRequest{AssetKind: "COIN", Stake: 100, SelectedFace: models.CoinFaceHeads},
		Count:       3,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, models.PlayStatusWon, outcomes[0].Status)
	assert.Equal(t, models.PlayStatusLost, outcomes[1].Status)
	assert.Equal(t, models.PlayStatusLost, outcomes[2].Status)

	assert.Equal(t, int64(0), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(300), f.poolBalance(t, "COIN"))

	plays, err := f.games.History(ctx, account, 1, 10)
	require.NoError(t, err)
	assert.Len(t, plays, 3)
}

func TestPlayMultipleStopsAtFirstFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 250) // covers two fees, fails on the third
	f.draws.PushInts(10, 10, 10, 10, 10)

	outcomes, err := f.games.PlayMultiple(ctx, account, models.GameCoinFlip, &models.PlayMultipleRequest{
		PlayRequest: models.PlayRequest{AssetKind: "COIN", Stake: 100, SelectedFace: models.CoinFaceHeads},
		Count:       5,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "iteration 3 of 5")
	assert.Len(t, outcomes, 2, "completed iterations stay settled")

	assert.Equal(t, int64(50), f.walletBalance(t, account, "COIN"))
	assert.Equal(t, int64(200), f.poolBalance(t, "COIN"))
}

func TestPlayMultipleCountBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")

	_, err := f.games.PlayMultiple(ctx, account, models.GameCoinFlip, &models.PlayMultipleRequest{
		PlayRequest: models.PlayRequest{AssetKind: "COIN", Stake: 100, SelectedFace: models.CoinFaceHeads},
		Count:       0,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.games.PlayMultiple(ctx, account, models.GameCoinFlip, &models.PlayMultipleRequest{
		PlayRequest: models.PlayRequest{AssetKind: "COIN", Stake: 100, SelectedFace: models.CoinFaceHeads},
		Count:       MaxPlayIterations + 1,
	})
	assert.ErrorIs(t, err, ErrPlayCountExceeded)
}

func TestPlayHistoryNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	account := primitive.NewObjectID()
	f.seedGames(t, "COIN")
	f.fund(t, account, "COIN", 300)
	f.draws.PushInts(10, 47)

	for _, stake := range []int64{100, 200} {
		_, err := f.games.Play(ctx, account, models.GameCoinFlip, &models.PlayRequest{
			AssetKind:    "COIN",
			Stake:        stake,
			SelectedFace: models.CoinFaceHeads,
		})
		require.NoError(t, err)
	}

	plays, err := f.games.History(ctx, account, 1, 10)
	require.NoError(t, err)
	require.Len(t, plays, 2)
	assert.Equal(t, int64(200), plays[0].Stake)
	assert.Equal(t, int64(100), plays[1].Stake)
}
