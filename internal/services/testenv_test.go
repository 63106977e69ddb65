package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories/memory"
	"github.com/spinforge/arcade-backend/pkg/custody"
	"github.com/spinforge/arcade-backend/pkg/rng"
)

// fixture wires every service against the in-memory repositories and a
// scripted draw source. Tests push the draws they expect the operation
// under test to consume.
type fixture struct {
	treasuryRepo  *memory.TreasuryRepository
	configRepo    *memory.GameConfigRepository
	ledgerRepo    *memory.LedgerRepository
	walletRepo    *memory.WalletRepository
	playRepo      *memory.PlayRepository
	claimRepo     *memory.ClaimRepository
	inventoryRepo *memory.InventoryRepository
	blacklistRepo *memory.BlacklistRepository
	settingsRepo  *memory.PlatformSettingsRepository
	eventRepo     *memory.EventRepository
	raffleRepo    *memory.RaffleRepository
	winnerRepo    *memory.RaffleWinnerRepository
	archiveRepo   *memory.RaffleArchiveRepository
	ticketRepo    *memory.TicketBalanceRepository
	custody       *custody.MockGateway
	draws         *rng.ScriptedSource

	treasury  *TreasuryServiceImpl
	configs   *GameConfigServiceImpl
	games     *GameServiceImpl
	ledger    *LedgerServiceImpl
	raffles   *RaffleServiceImpl
	settings  *SettingsServiceImpl
	inventory *InventoryServiceImpl
}

func newFixture() *fixture {
	f := &fixture{
		treasuryRepo:  memory.NewTreasuryRepository(),
		configRepo:    memory.NewGameConfigRepository(),
		ledgerRepo:    memory.NewLedgerRepository(),
		walletRepo:    memory.NewWalletRepository(),
		playRepo:      memory.NewPlayRepository(),
		claimRepo:     memory.NewClaimRepository(),
		inventoryRepo: memory.NewInventoryRepository(),
		blacklistRepo: memory.NewBlacklistRepository(),
		settingsRepo:  memory.NewPlatformSettingsRepository(),
		eventRepo:     memory.NewEventRepository(),
		raffleRepo:    memory.NewRaffleRepository(),
		winnerRepo:    memory.NewRaffleWinnerRepository(),
		archiveRepo:   memory.NewRaffleArchiveRepository(),
		ticketRepo:    memory.NewTicketBalanceRepository(),
		custody:       custody.NewMockGateway(),
		draws:         rng.NewScriptedSource(),
	}

	events := NewEventService(f.eventRepo)
	f.treasury = NewTreasuryService(f.treasuryRepo, events)
	f.configs = NewGameConfigService(f.configRepo)
	f.games = NewGameService(f.configRepo, f.ledgerRepo, f.walletRepo, f.playRepo,
		f.inventoryRepo, f.blacklistRepo, f.settingsRepo, f.treasury, events, f.draws)
	f.raffles = NewRaffleService(f.raffleRepo, f.winnerRepo, f.archiveRepo, f.ticketRepo,
		f.walletRepo, f.inventoryRepo, f.blacklistRepo, f.settingsRepo, f.treasury,
		f.custody, events, f.draws)
	f.ledger = NewLedgerService(f.ledgerRepo, f.walletRepo, f.claimRepo, f.inventoryRepo,
		f.treasury, f.raffles, f.custody, events)
	f.settings = NewSettingsService(f.settingsRepo, f.blacklistRepo, events)
	f.inventory = NewInventoryService(f.inventoryRepo)
	return f
}

func (f *fixture) seedTreasury(t *testing.T, kind string, amount int64) {
	t.Helper()
	require.NoError(t, f.treasury.Deposit(context.Background(), kind, amount))
}

func (f *fixture) seedGames(t *testing.T, kind string) {
	t.Helper()
	require.NoError(t, f.configs.SeedDefaults(context.Background(), kind))
}

func (f *fixture) fund(t *testing.T, accountID primitive.ObjectID, kind string, amount int64) {
	t.Helper()
	require.NoError(t, f.walletRepo.Credit(context.Background(), accountID, kind, amount))
}

func (f *fixture) poolBalance(t *testing.T, kind string) int64 {
	t.Helper()
	pool, err := f.treasuryRepo.FindByKind(context.Background(), kind)
	require.NoError(t, err)
	return pool.Balance
}

func (f *fixture) walletBalance(t *testing.T, accountID primitive.ObjectID, kind string) int64 {
	t.Helper()
	wallet, err := f.ledger.Wallet(context.Background(), accountID)
	require.NoError(t, err)
	return wallet.Balances[kind]
}

func (f *fixture) ledgerOf(t *testing.T, accountID primitive.ObjectID) *models.RewardLedger {
	t.Helper()
	ledger, err := f.ledger.Ledger(context.Background(), accountID)
	require.NoError(t, err)
	return ledger
}

func (f *fixture) addInventory(t *testing.T, refs ...string) {
	t.Helper()
	_, err := f.inventory.Add(context.Background(), refs, "test", "tester")
	require.NoError(t, err)
}

// setRaffleEntryFee rewrites the anti-spam entry fee without touching the
// other settings.
func (f *fixture) setRaffleEntryFee(t *testing.T, fee int64) {
	t.Helper()
	settings, err := f.settingsRepo.Get(context.Background())
	require.NoError(t, err)
	settings.RaffleEntryFee = fee
	require.NoError(t, f.settingsRepo.Update(context.Background(), settings))
}
