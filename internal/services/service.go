package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
)

// TreasuryService defines the interface for treasury pool operations
type TreasuryService interface {
	// Deposit credits a pool unconditionally, creating it on first use
	Deposit(ctx context.Context, kind string, amount int64) error

	// Extract debits an active pool with a sufficient balance
	Extract(ctx context.Context, kind string, amount int64) error

	// ToggleActive flips a pool's active flag without touching the balance
	ToggleActive(ctx context.Context, kind string) (*models.TreasuryPool, error)

	// Pool returns one pool; mongo.ErrNoDocuments when the kind has never
	// seen a deposit.
	Pool(ctx context.Context, kind string) (*models.TreasuryPool, error)

	// Status snapshots every pool with its lifetime counters
	Status(ctx context.Context) (*models.TreasuryStatus, error)
}

// GameConfigService defines the interface for administrator game
// configuration. Tier tables and multiplier vectors are validated here,
// at write time, never at play time.
type GameConfigService interface {
	Upsert(ctx context.Context, config *models.GameConfig) (*models.GameConfig, error)
	Get(ctx context.Context, game models.GameKind, assetKind string) (*models.GameConfig, error)
	List(ctx context.Context) ([]*models.GameConfig, error)
	SetActive(ctx context.Context, game models.GameKind, assetKind string, active bool) error
	Delete(ctx context.Context, game models.GameKind, assetKind string) error

	// SeedDefaults writes the shipped configuration for every game on one
	// asset kind, skipping games already configured.
	SeedDefaults(ctx context.Context, assetKind string) error
}

// GameService defines the interface for the settlement engine
type GameService interface {
	// Play settles a single play: fee collection, draw, tier resolution,
	// ledger credit, atomically per asset kind.
	Play(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, req *models.PlayRequest) (*models.PlayOutcome, error)

	// PlayMultiple repeats the single-play operation count times strictly
	// sequentially. Outcomes of completed iterations are returned even
	// when a later iteration fails.
	PlayMultiple(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, req *models.PlayMultipleRequest) ([]*models.PlayOutcome, error)

	// History pages through an account's settled plays, newest first
	History(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.PlayRecord, error)

	// AllHistory pages through every settled play, newest first
	AllHistory(ctx context.Context, page, limit int) ([]*models.PlayRecord, error)
}

// LedgerService defines the interface for the reward ledger and the
// claim protocol
type LedgerService interface {
	// Ledger returns an account's reward ledger, empty when the account
	// has never been credited.
	Ledger(ctx context.Context, accountID primitive.ObjectID) (*models.RewardLedger, error)

	// Claim withdraws the selected balances plus the voucher, ticket and
	// secondary sweeps. Claiming with nothing accrued is a successful
	// no-op.
	Claim(ctx context.Context, accountID primitive.ObjectID, req *models.ClaimRequest) (*models.ClaimReceipt, error)

	// Receipts pages through an account's claim receipts, newest first
	Receipts(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.ClaimReceipt, error)

	// GrantVoucher credits a free-play voucher to an account's ledger
	GrantVoucher(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, assetKind string, stake int64) (*models.FreePlayVoucher, error)

	// Wallet returns an account's spendable balances
	Wallet(ctx context.Context, accountID primitive.ObjectID) (*models.Wallet, error)

	// DepositToWallet credits spendable funds to an account
	DepositToWallet(ctx context.Context, accountID primitive.ObjectID, kind string, amount int64) error
}

// TicketIssuer is the raffle subsystem's ticket issuance interface; the
// claim protocol forwards swept ledger tickets through it.
type TicketIssuer interface {
	IssueTickets(ctx context.Context, accountID primitive.ObjectID, tickets int64) error
}

// RaffleService defines the interface for the raffle subsystem
type RaffleService interface {
	// Create opens a raffle. COIN raffles escrow their pot out of the
	// treasury at creation; UNIQUE raffles reserve a collectible prize,
	// drawn from the inventory when the request names none.
	Create(ctx context.Context, req *models.CreateRaffleRequest) (*models.Raffle, error)

	// Enter spends tickets on entries, charging the anti-spam fee and
	// appending the account once per ticket to the participant multiset.
	Enter(ctx context.Context, accountID, raffleID primitive.ObjectID, tickets int64) (*models.Raffle, error)

	// SetActive opens or closes a raffle for entries
	SetActive(ctx context.Context, raffleID primitive.ObjectID, active bool) error

	// PickWinners resolves a deactivated raffle with at least one
	// participant. COIN raffles split the pot over numWinners draws with
	// replacement; UNIQUE raffles draw one winner, transfer the prize,
	// archive the participants and retire.
	PickWinners(ctx context.Context, raffleID primitive.ObjectID, numWinners int) ([]*models.RaffleWinner, error)

	Get(ctx context.Context, raffleID primitive.ObjectID) (*models.Raffle, error)
	List(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error)
	Winners(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleWinner, error)
	Archives(ctx context.Context, page, limit int) ([]*models.RaffleArchive, error)

	// TicketBalance returns an account's spendable ticket balance
	TicketBalance(ctx context.Context, accountID primitive.ObjectID) (*models.TicketBalance, error)

	// IssueTickets moves claimed ledger tickets into the spendable
	// balance; called by the claim protocol's ticket sweep.
	IssueTickets(ctx context.Context, accountID primitive.ObjectID, tickets int64) error
}

// AuthService defines the interface for account registration and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error)

	// Login verifies credentials and returns a signed token with the
	// account's role claim.
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.Account, error)

	GetAccount(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	ListAccounts(ctx context.Context, page, limit int) ([]*models.Account, error)
}

// SettingsService defines the interface for platform-wide switches and
// the blacklist
type SettingsService interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Update(ctx context.Context, req *models.UpdateSettingsRequest, updatedBy string) (*models.PlatformSettings, error)

	Blacklist(ctx context.Context, accountID primitive.ObjectID, reason, bannedBy string) error
	Unblacklist(ctx context.Context, accountID primitive.ObjectID) error
	ListBlacklist(ctx context.Context, page, limit int) ([]*models.BlacklistEntry, error)
}

// InventoryService defines the interface for the platform collectible
// inventory
type InventoryService interface {
	// Add registers voucher references, skipping blanks and duplicates
	Add(ctx context.Context, refs []string, collection, addedBy string) (int, error)

	List(ctx context.Context, page, limit int) ([]*models.NFTItem, error)
	CountAvailable(ctx context.Context) (int64, error)
}
