package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context, page, limit int) ([]*models.Account, error)
	Count(ctx context.Context) (int64, error)
}

// TreasuryRepository defines the interface for treasury pool operations.
// Credit and Debit apply guarded atomic adjustments; the service layer is
// responsible for inactive/insufficient checks and serialization.
type TreasuryRepository interface {
	FindByKind(ctx context.Context, kind string) (*models.TreasuryPool, error)
	FindAll(ctx context.Context) ([]*models.TreasuryPool, error)
	Create(ctx context.Context, pool *models.TreasuryPool) error
	// Credit adds amount to the pool balance and lifetime deposit counter.
	Credit(ctx context.Context, kind string, amount int64) error
	// Debit subtracts amount, guarded so the balance never goes negative.
	Debit(ctx context.Context, kind string, amount int64) error
	SetActive(ctx context.Context, kind string, active bool) error
}

// GameConfigRepository defines the interface for game configuration
// operations. Configs are written by administrators and read as snapshots
// by the settlement engine.
type GameConfigRepository interface {
	FindByGameAndKind(ctx context.Context, game models.GameKind, assetKind string) (*models.GameConfig, error)
	FindAll(ctx context.Context) ([]*models.GameConfig, error)
	Upsert(ctx context.Context, config *models.GameConfig) error
	SetActive(ctx context.Context, game models.GameKind, assetKind string, active bool) error
	Delete(ctx context.Context, game models.GameKind, assetKind string) error
}

// LedgerRepository defines the interface for reward ledger operations.
// Credits and debits are single atomic document updates: a settlement's
// contribution is never half-visible across reward kinds.
type LedgerRepository interface {
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.RewardLedger, error)
	// ApplyCredit additively applies a settlement's rewards, creating the
	// ledger document on a player's first win.
	ApplyCredit(ctx context.Context, accountID primitive.ObjectID, credit *models.LedgerCredit) error
	// ApplyDebit removes claimed value. Amounts must not exceed the
	// balances read under the claim serialization.
	ApplyDebit(ctx context.Context, accountID primitive.ObjectID, debit *models.LedgerDebit) error
	// ConsumeVoucher removes one free-play voucher by its ref. Returns
	// mongo.ErrNoDocuments when the voucher is already gone.
	ConsumeVoucher(ctx context.Context, accountID primitive.ObjectID, ref string) error
	FindAll(ctx context.Context, page, limit int) ([]*models.RewardLedger, error)
}

// WalletRepository defines the interface for spendable wallet operations.
// Credit and Debit are atomic per-kind adjustments.
type WalletRepository interface {
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.Wallet, error)
	Create(ctx context.Context, wallet *models.Wallet) error
	// Credit adds amount of one asset kind, creating the wallet when missing.
	Credit(ctx context.Context, accountID primitive.ObjectID, kind string, amount int64) error
	// Debit subtracts, guarded so the balance never goes negative; an
	// insufficient balance surfaces as mongo.ErrNoDocuments.
	Debit(ctx context.Context, accountID primitive.ObjectID, kind string, amount int64) error
}

// PlayRepository defines the interface for settled play audit records
type PlayRepository interface {
	Create(ctx context.Context, record *models.PlayRecord) error
	FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.PlayRecord, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.PlayRecord, error)
	Count(ctx context.Context) (int64, error)
}

// RaffleRepository defines the interface for raffle data operations
type RaffleRepository interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	FindByStatus(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error)
	// AppendParticipants atomically appends count copies of the account to
	// the participant multiset, one per ticket spent.
	AppendParticipants(ctx context.Context, raffleID, accountID primitive.ObjectID, count int) error
	SetActive(ctx context.Context, raffleID primitive.ObjectID, active bool) error
	// Update persists resolution bookkeeping; callers serialize per raffle.
	Update(ctx context.Context, raffle *models.Raffle) error
}

// RaffleWinnerRepository defines the interface for raffle winner records
type RaffleWinnerRepository interface {
	CreateMany(ctx context.Context, winners []*models.RaffleWinner) error
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleWinner, error)
	FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.RaffleWinner, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.RaffleWinner, error)
}

// RaffleArchiveRepository defines the interface for the append-only archive
// of consumed participant multisets.
type RaffleArchiveRepository interface {
	Create(ctx context.Context, archive *models.RaffleArchive) error
	NextSequence(ctx context.Context) (int64, error)
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (*models.RaffleArchive, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.RaffleArchive, error)
}

// TicketBalanceRepository defines the interface for spendable raffle
// ticket balances.
type TicketBalanceRepository interface {
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.TicketBalance, error)
	// Adjust adds delta (may be negative) to the balance, creating the
	// record when missing.
	Adjust(ctx context.Context, accountID primitive.ObjectID, delta int64) error
}

// InventoryRepository defines the interface for platform-held collectible
// voucher references.
type InventoryRepository interface {
	Add(ctx context.Context, items []*models.NFTItem) error
	// PopAvailable atomically reserves one unreserved item for an account.
	// Returns mongo.ErrNoDocuments when the inventory is exhausted.
	PopAvailable(ctx context.Context, reservedBy primitive.ObjectID) (*models.NFTItem, error)
	// Release puts a reserved item back into circulation.
	Release(ctx context.Context, ref string) error
	// Remove deletes an item once custody has transferred it out.
	Remove(ctx context.Context, ref string) error
	CountAvailable(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.NFTItem, error)
}

// BlacklistRepository defines the interface for blacklist operations
type BlacklistRepository interface {
	IsBlacklisted(ctx context.Context, accountID primitive.ObjectID) (bool, error)
	Add(ctx context.Context, entry *models.BlacklistEntry) error
	Remove(ctx context.Context, accountID primitive.ObjectID) error
	FindAll(ctx context.Context, page, limit int) ([]*models.BlacklistEntry, error)
}

// ClaimRepository defines the interface for claim receipts
type ClaimRepository interface {
	Create(ctx context.Context, receipt *models.ClaimReceipt) error
	FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.ClaimReceipt, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.ClaimReceipt, error)
}

// PlatformSettingsRepository defines the interface for the platform
// settings singleton.
type PlatformSettingsRepository interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Update(ctx context.Context, settings *models.PlatformSettings) error
}
