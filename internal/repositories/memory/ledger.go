package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository is an in-memory reward ledger store.
type LedgerRepository struct {
	mu      sync.RWMutex
	ledgers map[primitive.ObjectID]*models.RewardLedger
	order   []primitive.ObjectID
}

// NewLedgerRepository creates an empty in-memory ledger store.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{ledgers: make(map[primitive.ObjectID]*models.RewardLedger)}
}

func (r *LedgerRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID) (*models.RewardLedger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger, ok := r.ledgers[accountID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneLedger(ledger), nil
}

func (r *LedgerRepository) ApplyCredit(_ context.Context, accountID primitive.ObjectID, credit *models.LedgerCredit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger, ok := r.ledgers[accountID]
	if !ok {
		ledger = &models.RewardLedger{
			ID:        primitive.NewObjectID(),
			AccountID: accountID,
			Balances:  make(map[string]int64),
			CreatedAt: time.Now(),
		}
		r.ledgers[accountID] = ledger
		r.order = append(r.order, accountID)
	}

	for kind, amount := range credit.Amounts {
		ledger.Balances[kind] += amount
	}
	ledger.NFTVouchers = append(ledger.NFTVouchers, credit.NFTRefs...)
	ledger.RaffleTickets += credit.Tickets
	ledger.SecondaryCoins += credit.Secondary
	ledger.FreePlayVouchers = append(ledger.FreePlayVouchers, credit.Vouchers...)
	ledger.UpdatedAt = time.Now()
	return nil
}

func (r *LedgerRepository) ApplyDebit(_ context.Context, accountID primitive.ObjectID, debit *models.LedgerDebit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger, ok := r.ledgers[accountID]
	if !ok {
		return mongo.ErrNoDocuments
	}

	for kind, amount := range debit.Amounts {
		ledger.Balances[kind] -= amount
	}
	if len(debit.NFTRefs) > 0 {
		remove := make(map[string]bool, len(debit.NFTRefs))
		for _, ref := range debit.NFTRefs {
			remove[ref] = true
		}
		kept := ledger.NFTVouchers[:0]
		for _, ref := range ledger.NFTVouchers {
			if !remove[ref] {
				kept = append(kept, ref)
			}
		}
		ledger.NFTVouchers = kept
	}
	ledger.RaffleTickets -= debit.Tickets
	ledger.SecondaryCoins -= debit.Secondary
	ledger.UpdatedAt = time.Now()
	return nil
}

func (r *LedgerRepository) ConsumeVoucher(_ context.Context, accountID primitive.ObjectID, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger, ok := r.ledgers[accountID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i, voucher := range ledger.FreePlayVouchers {
		if voucher.Ref == ref {
			ledger.FreePlayVouchers = append(ledger.FreePlayVouchers[:i], ledger.FreePlayVouchers[i+1:]...)
			ledger.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *LedgerRepository) FindAll(_ context.Context, page, limit int) ([]*models.RewardLedger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RewardLedger, 0, len(r.order))
	for _, id := range r.order {
		if ledger, ok := r.ledgers[id]; ok {
			out = append(out, cloneLedger(ledger))
		}
	}
	return paginate(out, page, limit), nil
}

func cloneLedger(ledger *models.RewardLedger) *models.RewardLedger {
	clone := *ledger
	clone.Balances = make(map[string]int64, len(ledger.Balances))
	for k, v := range ledger.Balances {
		clone.Balances[k] = v
	}
	clone.NFTVouchers = append([]string(nil), ledger.NFTVouchers...)
	clone.FreePlayVouchers = append([]models.FreePlayVoucher(nil), ledger.FreePlayVouchers...)
	return &clone
}

var _ repositories.WalletRepository = (*WalletRepository)(nil)

// WalletRepository is an in-memory spendable wallet store.
type WalletRepository struct {
	mu      sync.RWMutex
	wallets map[primitive.ObjectID]*models.Wallet
}

// NewWalletRepository creates an empty in-memory wallet store.
func NewWalletRepository() *WalletRepository {
	return &WalletRepository{wallets: make(map[primitive.ObjectID]*models.Wallet)}
}

func (r *WalletRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, ok := r.wallets[accountID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneWallet(wallet), nil
}

func (r *WalletRepository) Create(_ context.Context, wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet.ID = primitive.NewObjectID()
	wallet.CreatedAt = time.Now()
	wallet.UpdatedAt = time.Now()
	if wallet.Balances == nil {
		wallet.Balances = make(map[string]int64)
	}

	r.wallets[wallet.AccountID] = cloneWallet(wallet)
	return nil
}

func (r *WalletRepository) Credit(_ context.Context, accountID primitive.ObjectID, kind string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[accountID]
	if !ok {
		wallet = &models.Wallet{
			ID:        primitive.NewObjectID(),
			AccountID: accountID,
			Balances:  make(map[string]int64),
			CreatedAt: time.Now(),
		}
		r.wallets[accountID] = wallet
	}
	wallet.Balances[kind] += amount
	wallet.UpdatedAt = time.Now()
	return nil
}

func (r *WalletRepository) Debit(_ context.Context, accountID primitive.ObjectID, kind string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[accountID]
	if !ok || wallet.Balances[kind] < amount {
		return mongo.ErrNoDocuments
	}
	wallet.Balances[kind] -= amount
	wallet.UpdatedAt = time.Now()
	return nil
}

func cloneWallet(wallet *models.Wallet) *models.Wallet {
	clone := *wallet
	clone.Balances = make(map[string]int64, len(wallet.Balances))
	for k, v := range wallet.Balances {
		clone.Balances[k] = v
	}
	return &clone
}

var _ repositories.PlayRepository = (*PlayRepository)(nil)

// PlayRepository is an in-memory settled play store.
type PlayRepository struct {
	mu    sync.RWMutex
	plays []*models.PlayRecord
}

// NewPlayRepository creates an empty in-memory play store.
func NewPlayRepository() *PlayRepository {
	return &PlayRepository{}
}

func (r *PlayRepository) Create(_ context.Context, record *models.PlayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()

	clone := *record
	clone.DrawDetail = append([]int64(nil), record.DrawDetail...)
	r.plays = append(r.plays, &clone)
	return nil
}

func (r *PlayRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.PlayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.PlayRecord, 0)
	for _, p := range r.plays {
		if p.AccountID == accountID {
			clone := *p
			matched = append(matched, &clone)
		}
	}
	return paginate(matched, page, limit), nil
}

func (r *PlayRepository) FindAll(_ context.Context, page, limit int) ([]*models.PlayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.PlayRecord, 0, len(r.plays))
	for _, p := range r.plays {
		clone := *p
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}

func (r *PlayRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.plays)), nil
}

var _ repositories.ClaimRepository = (*ClaimRepository)(nil)

// ClaimRepository is an in-memory claim receipt store.
type ClaimRepository struct {
	mu       sync.RWMutex
	receipts []*models.ClaimReceipt
}

// NewClaimRepository creates an empty in-memory claim store.
func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{}
}

func (r *ClaimRepository) Create(_ context.Context, receipt *models.ClaimReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipt.ID = primitive.NewObjectID()
	receipt.CreatedAt = time.Now()

	clone := *receipt
	clone.Payouts = append([]models.ClaimPayout(nil), receipt.Payouts...)
	clone.NFTRefs = append([]string(nil), receipt.NFTRefs...)
	r.receipts = append(r.receipts, &clone)
	return nil
}

func (r *ClaimRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.ClaimReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.ClaimReceipt, 0)
	for _, c := range r.receipts {
		if c.AccountID == accountID {
			clone := *c
			matched = append(matched, &clone)
		}
	}
	return paginate(matched, page, limit), nil
}

func (r *ClaimRepository) FindAll(_ context.Context, page, limit int) ([]*models.ClaimReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ClaimReceipt, 0, len(r.receipts))
	for _, c := range r.receipts {
		clone := *c
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}
