package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/metrics"
	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
	"github.com/spinforge/arcade-backend/pkg/custody"
)

// custodyPlatformOwner is the custody-side account holding platform
// collectibles until a claim or raffle resolution transfers them out.
const custodyPlatformOwner = "platform"

// Compile-time check to ensure LedgerServiceImpl implements LedgerService
var _ LedgerService = (*LedgerServiceImpl)(nil)

// LedgerServiceImpl owns the reward ledgers and the claim protocol.
// Claims serialize per account; every leg moves money before it debits
// the ledger, so the ledger never records value as claimable after it has
// been paid, and a mid-claim failure leaves completed legs fully settled.
type LedgerServiceImpl struct {
	ledgerRepo    repositories.LedgerRepository
	walletRepo    repositories.WalletRepository
	claimRepo     repositories.ClaimRepository
	inventoryRepo repositories.InventoryRepository
	treasury      TreasuryService
	tickets       TicketIssuer
	custody       custody.Gateway
	eventService  *EventService
	locks         *keyedMutex
}

// NewLedgerService creates a new LedgerServiceImpl
func NewLedgerService(
	ledgerRepo repositories.LedgerRepository,
	walletRepo repositories.WalletRepository,
	claimRepo repositories.ClaimRepository,
	inventoryRepo repositories.InventoryRepository,
	treasury TreasuryService,
	tickets TicketIssuer,
	custodyGateway custody.Gateway,
	eventService *EventService,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		ledgerRepo:    ledgerRepo,
		walletRepo:    walletRepo,
		claimRepo:     claimRepo,
		inventoryRepo: inventoryRepo,
		treasury:      treasury,
		tickets:       tickets,
		custody:       custodyGateway,
		eventService:  eventService,
		locks:         newKeyedMutex(),
	}
}

// Ledger returns an account's reward ledger. Accounts that have never
// been credited get an empty, unpersisted ledger.
func (s *LedgerServiceImpl) Ledger(ctx context.Context, accountID primitive.ObjectID) (*models.RewardLedger, error) {
	ledger, err := s.ledgerRepo.FindByAccount(ctx, accountID)
	if err == mongo.ErrNoDocuments {
		return emptyLedger(accountID), nil
	}
	if err != nil {
		slog.Error("Failed to read reward ledger", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("failed to read reward ledger: %w", err)
	}
	return ledger, nil
}

// Claim withdraws the first count selected balances, then sweeps NFT
// vouchers, raffle tickets and secondary currency. Claiming with nothing
// accrued succeeds with an empty receipt; receipts are only persisted
// when something moved.
func (s *LedgerServiceImpl) Claim(ctx context.Context, accountID primitive.ObjectID, req *models.ClaimRequest) (*models.ClaimReceipt, error) {
	// 1. Selector validation, before any read or mutation
	if req.Count < 0 || req.Count > models.MaxClaimSelectors || req.Count > len(req.Selectors) {
		return nil, fmt.Errorf("selector count %d of %d: %w", req.Count, len(req.Selectors), ErrInvalidSelector)
	}
	selected := req.Selectors[:req.Count]

	unlock := s.locks.Lock(accountID.Hex())
	defer unlock()

	receipt := &models.ClaimReceipt{
		Ref:       uuid.NewString(),
		AccountID: accountID,
		Payouts:   []models.ClaimPayout{},
	}

	// 2. Snapshot the ledger under the account lock
	ledger, err := s.ledgerRepo.FindByAccount(ctx, accountID)
	if err == mongo.ErrNoDocuments {
		return receipt, nil // nothing ever accrued: a successful no-op
	}
	if err != nil {
		slog.Error("Failed to read reward ledger for claim", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("failed to read reward ledger: %w", err)
	}

	// 3. Validate every selector against the known pools and pre-check
	// the pools the claim will draw on, so the normal path never fails
	// after the first mutation.
	for _, kind := range selected {
		amount := ledger.Balances[kind]
		pool, err := s.treasury.Pool(ctx, kind)
		if err == mongo.ErrNoDocuments {
			if amount > 0 {
				return nil, fmt.Errorf("claim of %d %s from empty pool: %w", amount, kind, ErrInsufficientBalance)
			}
			return nil, fmt.Errorf("%q: %w", kind, ErrInvalidSelector)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read treasury pool %s: %w", kind, err)
		}
		if amount == 0 {
			continue
		}
		if !pool.Active {
			return nil, fmt.Errorf("claim of %d %s: %w", amount, kind, ErrPoolInactive)
		}
		if amount > pool.Balance {
			return nil, fmt.Errorf("claim of %d %s from balance %d: %w", amount, kind, pool.Balance, ErrInsufficientBalance)
		}
	}

	// 4. Fungible legs: treasury → wallet, then zero the ledger field.
	// Duplicate selectors see a zeroed local balance and skip.
	for _, kind := range selected {
		amount := ledger.Balances[kind]
		if amount <= 0 {
			continue
		}
		if err := s.treasury.Extract(ctx, kind, amount); err != nil {
			slog.Error("Claim leg failed at treasury", "error", err, "accountId", accountID, "kind", kind, "amount", amount)
			return nil, fmt.Errorf("claim leg %s: %w", kind, err)
		}
		if err := s.walletRepo.Credit(ctx, accountID, kind, amount); err != nil {
			slog.Error("Claim leg failed at wallet, redepositing", "error", err, "accountId", accountID, "kind", kind, "amount", amount)
			if derr := s.treasury.Deposit(ctx, kind, amount); derr != nil {
				slog.Error("Failed to redeposit after wallet failure", "error", derr, "kind", kind, "amount", amount)
			}
			return nil, fmt.Errorf("claim leg %s: %w", kind, err)
		}
		if err := s.ledgerRepo.ApplyDebit(ctx, accountID, &models.LedgerDebit{Amounts: map[string]int64{kind: amount}}); err != nil {
			slog.Error("Failed to debit ledger after payout", "error", err, "accountId", accountID, "kind", kind, "amount", amount)
			return nil, fmt.Errorf("failed to debit ledger for %s: %w", kind, err)
		}
		ledger.Balances[kind] = 0
		receipt.Payouts = append(receipt.Payouts, models.ClaimPayout{AssetKind: kind, Amount: amount})
	}

	// 5. Collectible sweep: custody transfer first, ledger debit after,
	// one item at a time so a transfer failure never strands a voucher
	// half-claimed.
	for _, ref := range ledger.NFTVouchers {
		if err := s.custody.Transfer(ref, custodyPlatformOwner, accountID.Hex()); err != nil {
			slog.Error("Custody transfer failed during claim", "error", err, "accountId", accountID, "ref", ref)
			return nil, fmt.Errorf("custody transfer of %s: %w", ref, err)
		}
		if err := s.ledgerRepo.ApplyDebit(ctx, accountID, &models.LedgerDebit{NFTRefs: []string{ref}}); err != nil {
			slog.Error("Failed to remove claimed voucher from ledger", "error", err, "accountId", accountID, "ref", ref)
			return nil, fmt.Errorf("failed to remove voucher %s: %w", ref, err)
		}
		if err := s.inventoryRepo.Remove(ctx, ref); err != nil && err != mongo.ErrNoDocuments {
			slog.Error("Failed to remove transferred item from inventory", "error", err, "ref", ref)
		}
		receipt.NFTRefs = append(receipt.NFTRefs, ref)
	}

	// 6. Ticket sweep: forwarded to the raffle subsystem's issuance
	if ledger.RaffleTickets > 0 {
		if err := s.tickets.IssueTickets(ctx, accountID, ledger.RaffleTickets); err != nil {
			slog.Error("Ticket issuance failed during claim", "error", err, "accountId", accountID, "tickets", ledger.RaffleTickets)
			return nil, fmt.Errorf("failed to issue %d tickets: %w", ledger.RaffleTickets, err)
		}
		if err := s.ledgerRepo.ApplyDebit(ctx, accountID, &models.LedgerDebit{Tickets: ledger.RaffleTickets}); err != nil {
			slog.Error("Failed to zero swept tickets", "error", err, "accountId", accountID)
			return nil, fmt.Errorf("failed to zero swept tickets: %w", err)
		}
		receipt.TicketsIssued = ledger.RaffleTickets
	}

	// 7. Secondary sweep: recorded for observability, then zeroed
	if ledger.SecondaryCoins > 0 {
		if err := s.ledgerRepo.ApplyDebit(ctx, accountID, &models.LedgerDebit{Secondary: ledger.SecondaryCoins}); err != nil {
			slog.Error("Failed to zero swept secondary currency", "error", err, "accountId", accountID)
			return nil, fmt.Errorf("failed to zero secondary currency: %w", err)
		}
		receipt.SecondaryClaimed = ledger.SecondaryCoins
	}

	// 8. Persist the receipt only when the claim moved something
	if len(receipt.Payouts) > 0 || len(receipt.NFTRefs) > 0 || receipt.TicketsIssued > 0 || receipt.SecondaryClaimed > 0 {
		if err := s.claimRepo.Create(ctx, receipt); err != nil {
			slog.Error("Failed to persist claim receipt", "error", err, "accountId", accountID, "ref", receipt.Ref)
		}
		metrics.RecordClaim()
		s.eventService.Emit(&models.Event{
			Type:      models.EventClaimCompleted,
			Source:    "ledger",
			AccountID: accountID,
			Payload: map[string]interface{}{
				"ref":       receipt.Ref,
				"payouts":   len(receipt.Payouts),
				"nfts":      len(receipt.NFTRefs),
				"tickets":   receipt.TicketsIssued,
				"secondary": receipt.SecondaryClaimed,
			},
		})
	}
	return receipt, nil
}

// Receipts pages through an account's claim receipts, newest first
func (s *LedgerServiceImpl) Receipts(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.ClaimReceipt, error) {
	return s.claimRepo.FindByAccount(ctx, accountID, page, limit)
}

// GrantVoucher credits a free-play voucher to an account's ledger
func (s *LedgerServiceImpl) GrantVoucher(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, assetKind string, stake int64) (*models.FreePlayVoucher, error) {
	switch game {
	case models.GameWheel, models.GameDice, models.GameCoinFlip, models.GamePlinko, models.GameNFTLottery:
	default:
		return nil, fmt.Errorf("%q: %w", game, ErrInvalidGameKind)
	}
	if assetKind == "" {
		return nil, fmt.Errorf("asset kind is required: %w", ErrInvalidSelector)
	}
	if stake <= 0 {
		return nil, fmt.Errorf("voucher stake %d: %w", stake, ErrInvalidAmount)
	}

	unlock := s.locks.Lock(accountID.Hex())
	defer unlock()

	voucher := models.FreePlayVoucher{
		Ref:       uuid.NewString(),
		Game:      game,
		AssetKind: assetKind,
		Stake:     stake,
		GrantedAt: time.Now(),
	}
	credit := &models.LedgerCredit{Vouchers: []models.FreePlayVoucher{voucher}}
	if err := s.ledgerRepo.ApplyCredit(ctx, accountID, credit); err != nil {
		slog.Error("Failed to grant voucher", "error", err, "accountId", accountID, "game", game)
		return nil, fmt.Errorf("failed to grant voucher: %w", err)
	}

	slog.Info("Voucher granted", "accountId", accountID, "game", game, "assetKind", assetKind, "stake", stake)
	return &voucher, nil
}

// Wallet returns an account's spendable balances, empty when the account
// has never held funds
func (s *LedgerServiceImpl) Wallet(ctx context.Context, accountID primitive.ObjectID) (*models.Wallet, error) {
	wallet, err := s.walletRepo.FindByAccount(ctx, accountID)
	if err == mongo.ErrNoDocuments {
		return &models.Wallet{AccountID: accountID, Balances: map[string]int64{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}
	return wallet, nil
}

// DepositToWallet credits spendable funds to an account
func (s *LedgerServiceImpl) DepositToWallet(ctx context.Context, accountID primitive.ObjectID, kind string, amount int64) error {
	if kind == "" {
		return fmt.Errorf("asset kind is required: %w", ErrInvalidSelector)
	}
	if amount <= 0 {
		return fmt.Errorf("wallet deposit of %d: %w", amount, ErrInvalidAmount)
	}
	if err := s.walletRepo.Credit(ctx, accountID, kind, amount); err != nil {
		slog.Error("Failed to credit wallet", "error", err, "accountId", accountID, "kind", kind)
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}

func emptyLedger(accountID primitive.ObjectID) *models.RewardLedger {
	return &models.RewardLedger{
		AccountID:        accountID,
		Balances:         map[string]int64{},
		NFTVouchers:      []string{},
		FreePlayVouchers: []models.FreePlayVoucher{},
	}
}
