package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/metrics"
	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
	"github.com/spinforge/arcade-backend/pkg/custody"
	"github.com/spinforge/arcade-backend/pkg/rng"
)

// MaxTicketsPerEntry caps the tickets one entry call may spend
const MaxTicketsPerEntry int64 = 100

// Compile-time checks to ensure RaffleServiceImpl implements its interfaces
var (
	_ RaffleService = (*RaffleServiceImpl)(nil)
	_ TicketIssuer  = (*RaffleServiceImpl)(nil)
)

// RaffleServiceImpl owns the raffle lifecycle. Entries and resolutions
// serialize per raffle; the participant list is a multiset — one entry per
// ticket spent — so a uniform draw over it is already ticket-weighted.
type RaffleServiceImpl struct {
	raffleRepo    repositories.RaffleRepository
	winnerRepo    repositories.RaffleWinnerRepository
	archiveRepo   repositories.RaffleArchiveRepository
	ticketRepo    repositories.TicketBalanceRepository
	walletRepo    repositories.WalletRepository
	inventoryRepo repositories.InventoryRepository
	blacklistRepo repositories.BlacklistRepository
	settingsRepo  repositories.PlatformSettingsRepository
	treasury      TreasuryService
	custody       custody.Gateway
	eventService  *EventService
	draws         rng.Source
	locks         *keyedMutex
}

// NewRaffleService creates a new RaffleServiceImpl
func NewRaffleService(
	raffleRepo repositories.RaffleRepository,
	winnerRepo repositories.RaffleWinnerRepository,
	archiveRepo repositories.RaffleArchiveRepository,
	ticketRepo repositories.TicketBalanceRepository,
	walletRepo repositories.WalletRepository,
	inventoryRepo repositories.InventoryRepository,
	blacklistRepo repositories.BlacklistRepository,
	settingsRepo repositories.PlatformSettingsRepository,
	treasury TreasuryService,
	custodyGateway custody.Gateway,
	eventService *EventService,
	draws rng.Source,
) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo:    raffleRepo,
		winnerRepo:    winnerRepo,
		archiveRepo:   archiveRepo,
		ticketRepo:    ticketRepo,
		walletRepo:    walletRepo,
		inventoryRepo: inventoryRepo,
		blacklistRepo: blacklistRepo,
		settingsRepo:  settingsRepo,
		treasury:      treasury,
		custody:       custodyGateway,
		eventService:  eventService,
		draws:         draws,
		locks:         newKeyedMutex(),
	}
}

// Create opens a raffle. A COIN raffle's pot is extracted from the
// treasury into the raffle escrow up front, so the pot is provably funded
// for its whole life. A UNIQUE raffle names its prize, reserving one from
// the inventory when the request leaves it blank.
func (s *RaffleServiceImpl) Create(ctx context.Context, req *models.CreateRaffleRequest) (*models.Raffle, error) {
	raffle := &models.Raffle{
		Kind:   req.Kind,
		Title:  req.Title,
		Active: true,
		Status: models.RaffleStatusOpen,
	}

	switch req.Kind {
	case models.RaffleKindCoin:
		if req.AssetKind == "" {
			return nil, fmt.Errorf("coin raffle needs an asset kind: %w", ErrInvalidSelector)
		}
		if req.PotAmount <= 0 {
			return nil, fmt.Errorf("coin raffle pot %d: %w", req.PotAmount, ErrInvalidAmount)
		}
		// 1. Escrow the pot out of the treasury
		if err := s.treasury.Extract(ctx, req.AssetKind, req.PotAmount); err != nil {
			return nil, fmt.Errorf("failed to escrow raffle pot: %w", err)
		}
		raffle.AssetKind = req.AssetKind
		raffle.PotAmount = req.PotAmount

	case models.RaffleKindUnique:
		prizeRef := req.PrizeRef
		if prizeRef == "" {
			item, err := s.inventoryRepo.PopAvailable(ctx, primitive.NilObjectID)
			if err == mongo.ErrNoDocuments {
				return nil, fmt.Errorf("unique raffle prize: %w", ErrInsufficientInventory)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to reserve raffle prize: %w", err)
			}
			prizeRef = item.Ref
		}
		raffle.PrizeRef = prizeRef

	default:
		return nil, fmt.Errorf("%q: %w", req.Kind, ErrInvalidRaffleKind)
	}

	// 2. Persist; a COIN failure returns the pot, a UNIQUE failure
	// releases the reserved prize
	if err := s.raffleRepo.Create(ctx, raffle); err != nil {
		slog.Error("Failed to create raffle", "error", err, "kind", req.Kind, "title", req.Title)
		if raffle.Kind == models.RaffleKindCoin {
			if derr := s.treasury.Deposit(ctx, raffle.AssetKind, raffle.PotAmount); derr != nil {
				slog.Error("Failed to return escrowed pot", "error", derr, "kind", raffle.AssetKind, "amount", raffle.PotAmount)
			}
		} else if req.PrizeRef == "" {
			if rerr := s.inventoryRepo.Release(ctx, raffle.PrizeRef); rerr != nil {
				slog.Error("Failed to release reserved prize", "error", rerr, "ref", raffle.PrizeRef)
			}
		}
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}

	slog.Info("Raffle created", "raffleId", raffle.ID, "kind", raffle.Kind, "title", raffle.Title)
	return raffle, nil
}

// Enter spends tickets on raffle entries. The anti-spam fee is charged in
// the platform's base asset and merged into the treasury; the account is
// appended to the participant multiset once per ticket.
func (s *RaffleServiceImpl) Enter(ctx context.Context, accountID, raffleID primitive.ObjectID, tickets int64) (*models.Raffle, error) {
	if tickets < 1 {
		return nil, fmt.Errorf("ticket count %d: %w", tickets, ErrInvalidAmount)
	}
	if tickets > MaxTicketsPerEntry {
		return nil, fmt.Errorf("ticket count %d, cap %d: %w", tickets, MaxTicketsPerEntry, ErrTicketLimitExceeded)
	}

	// 1. Platform and account gates
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		slog.Error("Failed to read platform settings", "error", err)
		return nil, fmt.Errorf("failed to read platform settings: %w", err)
	}
	if settings.Maintenance {
		return nil, fmt.Errorf("raffle entry rejected: %w", ErrMaintenance)
	}
	if !settings.RafflesActive {
		return nil, fmt.Errorf("raffle entry rejected: %w", ErrRafflePaused)
	}
	banned, err := s.blacklistRepo.IsBlacklisted(ctx, accountID)
	if err != nil {
		slog.Error("Failed to check blacklist", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if banned {
		return nil, fmt.Errorf("raffle entry rejected: %w", ErrBlacklisted)
	}

	unlock := s.locks.Lock(raffleID.Hex())
	defer unlock()

	// 2. Raffle gates
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		slog.Error("Failed to find raffle", "error", err, "raffleId", raffleID)
		return nil, fmt.Errorf("raffle not found: %w", err)
	}
	if raffle.Status == models.RaffleStatusResolved {
		return nil, fmt.Errorf("raffle %s: %w", raffleID.Hex(), ErrRaffleResolved)
	}
	if !raffle.Active {
		return nil, fmt.Errorf("raffle %s: %w", raffleID.Hex(), ErrRafflePaused)
	}

	// 3. Ticket balance gate
	balance, err := s.ticketRepo.FindByAccount(ctx, accountID)
	if err != nil && err != mongo.ErrNoDocuments {
		slog.Error("Failed to read ticket balance", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("failed to read ticket balance: %w", err)
	}
	held := int64(0)
	if balance != nil {
		held = balance.Tickets
	}
	if held < tickets {
		return nil, fmt.Errorf("spending %d of %d tickets: %w", tickets, held, ErrInsufficientTickets)
	}

	// 4. Anti-spam fee, wallet → treasury
	fee := settings.RaffleEntryFee
	if fee > 0 {
		if err := s.walletRepo.Debit(ctx, accountID, settings.BaseAssetKind, fee); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, fmt.Errorf("entry fee %d %s: %w", fee, settings.BaseAssetKind, ErrInsufficientFunds)
			}
			slog.Error("Failed to charge entry fee", "error", err, "accountId", accountID)
			return nil, fmt.Errorf("failed to charge entry fee: %w", err)
		}
		if err := s.treasury.Deposit(ctx, settings.BaseAssetKind, fee); err != nil {
			slog.Error("Failed to merge entry fee into treasury, refunding", "error", err, "fee", fee)
			if rerr := s.walletRepo.Credit(ctx, accountID, settings.BaseAssetKind, fee); rerr != nil {
				slog.Error("Failed to refund entry fee", "error", rerr, "accountId", accountID, "fee", fee)
			}
			return nil, fmt.Errorf("failed to merge entry fee into treasury: %w", err)
		}
	}

	// 5. Spend the tickets
	if err := s.ticketRepo.Adjust(ctx, accountID, -tickets); err != nil {
		slog.Error("Failed to debit tickets", "error", err, "accountId", accountID, "tickets", tickets)
		s.refundEntryFee(ctx, accountID, settings, fee)
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("spending %d tickets: %w", tickets, ErrInsufficientTickets)
		}
		return nil, fmt.Errorf("failed to debit tickets: %w", err)
	}

	// 6. One multiset entry per ticket spent
	if err := s.raffleRepo.AppendParticipants(ctx, raffleID, accountID, int(tickets)); err != nil {
		slog.Error("Failed to append participants, refunding", "error", err, "raffleId", raffleID)
		if rerr := s.ticketRepo.Adjust(ctx, accountID, tickets); rerr != nil {
			slog.Error("Failed to refund tickets", "error", rerr, "accountId", accountID, "tickets", tickets)
		}
		s.refundEntryFee(ctx, accountID, settings, fee)
		return nil, fmt.Errorf("failed to append participants: %w", err)
	}

	metrics.RecordRaffleEntry(tickets)
	s.eventService.Emit(&models.Event{
		Type:      models.EventRaffleEntered,
		Source:    "raffle",
		AccountID: accountID,
		Payload: map[string]interface{}{
			"raffleId": raffleID.Hex(),
			"tickets":  tickets,
		},
	})

	return s.raffleRepo.FindByID(ctx, raffleID)
}

// SetActive opens or closes a raffle for entries. Resolved raffles are
// retired and stay that way.
func (s *RaffleServiceImpl) SetActive(ctx context.Context, raffleID primitive.ObjectID, active bool) error {
	unlock := s.locks.Lock(raffleID.Hex())
	defer unlock()

	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		return fmt.Errorf("raffle not found: %w", err)
	}
	if raffle.Status == models.RaffleStatusResolved {
		return fmt.Errorf("raffle %s: %w", raffleID.Hex(), ErrRaffleResolved)
	}

	if err := s.raffleRepo.SetActive(ctx, raffleID, active); err != nil {
		slog.Error("Failed to set raffle active flag", "error", err, "raffleId", raffleID)
		return fmt.Errorf("failed to set raffle active flag: %w", err)
	}
	slog.Info("Raffle active flag set", "raffleId", raffleID, "active", active)
	return nil
}

// PickWinners resolves a closed raffle. Winner index = draw mod
// participant count: uniform over multiset entries, so ticket weighting is
// inherited from entry-time duplication rather than draw-time weighting.
func (s *RaffleServiceImpl) PickWinners(ctx context.Context, raffleID primitive.ObjectID, numWinners int) ([]*models.RaffleWinner, error) {
	if numWinners < 1 {
		return nil, fmt.Errorf("%d winners: %w", numWinners, ErrInvalidWinnerCount)
	}

	unlock := s.locks.Lock(raffleID.Hex())
	defer unlock()

	// 1. Resolution gates: deactivated, unresolved, non-empty
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		slog.Error("Failed to find raffle for resolution", "error", err, "raffleId", raffleID)
		return nil, fmt.Errorf("raffle not found: %w", err)
	}
	if raffle.Status == models.RaffleStatusResolved {
		return nil, fmt.Errorf("raffle %s: %w", raffleID.Hex(), ErrRaffleResolved)
	}
	if raffle.Active {
		return nil, fmt.Errorf("raffle %s must be deactivated before resolution: %w", raffleID.Hex(), ErrRaffleActive)
	}
	if len(raffle.Participants) == 0 {
		return nil, fmt.Errorf("raffle %s: %w", raffleID.Hex(), ErrNoParticipants)
	}

	switch raffle.Kind {
	case models.RaffleKindCoin:
		return s.resolveCoin(ctx, raffle, numWinners)
	case models.RaffleKindUnique:
		return s.resolveUnique(ctx, raffle)
	}
	return nil, fmt.Errorf("%q: %w", raffle.Kind, ErrInvalidRaffleKind)
}

// resolveCoin splits the escrowed pot evenly across numWinners draws with
// replacement: the same account can win several shares. The raffle
// survives for future entries and resolutions; integer-division dust
// stays in the escrow.
func (s *RaffleServiceImpl) resolveCoin(ctx context.Context, raffle *models.Raffle, numWinners int) ([]*models.RaffleWinner, error) {
	share := raffle.PotAmount / int64(numWinners)
	if share <= 0 {
		return nil, fmt.Errorf("pot %d over %d winners: %w", raffle.PotAmount, numWinners, ErrInsufficientBalance)
	}

	winners := make([]*models.RaffleWinner, 0, numWinners)
	now := time.Now()
	for i := 0; i < numWinners; i++ {
		idx, err := s.drawIndex(len(raffle.Participants))
		if err != nil {
			return nil, err
		}
		winner := raffle.Participants[idx]
		if err := s.walletRepo.Credit(ctx, winner, raffle.AssetKind, share); err != nil {
			slog.Error("Failed to credit raffle winner", "error", err, "accountId", winner, "share", share)
			return nil, fmt.Errorf("failed to credit winner: %w", err)
		}
		raffle.PotAmount -= share
		winners = append(winners, &models.RaffleWinner{
			RaffleID:    raffle.ID,
			AccountID:   winner,
			PrizeAmount: share,
			AssetKind:   raffle.AssetKind,
			WonAt:       now,
		})
	}

	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		slog.Error("Failed to persist raffle winners", "error", err, "raffleId", raffle.ID)
	}

	raffle.Resolutions++
	raffle.ResolvedAt = now
	raffle.ExecutionLog = append(raffle.ExecutionLog,
		fmt.Sprintf("resolution %d: %d winners, %d %s each", raffle.Resolutions, numWinners, share, raffle.AssetKind))
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		slog.Error("Failed to persist raffle resolution", "error", err, "raffleId", raffle.ID)
		return nil, fmt.Errorf("failed to persist raffle resolution: %w", err)
	}

	metrics.RecordRaffleResolution(string(models.RaffleKindCoin))
	s.eventService.Emit(&models.Event{
		Type:   models.EventRaffleResolved,
		Source: "raffle",
		Payload: map[string]interface{}{
			"raffleId": raffle.ID.Hex(),
			"kind":     string(models.RaffleKindCoin),
			"winners":  numWinners,
			"share":    share,
		},
	})

	slog.Info("Coin raffle resolved", "raffleId", raffle.ID, "winners", numWinners, "share", share, "potLeft", raffle.PotAmount)
	return winners, nil
}

// resolveUnique draws one winner, transfers the prize through custody,
// archives the consumed participant multiset and retires the raffle.
func (s *RaffleServiceImpl) resolveUnique(ctx context.Context, raffle *models.Raffle) ([]*models.RaffleWinner, error) {
	idx, err := s.drawIndex(len(raffle.Participants))
	if err != nil {
		return nil, err
	}
	winner := raffle.Participants[idx]
	now := time.Now()

	// 1. Prize transfer precedes every mutation: a custody failure
	// leaves the raffle resolvable again
	if err := s.custody.Transfer(raffle.PrizeRef, custodyPlatformOwner, winner.Hex()); err != nil {
		slog.Error("Custody transfer failed during resolution", "error", err, "raffleId", raffle.ID, "ref", raffle.PrizeRef)
		return nil, fmt.Errorf("custody transfer of %s: %w", raffle.PrizeRef, err)
	}
	if err := s.inventoryRepo.Remove(ctx, raffle.PrizeRef); err != nil && err != mongo.ErrNoDocuments {
		slog.Error("Failed to remove transferred prize from inventory", "error", err, "ref", raffle.PrizeRef)
	}

	// 2. Archive the consumed multiset, sequence-numbered and write-once
	sequence, err := s.archiveRepo.NextSequence(ctx)
	if err != nil {
		slog.Error("Failed to allocate archive sequence", "error", err, "raffleId", raffle.ID)
		return nil, fmt.Errorf("failed to allocate archive sequence: %w", err)
	}
	archive := &models.RaffleArchive{
		Sequence:     sequence,
		RaffleID:     raffle.ID,
		Kind:         raffle.Kind,
		Participants: raffle.Participants,
		WinnerIDs:    []primitive.ObjectID{winner},
		ResolvedAt:   now,
	}
	if err := s.archiveRepo.Create(ctx, archive); err != nil {
		slog.Error("Failed to archive raffle participants", "error", err, "raffleId", raffle.ID)
		return nil, fmt.Errorf("failed to archive raffle participants: %w", err)
	}

	winners := []*models.RaffleWinner{{
		RaffleID:  raffle.ID,
		AccountID: winner,
		PrizeRef:  raffle.PrizeRef,
		WonAt:     now,
	}}
	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		slog.Error("Failed to persist raffle winner", "error", err, "raffleId", raffle.ID)
	}

	// 3. Retire: participants live in the archive now
	raffle.Status = models.RaffleStatusResolved
	raffle.Active = false
	raffle.Participants = []primitive.ObjectID{}
	raffle.EntryCount = 0
	raffle.Resolutions++
	raffle.ResolvedAt = now
	raffle.ExecutionLog = append(raffle.ExecutionLog,
		fmt.Sprintf("resolved: prize %s, archive %d", raffle.PrizeRef, sequence))
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		slog.Error("Failed to retire resolved raffle", "error", err, "raffleId", raffle.ID)
		return nil, fmt.Errorf("failed to retire resolved raffle: %w", err)
	}

	metrics.RecordRaffleResolution(string(models.RaffleKindUnique))
	s.eventService.Emit(&models.Event{
		Type:      models.EventRaffleResolved,
		Source:    "raffle",
		AccountID: winner,
		Payload: map[string]interface{}{
			"raffleId": raffle.ID.Hex(),
			"kind":     string(models.RaffleKindUnique),
			"prizeRef": raffle.PrizeRef,
			"archive":  sequence,
		},
	})

	slog.Info("Unique raffle resolved", "raffleId", raffle.ID, "winner", winner, "prizeRef", raffle.PrizeRef, "archive", sequence)
	return winners, nil
}

// Get returns one raffle by ID
func (s *RaffleServiceImpl) Get(ctx context.Context, raffleID primitive.ObjectID) (*models.Raffle, error) {
	return s.raffleRepo.FindByID(ctx, raffleID)
}

// List pages through raffles, optionally filtered by lifecycle status
func (s *RaffleServiceImpl) List(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error) {
	if status == "" {
		return s.raffleRepo.FindAll(ctx, page, limit)
	}
	return s.raffleRepo.FindByStatus(ctx, status, page, limit)
}

// Winners returns every winning draw of one raffle
func (s *RaffleServiceImpl) Winners(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleWinner, error) {
	return s.winnerRepo.FindByRaffleID(ctx, raffleID)
}

// Archives pages through the append-only resolution archive
func (s *RaffleServiceImpl) Archives(ctx context.Context, page, limit int) ([]*models.RaffleArchive, error) {
	return s.archiveRepo.FindAll(ctx, page, limit)
}

// TicketBalance returns an account's spendable ticket balance
func (s *RaffleServiceImpl) TicketBalance(ctx context.Context, accountID primitive.ObjectID) (*models.TicketBalance, error) {
	balance, err := s.ticketRepo.FindByAccount(ctx, accountID)
	if err == mongo.ErrNoDocuments {
		return &models.TicketBalance{AccountID: accountID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket balance: %w", err)
	}
	return balance, nil
}

// IssueTickets moves claimed ledger tickets into the spendable balance
func (s *RaffleServiceImpl) IssueTickets(ctx context.Context, accountID primitive.ObjectID, tickets int64) error {
	if tickets <= 0 {
		return fmt.Errorf("issuing %d tickets: %w", tickets, ErrInvalidAmount)
	}
	if err := s.ticketRepo.Adjust(ctx, accountID, tickets); err != nil {
		slog.Error("Failed to issue tickets", "error", err, "accountId", accountID, "tickets", tickets)
		return fmt.Errorf("failed to issue tickets: %w", err)
	}
	return nil
}

// drawIndex maps one full-width draw onto the participant multiset
func (s *RaffleServiceImpl) drawIndex(count int) (int, error) {
	draw, err := s.draws.Uint64()
	if err != nil {
		return 0, fmt.Errorf("failed to obtain draw: %w", err)
	}
	return int(draw % uint64(count)), nil
}

// refundEntryFee returns a charged anti-spam fee after a later step failed
func (s *RaffleServiceImpl) refundEntryFee(ctx context.Context, accountID primitive.ObjectID, settings *models.PlatformSettings, fee int64) {
	if fee <= 0 {
		return
	}
	if err := s.treasury.Extract(ctx, settings.BaseAssetKind, fee); err != nil {
		slog.Error("Failed to extract entry fee during refund", "error", err, "fee", fee)
		return
	}
	if err := s.walletRepo.Credit(ctx, accountID, settings.BaseAssetKind, fee); err != nil {
		slog.Error("Failed to refund entry fee", "error", err, "accountId", accountID, "fee", fee)
	}
}
