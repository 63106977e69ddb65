package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/gamemath"
	"github.com/spinforge/arcade-backend/internal/metrics"
	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
	"github.com/spinforge/arcade-backend/pkg/rng"
)

// MaxPlayIterations caps one play-multiple call
const MaxPlayIterations = 100

// Compile-time check to ensure GameServiceImpl implements GameService
var _ GameService = (*GameServiceImpl)(nil)

// GameServiceImpl is the settlement engine. One play runs entirely under
// the asset kind's lock: every precondition and resource check happens
// before the first state mutation, the draw is obtained inside the same
// locked operation that consumes it, and any failure aborts with zero net
// effect. The fee moves wallet → treasury; winnings accrue in the reward
// ledger as claimables, never directly in the wallet.
type GameServiceImpl struct {
	configRepo    repositories.GameConfigRepository
	ledgerRepo    repositories.LedgerRepository
	walletRepo    repositories.WalletRepository
	playRepo      repositories.PlayRepository
	inventoryRepo repositories.InventoryRepository
	blacklistRepo repositories.BlacklistRepository
	settingsRepo  repositories.PlatformSettingsRepository
	treasury      TreasuryService
	eventService  *EventService
	draws         rng.Source
	locks         *keyedMutex
}

// NewGameService creates a new GameServiceImpl
func NewGameService(
	configRepo repositories.GameConfigRepository,
	ledgerRepo repositories.LedgerRepository,
	walletRepo repositories.WalletRepository,
	playRepo repositories.PlayRepository,
	inventoryRepo repositories.InventoryRepository,
	blacklistRepo repositories.BlacklistRepository,
	settingsRepo repositories.PlatformSettingsRepository,
	treasury TreasuryService,
	eventService *EventService,
	draws rng.Source,
) *GameServiceImpl {
	return &GameServiceImpl{
		configRepo:    configRepo,
		ledgerRepo:    ledgerRepo,
		walletRepo:    walletRepo,
		playRepo:      playRepo,
		inventoryRepo: inventoryRepo,
		blacklistRepo: blacklistRepo,
		settingsRepo:  settingsRepo,
		treasury:      treasury,
		eventService:  eventService,
		draws:         draws,
		locks:         newKeyedMutex(),
	}
}

// playResolution is the pure outcome of a draw before any state moves
type playResolution struct {
	draw       int64
	drawDetail []int64
	landedFace models.CoinFace
	tier       int
	reward     models.RewardKind
	amountWon  int64
	secondary  int64
	tickets    int64
	wantsNFT   bool
	won        bool
}

// Play settles a single play for one account
func (s *GameServiceImpl) Play(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, req *models.PlayRequest) (*models.PlayOutcome, error) {
	unlock := s.locks.Lock(req.AssetKind)
	defer unlock()
	return s.playLocked(ctx, accountID, game, req)
}

// PlayMultiple repeats the single-play operation count times strictly
// sequentially under one asset-kind lock. Each iteration independently
// re-checks every precondition; outcomes of iterations completed before a
// failure are returned alongside the error.
func (s *GameServiceImpl) PlayMultiple(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, req *models.PlayMultipleRequest) ([]*models.PlayOutcome, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("play count %d: %w", req.Count, ErrInvalidAmount)
	}
	if req.Count > MaxPlayIterations {
		return nil, fmt.Errorf("play count %d, cap %d: %w", req.Count, MaxPlayIterations, ErrPlayCountExceeded)
	}

	unlock := s.locks.Lock(req.AssetKind)
	defer unlock()

	outcomes := make([]*models.PlayOutcome, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		outcome, err := s.playLocked(ctx, accountID, game, &req.PlayRequest)
		if err != nil {
			return outcomes, fmt.Errorf("iteration %d of %d: %w", i+1, req.Count, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// History pages through an account's settled plays, newest first
func (s *GameServiceImpl) History(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.PlayRecord, error) {
	return s.playRepo.FindByAccount(ctx, accountID, page, limit)
}

// AllHistory pages through every settled play, newest first
func (s *GameServiceImpl) AllHistory(ctx context.Context, page, limit int) ([]*models.PlayRecord, error) {
	return s.playRepo.FindAll(ctx, page, limit)
}

// playLocked runs one settlement under the caller-held asset-kind lock
func (s *GameServiceImpl) playLocked(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, req *models.PlayRequest) (*models.PlayOutcome, error) {
	start := time.Now()

	// 1. Platform and account gates
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		slog.Error("Failed to read platform settings", "error", err)
		return nil, fmt.Errorf("failed to read platform settings: %w", err)
	}
	if settings.Maintenance {
		return nil, fmt.Errorf("play rejected: %w", ErrMaintenance)
	}
	banned, err := s.blacklistRepo.IsBlacklisted(ctx, accountID)
	if err != nil {
		slog.Error("Failed to check blacklist", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if banned {
		return nil, fmt.Errorf("play rejected: %w", ErrBlacklisted)
	}

	// 2. Configuration snapshot
	config, err := s.configRepo.FindByGameAndKind(ctx, game, req.AssetKind)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s on %s: %w", game, req.AssetKind, ErrGameNotConfigured)
	}
	if err != nil {
		slog.Error("Failed to read game config", "error", err, "game", game, "assetKind", req.AssetKind)
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	if !config.Active {
		return nil, fmt.Errorf("%s on %s: %w", game, req.AssetKind, ErrGameInactive)
	}

	// 3. Treasury gate. A pool that has never seen a deposit is created
	// active by this play's own fee, so only an explicit inactive flag
	// blocks play.
	pool, err := s.treasury.Pool(ctx, req.AssetKind)
	if err != nil && err != mongo.ErrNoDocuments {
		slog.Error("Failed to read treasury pool", "error", err, "kind", req.AssetKind)
		return nil, fmt.Errorf("failed to read treasury pool: %w", err)
	}
	if pool != nil && !pool.Active {
		return nil, fmt.Errorf("%s pool: %w", req.AssetKind, ErrPoolInactive)
	}

	// 4. Stake bounds and game parameters
	if req.Stake < config.MinStake || req.Stake > config.MaxStake {
		return nil, fmt.Errorf("stake %d outside [%d, %d]: %w", req.Stake, config.MinStake, config.MaxStake, ErrStakeOutOfBounds)
	}
	fee := req.Stake
	switch game {
	case models.GameWheel:
	case models.GameDice:
		if err := gamemath.ValidateBetVector(req.BetVector, req.Stake); err != nil {
			return nil, err
		}
	case models.GameCoinFlip:
		if req.SelectedFace != models.CoinFaceHeads && req.SelectedFace != models.CoinFaceTails {
			return nil, fmt.Errorf("%q: %w", req.SelectedFace, ErrInvalidCoinFace)
		}
	case models.GamePlinko:
		if err := gamemath.ValidateBallCount(req.Balls); err != nil {
			return nil, err
		}
		if req.Stake > math.MaxInt64/int64(req.Balls) {
			return nil, fmt.Errorf("stake %d x %d balls: %w", req.Stake, req.Balls, ErrAmountOverflow)
		}
		fee = req.Stake * int64(req.Balls)
	case models.GameNFTLottery:
		if err := gamemath.ValidateWinningPercent(req.WinningPercent); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", game, ErrInvalidGameKind)
	}

	// 5. Draw and resolve. Pure: the draw is committed to before the
	// payout branch is evaluated and nothing has been mutated yet.
	result, err := s.resolve(game, config, req)
	if err != nil {
		return nil, err
	}

	// 6. Reserve the collectible when the resolution pays one, before the
	// fee moves. An exhausted inventory aborts the play with no mutation.
	var nftRef string
	if result.wantsNFT {
		item, err := s.inventoryRepo.PopAvailable(ctx, accountID)
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%s payout: %w", game, ErrInsufficientInventory)
		}
		if err != nil {
			slog.Error("Failed to reserve inventory item", "error", err, "game", game)
			return nil, fmt.Errorf("failed to reserve inventory item: %w", err)
		}
		nftRef = item.Ref
	}

	// 7. Fee collection: a matching free-play voucher substitutes for the
	// fee on this iteration only, consumed from the front of the list;
	// otherwise the wallet pays and the fee merges into the treasury.
	voucherUsed := false
	if req.UseVoucher {
		voucherUsed = s.consumeVoucher(ctx, accountID, game, req.AssetKind, fee)
	}
	if !voucherUsed {
		if err := s.walletRepo.Debit(ctx, accountID, req.AssetKind, fee); err != nil {
			s.releaseReserved(ctx, nftRef)
			if err == mongo.ErrNoDocuments {
				return nil, fmt.Errorf("fee %d %s: %w", fee, req.AssetKind, ErrInsufficientFunds)
			}
			slog.Error("Failed to debit wallet", "error", err, "accountId", accountID, "kind", req.AssetKind)
			return nil, fmt.Errorf("failed to debit wallet: %w", err)
		}
		if err := s.treasury.Deposit(ctx, req.AssetKind, fee); err != nil {
			slog.Error("Failed to merge fee into treasury, refunding", "error", err, "kind", req.AssetKind, "fee", fee)
			if rerr := s.walletRepo.Credit(ctx, accountID, req.AssetKind, fee); rerr != nil {
				slog.Error("Failed to refund fee after treasury failure", "error", rerr, "accountId", accountID, "fee", fee)
			}
			s.releaseReserved(ctx, nftRef)
			return nil, fmt.Errorf("failed to merge fee into treasury: %w", err)
		}
	}

	// 8. Credit the reward ledger in one atomic update
	credit := &models.LedgerCredit{
		Tickets:   result.tickets,
		Secondary: result.secondary,
	}
	if result.amountWon > 0 {
		credit.Amounts = map[string]int64{req.AssetKind: result.amountWon}
	}
	if nftRef != "" {
		credit.NFTRefs = []string{nftRef}
	}
	if result.amountWon > 0 || nftRef != "" || result.tickets > 0 || result.secondary > 0 {
		if err := s.ledgerRepo.ApplyCredit(ctx, accountID, credit); err != nil {
			slog.Error("Failed to credit reward ledger", "error", err, "accountId", accountID, "game", game)
			s.rollbackFee(ctx, accountID, req.AssetKind, fee, voucherUsed)
			s.releaseReserved(ctx, nftRef)
			return nil, fmt.Errorf("failed to credit reward ledger: %w", err)
		}
	}

	// 9. Audit record; never fails the settled play
	status := models.PlayStatusLost
	if result.won {
		status = models.PlayStatusWon
	}
	record := &models.PlayRecord{
		AccountID:        accountID,
		Game:             game,
		AssetKind:        req.AssetKind,
		Stake:            req.Stake,
		Status:           status,
		Draw:             result.draw,
		DrawDetail:       result.drawDetail,
		LandedFace:       result.landedFace,
		Tier:             result.tier,
		Reward:           result.reward,
		AmountWon:        result.amountWon,
		SecondaryAwarded: result.secondary,
		TicketsAwarded:   result.tickets,
		NFTRef:           nftRef,
		VoucherUsed:      voucherUsed,
	}
	if err := s.playRepo.Create(ctx, record); err != nil {
		slog.Error("Failed to persist play record", "error", err, "accountId", accountID, "game", game)
	}

	metrics.RecordPlay(string(game), string(status), req.AssetKind, result.amountWon, time.Since(start))
	s.eventService.Emit(&models.Event{
		Type:      models.EventPlaySettled,
		Source:    "settlement",
		AccountID: accountID,
		Payload: map[string]interface{}{
			"game":      string(game),
			"assetKind": req.AssetKind,
			"stake":     req.Stake,
			"status":    string(status),
			"amountWon": result.amountWon,
		},
	})

	return &models.PlayOutcome{
		Status:           status,
		Draw:             result.draw,
		DrawDetail:       result.drawDetail,
		LandedFace:       result.landedFace,
		Tier:             result.tier,
		Reward:           result.reward,
		AmountWon:        result.amountWon,
		SecondaryAwarded: result.secondary,
		TicketsAwarded:   result.tickets,
		NFTRef:           nftRef,
		VoucherUsed:      voucherUsed,
	}, nil
}

// resolve obtains the draw and settles it against the config snapshot.
// Pure aside from consuming draws; no repository writes.
func (s *GameServiceImpl) resolve(game models.GameKind, config *models.GameConfig, req *models.PlayRequest) (*playResolution, error) {
	switch game {
	case models.GameWheel:
		return s.resolveTable(config.Tiers, req.Stake, config.ExchangeRate)

	case models.GameNFTLottery:
		return s.resolveTable(gamemath.NFTLotteryTiers(req.WinningPercent), req.Stake, config.ExchangeRate)

	case models.GameDice:
		die1, err := s.draws.Intn(6)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain draw: %w", err)
		}
		die2, err := s.draws.Intn(6)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain draw: %w", err)
		}
		die1, die2 = die1+1, die2+1
		won := gamemath.ResolveDice(req.BetVector, config.DiceMultipliers, die1, die2)
		r := &playResolution{
			draw:       die1 + die2,
			drawDetail: []int64{die1, die2},
			reward:     models.RewardAsset,
			amountWon:  won,
			won:        won > 0,
		}
		if won == 0 {
			// Losing dice plays keep a floor: one unit of the stake
			// asset plus the secondary consolation.
			r.amountWon = gamemath.DiceLossGrant
			r.secondary = gamemath.Consolation(req.Stake, config.ExchangeRate)
		}
		return r, nil

	case models.GameCoinFlip:
		draw, err := s.draws.Intn(gamemath.CoinFlipDrawRange)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain draw: %w", err)
		}
		draw++ // coin flip draws live in [1, 100]
		landed, won := gamemath.ResolveCoinFlip(req.SelectedFace, draw, config.HouseEdgeNumerator, config.HouseEdgeDenominator)
		r := &playResolution{
			draw:       draw,
			landedFace: landed,
			reward:     models.RewardAsset,
			won:        won,
		}
		if won {
			r.amountWon = gamemath.Payout(req.Stake, gamemath.CoinFlipWinMultiplier)
		} else {
			r.secondary = gamemath.Consolation(req.Stake, config.ExchangeRate)
		}
		return r, nil

	case models.GamePlinko:
		rows := len(config.PlinkoMultipliers) - 1
		var total int64
		slots := make([]int64, 0, req.Balls)
		for i := 0; i < req.Balls; i++ {
			path, err := s.draws.Bytes(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to obtain draw: %w", err)
			}
			slot := gamemath.PlinkoSlot(path)
			slots = append(slots, int64(slot))
			total += gamemath.ResolvePlinko(req.Stake, slot, config.PlinkoMultipliers)
		}
		r := &playResolution{
			drawDetail: slots,
			reward:     models.RewardAsset,
			amountWon:  total,
			won:        total > 0,
		}
		if total == 0 {
			r.secondary = gamemath.Consolation(req.Stake*int64(req.Balls), config.ExchangeRate)
		}
		return r, nil
	}
	return nil, fmt.Errorf("%q: %w", game, ErrInvalidGameKind)
}

// resolveTable settles one draw against a cumulative tier table
func (s *GameServiceImpl) resolveTable(tiers []models.TierEntry, stake, exchangeRate int64) (*playResolution, error) {
	draw, err := s.draws.Intn(gamemath.DrawRange)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain draw: %w", err)
	}
	tier, err := gamemath.AllotTier(tiers, draw)
	if err != nil {
		// Unreachable for a validated table; a configuration invariant
		// was violated.
		slog.Error("Draw escaped the tier table", "error", err, "draw", draw)
		return nil, err
	}

	entry := tiers[tier]
	r := &playResolution{
		draw:   draw,
		tier:   tier,
		reward: entry.Reward,
	}
	switch entry.Reward {
	case models.RewardAsset:
		r.amountWon = gamemath.Payout(stake, entry.Multiplier)
		r.won = r.amountWon > 0
		if !r.won {
			r.secondary = gamemath.Consolation(stake, exchangeRate)
		}
	case models.RewardNFT:
		r.wantsNFT = true
		r.won = true
	case models.RewardSecondary:
		r.secondary = entry.Amount
		r.won = true
	case models.RewardTickets:
		r.tickets = entry.Amount
		r.won = true
	}
	return r, nil
}

// consumeVoucher finds and consumes the first ledger voucher matching the
// play. A missing or contested voucher quietly falls through to a paid
// play.
func (s *GameServiceImpl) consumeVoucher(ctx context.Context, accountID primitive.ObjectID, game models.GameKind, assetKind string, fee int64) bool {
	ledger, err := s.ledgerRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return false
	}
	for _, v := range ledger.FreePlayVouchers {
		if v.Game != game || v.AssetKind != assetKind || v.Stake != fee {
			continue
		}
		if err := s.ledgerRepo.ConsumeVoucher(ctx, accountID, v.Ref); err != nil {
			slog.Warn("Voucher vanished before consumption", "error", err, "accountId", accountID, "ref", v.Ref)
			return false
		}
		return true
	}
	return false
}

// releaseReserved returns a reserved collectible to circulation after a
// failed play
func (s *GameServiceImpl) releaseReserved(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.inventoryRepo.Release(ctx, ref); err != nil {
		slog.Error("Failed to release reserved inventory item", "error", err, "ref", ref)
	}
}

// rollbackFee undoes a collected fee after a later step failed. Voucher
// fees have nothing to undo beyond the lost voucher, which is logged.
func (s *GameServiceImpl) rollbackFee(ctx context.Context, accountID primitive.ObjectID, kind string, fee int64, voucherUsed bool) {
	if voucherUsed {
		slog.Error("Voucher consumed by a play that failed to settle", "accountId", accountID, "kind", kind)
		return
	}
	if err := s.treasury.Extract(ctx, kind, fee); err != nil {
		slog.Error("Failed to extract fee during rollback", "error", err, "kind", kind, "fee", fee)
		return
	}
	if err := s.walletRepo.Credit(ctx, accountID, kind, fee); err != nil {
		slog.Error("Failed to refund fee during rollback", "error", err, "accountId", accountID, "fee", fee)
	}
}
