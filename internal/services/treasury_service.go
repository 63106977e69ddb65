package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/metrics"
	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure TreasuryServiceImpl implements TreasuryService
var _ TreasuryService = (*TreasuryServiceImpl)(nil)

// TreasuryServiceImpl owns the platform escrow pools. Every balance
// movement serializes through a per-kind lock, so the read-check-write
// sequences below never interleave for the same pool; the guarded
// repository updates are a second line of defense.
type TreasuryServiceImpl struct {
	treasuryRepo repositories.TreasuryRepository
	eventService *EventService
	locks        *keyedMutex
}

// NewTreasuryService creates a new TreasuryServiceImpl
func NewTreasuryService(treasuryRepo repositories.TreasuryRepository, eventService *EventService) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{
		treasuryRepo: treasuryRepo,
		eventService: eventService,
		locks:        newKeyedMutex(),
	}
}

// Deposit credits a pool unconditionally, creating it (active) on the
// first deposit for an asset kind. Inactive pools still accept deposits;
// the active flag only gates extraction.
func (s *TreasuryServiceImpl) Deposit(ctx context.Context, kind string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit of %d %s: %w", amount, kind, ErrInvalidAmount)
	}

	unlock := s.locks.Lock(kind)
	defer unlock()

	// 1. Overflow check against the current balance
	pool, err := s.treasuryRepo.FindByKind(ctx, kind)
	if err != nil && err != mongo.ErrNoDocuments {
		slog.Error("Failed to read treasury pool", "error", err, "kind", kind)
		return fmt.Errorf("failed to read treasury pool %s: %w", kind, err)
	}
	balance := int64(0)
	if pool != nil {
		balance = pool.Balance
	}
	if balance > math.MaxInt64-amount {
		slog.Error("Treasury deposit would overflow", "kind", kind, "balance", balance, "amount", amount)
		return fmt.Errorf("deposit of %d %s onto %d: %w", amount, kind, balance, ErrAmountOverflow)
	}

	// 2. Apply the credit
	if err := s.treasuryRepo.Credit(ctx, kind, amount); err != nil {
		slog.Error("Failed to credit treasury pool", "error", err, "kind", kind, "amount", amount)
		return fmt.Errorf("failed to credit treasury pool %s: %w", kind, err)
	}

	metrics.SetTreasuryBalance(kind, balance+amount)
	return nil
}

// Extract debits an active pool. The balance strictly decreases; the
// lifetime extracted counter strictly increases, so
// totalDeposited - totalExtracted == balance holds over any history.
func (s *TreasuryServiceImpl) Extract(ctx context.Context, kind string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("extract of %d %s: %w", amount, kind, ErrInvalidAmount)
	}

	unlock := s.locks.Lock(kind)
	defer unlock()

	// 1. Preconditions: pool exists, is active and covers the amount
	pool, err := s.treasuryRepo.FindByKind(ctx, kind)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("extract of %d %s from empty pool: %w", amount, kind, ErrInsufficientBalance)
	}
	if err != nil {
		slog.Error("Failed to read treasury pool", "error", err, "kind", kind)
		return fmt.Errorf("failed to read treasury pool %s: %w", kind, err)
	}
	if !pool.Active {
		return fmt.Errorf("extract of %d %s: %w", amount, kind, ErrPoolInactive)
	}
	if amount > pool.Balance {
		return fmt.Errorf("extract of %d %s from balance %d: %w", amount, kind, pool.Balance, ErrInsufficientBalance)
	}

	// 2. Apply the guarded debit
	if err := s.treasuryRepo.Debit(ctx, kind, amount); err != nil {
		slog.Error("Failed to debit treasury pool", "error", err, "kind", kind, "amount", amount)
		return fmt.Errorf("failed to debit treasury pool %s: %w", kind, err)
	}

	metrics.SetTreasuryBalance(kind, pool.Balance-amount)
	s.eventService.Emit(&models.Event{
		Type:   models.EventTreasuryMoved,
		Source: "treasury",
		Payload: map[string]interface{}{
			"kind":      kind,
			"direction": "extract",
			"amount":    amount,
		},
	})
	return nil
}

// ToggleActive flips a pool's active flag, leaving the balance untouched
func (s *TreasuryServiceImpl) ToggleActive(ctx context.Context, kind string) (*models.TreasuryPool, error) {
	unlock := s.locks.Lock(kind)
	defer unlock()

	pool, err := s.treasuryRepo.FindByKind(ctx, kind)
	if err != nil {
		slog.Error("Failed to find treasury pool for toggle", "error", err, "kind", kind)
		return nil, fmt.Errorf("treasury pool %s not found: %w", kind, err)
	}

	if err := s.treasuryRepo.SetActive(ctx, kind, !pool.Active); err != nil {
		slog.Error("Failed to toggle treasury pool", "error", err, "kind", kind)
		return nil, fmt.Errorf("failed to toggle treasury pool %s: %w", kind, err)
	}
	pool.Active = !pool.Active
	pool.UpdatedAt = time.Now()

	slog.Info("Treasury pool toggled", "kind", kind, "active", pool.Active)
	return pool, nil
}

// Pool returns one pool by asset kind
func (s *TreasuryServiceImpl) Pool(ctx context.Context, kind string) (*models.TreasuryPool, error) {
	return s.treasuryRepo.FindByKind(ctx, kind)
}

// Status snapshots every pool with the lifetime counters used for
// conservation audits
func (s *TreasuryServiceImpl) Status(ctx context.Context) (*models.TreasuryStatus, error) {
	pools, err := s.treasuryRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Failed to list treasury pools", "error", err)
		return nil, fmt.Errorf("failed to list treasury pools: %w", err)
	}

	status := &models.TreasuryStatus{Pools: pools}
	for _, pool := range pools {
		if pool.UpdatedAt.After(status.LastUpdatedAt) {
			status.LastUpdatedAt = pool.UpdatedAt
		}
	}
	return status, nil
}
