package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure SettingsServiceImpl implements SettingsService
var _ SettingsService = (*SettingsServiceImpl)(nil)

// SettingsServiceImpl manages the platform settings singleton and the
// account blacklist
type SettingsServiceImpl struct {
	settingsRepo  repositories.PlatformSettingsRepository
	blacklistRepo repositories.BlacklistRepository
	eventService  *EventService
}

// NewSettingsService creates a new SettingsServiceImpl
func NewSettingsService(
	settingsRepo repositories.PlatformSettingsRepository,
	blacklistRepo repositories.BlacklistRepository,
	eventService *EventService,
) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		settingsRepo:  settingsRepo,
		blacklistRepo: blacklistRepo,
		eventService:  eventService,
	}
}

// Get returns the current platform settings
func (s *SettingsServiceImpl) Get(ctx context.Context) (*models.PlatformSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		slog.Error("Failed to read platform settings", "error", err)
		return nil, fmt.Errorf("failed to read platform settings: %w", err)
	}
	return settings, nil
}

// Update patches the settings singleton. Only the fields present in the
// request change; everything else keeps its stored value.
func (s *SettingsServiceImpl) Update(ctx context.Context, req *models.UpdateSettingsRequest, updatedBy string) (*models.PlatformSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		slog.Error("Failed to read platform settings", "error", err)
		return nil, fmt.Errorf("failed to read platform settings: %w", err)
	}

	if req.RafflesActive != nil {
		settings.RafflesActive = *req.RafflesActive
	}
	if req.RaffleEntryFee != nil {
		if *req.RaffleEntryFee < 0 {
			return nil, fmt.Errorf("entry fee %d: %w", *req.RaffleEntryFee, ErrInvalidAmount)
		}
		settings.RaffleEntryFee = *req.RaffleEntryFee
	}
	if req.BaseAssetKind != "" {
		settings.BaseAssetKind = req.BaseAssetKind
	}
	if req.Maintenance != nil {
		settings.Maintenance = *req.Maintenance
	}
	settings.UpdatedBy = updatedBy

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		slog.Error("Failed to update platform settings", "error", err, "updatedBy", updatedBy)
		return nil, fmt.Errorf("failed to update platform settings: %w", err)
	}

	slog.Info("Platform settings updated",
		"rafflesActive", settings.RafflesActive,
		"raffleEntryFee", settings.RaffleEntryFee,
		"maintenance", settings.Maintenance,
		"updatedBy", updatedBy)
	return settings, nil
}

// Blacklist bars an account from plays and raffle entries
func (s *SettingsServiceImpl) Blacklist(ctx context.Context, accountID primitive.ObjectID, reason, bannedBy string) error {
	entry := &models.BlacklistEntry{
		AccountID: accountID,
		Reason:    reason,
		BannedBy:  bannedBy,
	}
	if err := s.blacklistRepo.Add(ctx, entry); err != nil {
		slog.Error("Failed to blacklist account", "error", err, "accountId", accountID)
		return fmt.Errorf("failed to blacklist account: %w", err)
	}

	slog.Info("Account blacklisted", "accountId", accountID, "reason", reason, "bannedBy", bannedBy)
	s.eventService.Emit(&models.Event{
		Type:      models.EventAccountBlacklisted,
		Source:    "settings",
		AccountID: accountID,
		Payload: map[string]interface{}{
			"reason":   reason,
			"bannedBy": bannedBy,
		},
	})
	return nil
}

// Unblacklist lifts a ban
func (s *SettingsServiceImpl) Unblacklist(ctx context.Context, accountID primitive.ObjectID) error {
	if err := s.blacklistRepo.Remove(ctx, accountID); err != nil {
		slog.Error("Failed to unblacklist account", "error", err, "accountId", accountID)
		return fmt.Errorf("failed to unblacklist account: %w", err)
	}
	slog.Info("Account unblacklisted", "accountId", accountID)
	return nil
}

// ListBlacklist pages through blacklist entries
func (s *SettingsServiceImpl) ListBlacklist(ctx context.Context, page, limit int) ([]*models.BlacklistEntry, error) {
	entries, err := s.blacklistRepo.FindAll(ctx, page, limit)
	if err != nil {
		slog.Error("Failed to list blacklist", "error", err)
		return nil, fmt.Errorf("failed to list blacklist: %w", err)
	}
	return entries, nil
}
