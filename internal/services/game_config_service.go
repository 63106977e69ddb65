package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/gamemath"
	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure GameConfigServiceImpl implements GameConfigService
var _ GameConfigService = (*GameConfigServiceImpl)(nil)

// GameConfigServiceImpl manages the administrator-written game
// configurations. Every invariant the settlement engine relies on —
// exhaustive tier tables, full multiplier vectors, whole-percentage house
// edges — is enforced here at write time, so the engine never validates
// tables at play time.
type GameConfigServiceImpl struct {
	configRepo repositories.GameConfigRepository
}

// NewGameConfigService creates a new GameConfigServiceImpl
func NewGameConfigService(configRepo repositories.GameConfigRepository) *GameConfigServiceImpl {
	return &GameConfigServiceImpl{
		configRepo: configRepo,
	}
}

// Upsert validates and persists a configuration for one game on one asset
// kind, filling the shipped defaults for any table left empty.
func (s *GameConfigServiceImpl) Upsert(ctx context.Context, config *models.GameConfig) (*models.GameConfig, error) {
	if err := s.validate(config); err != nil {
		slog.Warn("Rejected game config", "error", err, "game", config.Game, "assetKind", config.AssetKind)
		return nil, err
	}

	if err := s.configRepo.Upsert(ctx, config); err != nil {
		slog.Error("Failed to upsert game config", "error", err, "game", config.Game, "assetKind", config.AssetKind)
		return nil, fmt.Errorf("failed to upsert game config: %w", err)
	}

	slog.Info("Game config written", "game", config.Game, "assetKind", config.AssetKind, "active", config.Active)
	return config, nil
}

// Get retrieves the configuration for one game on one asset kind
func (s *GameConfigServiceImpl) Get(ctx context.Context, game models.GameKind, assetKind string) (*models.GameConfig, error) {
	config, err := s.configRepo.FindByGameAndKind(ctx, game, assetKind)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s on %s: %w", game, assetKind, ErrGameNotConfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game config: %w", err)
	}
	return config, nil
}

// List retrieves every configuration
func (s *GameConfigServiceImpl) List(ctx context.Context) ([]*models.GameConfig, error) {
	return s.configRepo.FindAll(ctx)
}

// SetActive opens or closes one game on one asset kind
func (s *GameConfigServiceImpl) SetActive(ctx context.Context, game models.GameKind, assetKind string, active bool) error {
	err := s.configRepo.SetActive(ctx, game, assetKind, active)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("%s on %s: %w", game, assetKind, ErrGameNotConfigured)
	}
	if err != nil {
		slog.Error("Failed to set game config active flag", "error", err, "game", game, "assetKind", assetKind)
		return fmt.Errorf("failed to set game config active flag: %w", err)
	}
	slog.Info("Game config active flag set", "game", game, "assetKind", assetKind, "active", active)
	return nil
}

// Delete removes the configuration for one game on one asset kind
func (s *GameConfigServiceImpl) Delete(ctx context.Context, game models.GameKind, assetKind string) error {
	if err := s.configRepo.Delete(ctx, game, assetKind); err != nil {
		slog.Error("Failed to delete game config", "error", err, "game", game, "assetKind", assetKind)
		return fmt.Errorf("failed to delete game config: %w", err)
	}
	return nil
}

// SeedDefaults writes the shipped configuration for every game on one
// asset kind. Games already configured are left untouched, so reseeding
// on startup is safe.
func (s *GameConfigServiceImpl) SeedDefaults(ctx context.Context, assetKind string) error {
	for _, game := range []models.GameKind{
		models.GameWheel,
		models.GameDice,
		models.GameCoinFlip,
		models.GamePlinko,
		models.GameNFTLottery,
	} {
		_, err := s.configRepo.FindByGameAndKind(ctx, game, assetKind)
		if err == nil {
			continue
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("failed to check existing config for %s: %w", game, err)
		}

		if _, err := s.Upsert(ctx, defaultConfig(game, assetKind)); err != nil {
			return fmt.Errorf("failed to seed %s config: %w", game, err)
		}
	}
	return nil
}

// validate enforces the configuration-time invariants and fills shipped
// defaults for empty tables.
func (s *GameConfigServiceImpl) validate(config *models.GameConfig) error {
	switch config.Game {
	case models.GameWheel, models.GameDice, models.GameCoinFlip, models.GamePlinko, models.GameNFTLottery:
	default:
		return fmt.Errorf("%q: %w", config.Game, ErrInvalidGameKind)
	}
	if config.AssetKind == "" {
		return fmt.Errorf("asset kind is required: %w", ErrInvalidSelector)
	}
	if config.MinStake <= 0 || config.MaxStake < config.MinStake {
		return fmt.Errorf("stake bounds [%d, %d]: %w", config.MinStake, config.MaxStake, ErrStakeOutOfBounds)
	}
	if config.ExchangeRate < 0 {
		return fmt.Errorf("negative exchange rate %d: %w", config.ExchangeRate, ErrInvalidAmount)
	}

	switch config.Game {
	case models.GameWheel:
		if len(config.Tiers) == 0 {
			config.Tiers = gamemath.DefaultWheelTiers()
		}
		if err := gamemath.ValidateTierTable(config.Tiers); err != nil {
			return err
		}

	case models.GameDice:
		if len(config.DiceMultipliers) == 0 {
			config.DiceMultipliers = gamemath.DefaultDiceMultipliers()
		}
		if len(config.DiceMultipliers) != gamemath.DiceSlots {
			return fmt.Errorf("%w: %d dice multipliers, want %d", gamemath.ErrInvalidTierTable, len(config.DiceMultipliers), gamemath.DiceSlots)
		}
		for i, m := range config.DiceMultipliers {
			if m < 0 {
				return fmt.Errorf("%w: negative dice multiplier at slot %d", gamemath.ErrInvalidTierTable, i)
			}
		}

	case models.GameCoinFlip:
		if config.HouseEdgeDenominator == 0 && config.HouseEdgeNumerator == 0 {
			config.HouseEdgeNumerator = 100
			config.HouseEdgeDenominator = 10
		}
		if err := gamemath.ValidateHouseEdge(config.HouseEdgeNumerator, config.HouseEdgeDenominator); err != nil {
			return err
		}

	case models.GamePlinko:
		if len(config.PlinkoMultipliers) == 0 {
			config.PlinkoMultipliers = gamemath.DefaultPlinkoMultipliers()
		}
		if len(config.PlinkoMultipliers) < 2 {
			return fmt.Errorf("%w: %d plinko slots, want at least 2", gamemath.ErrInvalidTierTable, len(config.PlinkoMultipliers))
		}
		for i, m := range config.PlinkoMultipliers {
			if m < 0 {
				return fmt.Errorf("%w: negative plinko multiplier at slot %d", gamemath.ErrInvalidTierTable, i)
			}
		}

	case models.GameNFTLottery:
		// Tiers are derived per play from the caller's winning
		// percentage; nothing table-shaped to validate.
	}
	return nil
}

// defaultConfig is the shipped configuration for one game on one asset kind
func defaultConfig(game models.GameKind, assetKind string) *models.GameConfig {
	config := &models.GameConfig{
		Game:         game,
		AssetKind:    assetKind,
		Active:       true,
		MinStake:     1,
		MaxStake:     1_000_000,
		ExchangeRate: 10,
	}
	switch game {
	case models.GameWheel:
		config.Tiers = gamemath.DefaultWheelTiers()
	case models.GameDice:
		config.DiceMultipliers = gamemath.DefaultDiceMultipliers()
	case models.GameCoinFlip:
		config.HouseEdgeNumerator = 100
		config.HouseEdgeDenominator = 10
	case models.GamePlinko:
		config.PlinkoMultipliers = gamemath.DefaultPlinkoMultipliers()
	}
	return config
}
