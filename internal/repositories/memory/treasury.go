package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

var _ repositories.TreasuryRepository = (*TreasuryRepository)(nil)

// TreasuryRepository is an in-memory treasury pool store.
type TreasuryRepository struct {
	mu    sync.RWMutex
	pools map[string]*models.TreasuryPool
}

// NewTreasuryRepository creates an empty in-memory treasury store.
func NewTreasuryRepository() *TreasuryRepository {
	return &TreasuryRepository{pools: make(map[string]*models.TreasuryPool)}
}

func (r *TreasuryRepository) FindByKind(_ context.Context, kind string) (*models.TreasuryPool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool, ok := r.pools[kind]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *pool
	return &clone, nil
}

func (r *TreasuryRepository) FindAll(_ context.Context) ([]*models.TreasuryPool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.TreasuryPool, 0, len(r.pools))
	for _, pool := range r.pools {
		clone := *pool
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetKind < out[j].AssetKind })
	return out, nil
}

func (r *TreasuryRepository) Create(_ context.Context, pool *models.TreasuryPool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool.ID = primitive.NewObjectID()
	pool.CreatedAt = time.Now()
	pool.UpdatedAt = time.Now()

	clone := *pool
	r.pools[pool.AssetKind] = &clone
	return nil
}

func (r *TreasuryRepository) Credit(_ context.Context, kind string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.pools[kind]
	if !ok {
		pool = &models.TreasuryPool{
			ID:        primitive.NewObjectID(),
			AssetKind: kind,
			Active:    true,
			CreatedAt: time.Now(),
		}
		r.pools[kind] = pool
	}
	pool.Balance += amount
	pool.TotalDeposited += amount
	pool.UpdatedAt = time.Now()
	return nil
}

func (r *TreasuryRepository) Debit(_ context.Context, kind string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.pools[kind]
	if !ok || pool.Balance < amount {
		return mongo.ErrNoDocuments
	}
	pool.Balance -= amount
	pool.TotalExtracted += amount
	pool.UpdatedAt = time.Now()
	return nil
}

func (r *TreasuryRepository) SetActive(_ context.Context, kind string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.pools[kind]
	if !ok {
		return mongo.ErrNoDocuments
	}
	pool.Active = active
	pool.UpdatedAt = time.Now()
	return nil
}

var _ repositories.GameConfigRepository = (*GameConfigRepository)(nil)

type configKey struct {
	game models.GameKind
	kind string
}

// GameConfigRepository is an in-memory game configuration store.
type GameConfigRepository struct {
	mu      sync.RWMutex
	configs map[configKey]*models.GameConfig
}

// NewGameConfigRepository creates an empty in-memory config store.
func NewGameConfigRepository() *GameConfigRepository {
	return &GameConfigRepository{configs: make(map[configKey]*models.GameConfig)}
}

func (r *GameConfigRepository) FindByGameAndKind(_ context.Context, game models.GameKind, assetKind string) (*models.GameConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[configKey{game, assetKind}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneConfig(config), nil
}

func (r *GameConfigRepository) FindAll(_ context.Context) ([]*models.GameConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.GameConfig, 0, len(r.configs))
	for _, config := range r.configs {
		out = append(out, cloneConfig(config))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Game != out[j].Game {
			return out[i].Game < out[j].Game
		}
		return out[i].AssetKind < out[j].AssetKind
	})
	return out, nil
}

func (r *GameConfigRepository) Upsert(_ context.Context, config *models.GameConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := configKey{config.Game, config.AssetKind}
	config.UpdatedAt = time.Now()
	if existing, ok := r.configs[key]; ok {
		config.ID = existing.ID
		config.CreatedAt = existing.CreatedAt
	} else {
		config.ID = primitive.NewObjectID()
		config.CreatedAt = time.Now()
	}
	r.configs[key] = cloneConfig(config)
	return nil
}

func (r *GameConfigRepository) SetActive(_ context.Context, game models.GameKind, assetKind string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	config, ok := r.configs[configKey{game, assetKind}]
	if !ok {
		return mongo.ErrNoDocuments
	}
	config.Active = active
	config.UpdatedAt = time.Now()
	return nil
}

func (r *GameConfigRepository) Delete(_ context.Context, game models.GameKind, assetKind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, configKey{game, assetKind})
	return nil
}

func cloneConfig(config *models.GameConfig) *models.GameConfig {
	clone := *config
	clone.Tiers = append([]models.TierEntry(nil), config.Tiers...)
	clone.DiceMultipliers = append([]int64(nil), config.DiceMultipliers...)
	clone.PlinkoMultipliers = append([]int64(nil), config.PlinkoMultipliers...)
	return &clone
}
