// Package memory provides thread-safe in-memory implementations of the
// repository interfaces. They are intended for tests and prototyping and
// deliberately keep the implementation simple. Not-found conditions return
// mongo.ErrNoDocuments so callers behave exactly as they do against the
// MongoDB-backed implementations.
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

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository is an in-memory account store.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts []*models.Account
}

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

func (r *AccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	clone := *account
	r.accounts = append(r.accounts, &clone)
	return nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *AccountRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *AccountRepository) Update(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.accounts {
		if a.ID == account.ID {
			account.UpdatedAt = time.Now()
			clone := *account
			r.accounts[i] = &clone
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *AccountRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.accounts {
		if a.ID == id {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *AccountRepository) FindAll(_ context.Context, page, limit int) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		clone := *a
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}

func (r *AccountRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.accounts)), nil
}

var _ repositories.BlacklistRepository = (*BlacklistRepository)(nil)

// BlacklistRepository is an in-memory blacklist store.
type BlacklistRepository struct {
	mu      sync.RWMutex
	entries map[primitive.ObjectID]*models.BlacklistEntry
}

// NewBlacklistRepository creates an empty in-memory blacklist.
func NewBlacklistRepository() *BlacklistRepository {
	return &BlacklistRepository{entries: make(map[primitive.ObjectID]*models.BlacklistEntry)}
}

func (r *BlacklistRepository) IsBlacklisted(_ context.Context, accountID primitive.ObjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[accountID]
	return ok, nil
}

func (r *BlacklistRepository) Add(_ context.Context, entry *models.BlacklistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	clone.CreatedAt = time.Now()
	r.entries[entry.AccountID] = &clone
	return nil
}

func (r *BlacklistRepository) Remove(_ context.Context, accountID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[accountID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.entries, accountID)
	return nil
}

func (r *BlacklistRepository) FindAll(_ context.Context, page, limit int) ([]*models.BlacklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.BlacklistEntry, 0, len(r.entries))
	for _, e := range r.entries {
		clone := *e
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}

var _ repositories.PlatformSettingsRepository = (*PlatformSettingsRepository)(nil)

// PlatformSettingsRepository is an in-memory settings singleton.
type PlatformSettingsRepository struct {
	mu       sync.RWMutex
	settings *models.PlatformSettings
}

// NewPlatformSettingsRepository creates a settings store seeded with defaults.
func NewPlatformSettingsRepository() *PlatformSettingsRepository {
	return &PlatformSettingsRepository{}
}

func (r *PlatformSettingsRepository) Get(_ context.Context) (*models.PlatformSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil {
		defaults := models.DefaultPlatformSettings()
		defaults.ID = primitive.NewObjectID()
		defaults.CreatedAt = time.Now()
		defaults.UpdatedAt = time.Now()
		r.settings = defaults
	}
	clone := *r.settings
	return &clone, nil
}

func (r *PlatformSettingsRepository) Update(_ context.Context, settings *models.PlatformSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings.UpdatedAt = time.Now()
	clone := *settings
	r.settings = &clone
	return nil
}

// paginate slices newest-first the way the MongoDB implementations sort.
func paginate[T any](items []*T, page, limit int) []*T {
	reversed := make([]*T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		reversed = append(reversed, items[i])
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return reversed
	}

	start := (page - 1) * limit
	if start >= len(reversed) {
		return []*T{}
	}
	end := start + limit
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[start:end]
}
