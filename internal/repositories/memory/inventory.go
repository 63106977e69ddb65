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

var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// InventoryRepository is an in-memory collectible inventory. Items are
// reserved in insertion order so test outcomes are deterministic.
type InventoryRepository struct {
	mu    sync.RWMutex
	items []*models.NFTItem
}

// NewInventoryRepository creates an empty in-memory inventory.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

func (r *InventoryRepository) Add(_ context.Context, items []*models.NFTItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, item := range items {
		item.ID = primitive.NewObjectID()
		item.CreatedAt = now
		item.UpdatedAt = now
		clone := *item
		r.items = append(r.items, &clone)
	}
	return nil
}

func (r *InventoryRepository) PopAvailable(_ context.Context, reservedBy primitive.ObjectID) (*models.NFTItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if !item.Reserved {
			item.Reserved = true
			item.ReservedBy = reservedBy
			item.UpdatedAt = time.Now()
			clone := *item
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *InventoryRepository) Release(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.Ref == ref {
			item.Reserved = false
			item.ReservedBy = primitive.NilObjectID
			item.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *InventoryRepository) Remove(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.Ref == ref {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *InventoryRepository) CountAvailable(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, item := range r.items {
		if !item.Reserved {
			count++
		}
	}
	return count, nil
}

func (r *InventoryRepository) FindAll(_ context.Context, page, limit int) ([]*models.NFTItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.NFTItem, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		out = append(out, &clone)
	}
	return paginate(out, page, limit), nil
}

var _ repositories.EventRepository = (*EventRepository)(nil)

// EventRepository is an in-memory observability event store.
type EventRepository struct {
	mu     sync.RWMutex
	events []*models.Event
}

// NewEventRepository creates an empty in-memory event store.
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()

	clone := *event
	r.events = append(r.events, &clone)
	return nil
}

func (r *EventRepository) FindByAccount(_ context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.Event, 0)
	for _, e := range r.events {
		if e.AccountID == accountID {
			clone := *e
			matched = append(matched, &clone)
		}
	}
	return paginate(matched, page, limit), nil
}

func (r *EventRepository) FindAll(_ context.Context, page, limit int, eventType models.EventType) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.Event, 0)
	for _, e := range r.events {
		if eventType == "" || e.Type == eventType {
			clone := *e
			matched = append(matched, &clone)
		}
	}
	return paginate(matched, page, limit), nil
}
