package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure InventoryServiceImpl implements InventoryService
var _ InventoryService = (*InventoryServiceImpl)(nil)

// InventoryServiceImpl manages the platform's collectible voucher inventory
type InventoryServiceImpl struct {
	inventoryRepo repositories.InventoryRepository
}

// NewInventoryService creates a new InventoryServiceImpl
func NewInventoryService(inventoryRepo repositories.InventoryRepository) *InventoryServiceImpl {
	return &InventoryServiceImpl{inventoryRepo: inventoryRepo}
}

// Add registers voucher references into the inventory. Blank refs and
// duplicates within the batch are skipped; the number of items actually
// registered is returned.
func (s *InventoryServiceImpl) Add(ctx context.Context, refs []string, collection, addedBy string) (int, error) {
	seen := make(map[string]bool, len(refs))
	items := make([]*models.NFTItem, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		items = append(items, &models.NFTItem{
			Ref:        ref,
			Collection: collection,
			AddedBy:    addedBy,
		})
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("no usable refs in batch of %d: %w", len(refs), ErrInvalidSelector)
	}

	if err := s.inventoryRepo.Add(ctx, items); err != nil {
		slog.Error("Failed to add inventory items", "error", err, "count", len(items))
		return 0, fmt.Errorf("failed to add inventory items: %w", err)
	}

	slog.Info("Inventory items added", "count", len(items), "collection", collection, "addedBy", addedBy)
	return len(items), nil
}

// List pages through inventory items, reserved ones included
func (s *InventoryServiceImpl) List(ctx context.Context, page, limit int) ([]*models.NFTItem, error) {
	items, err := s.inventoryRepo.FindAll(ctx, page, limit)
	if err != nil {
		slog.Error("Failed to list inventory", "error", err)
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// CountAvailable returns how many items remain unreserved
func (s *InventoryServiceImpl) CountAvailable(ctx context.Context) (int64, error) {
	return s.inventoryRepo.CountAvailable(ctx)
}
