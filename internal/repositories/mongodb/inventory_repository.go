package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure InventoryRepository implements the interface
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// InventoryRepository handles MongoDB operations for the NFT prize inventory
type InventoryRepository struct {
	collection *mongo.Collection
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{
		collection: db.Collection("nft_inventory"),
	}
}

// Add inserts a batch of inventory items
func (r *InventoryRepository) Add(ctx context.Context, items []*models.NFTItem) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(items))
	now := time.Now()
	for _, item := range items {
		item.ID = primitive.NewObjectID()
		item.CreatedAt = now
		item.UpdatedAt = now
		docs = append(docs, item)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// PopAvailable atomically reserves one unreserved item and returns it.
// Returns mongo.ErrNoDocuments when the inventory is exhausted.
func (r *InventoryRepository) PopAvailable(ctx context.Context, reservedBy primitive.ObjectID) (*models.NFTItem, error) {
	filter := bson.M{"reserved": false}
	update := bson.M{"$set": bson.M{
		"reserved":   true,
		"reservedBy": reservedBy,
		"updatedAt":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.NFTItem
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Release returns a reserved item to the available pool
func (r *InventoryRepository) Release(ctx context.Context, ref string) error {
	update := bson.M{
		"$set": bson.M{
			"reserved":  false,
			"updatedAt": time.Now(),
		},
		"$unset": bson.M{"reservedBy": ""},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"ref": ref}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Remove deletes an item once custody of the prize has moved off-platform
func (r *InventoryRepository) Remove(ctx context.Context, ref string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"ref": ref})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountAvailable counts unreserved items
func (r *InventoryRepository) CountAvailable(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"reserved": false})
}

// FindAll retrieves inventory items with pagination
func (r *InventoryRepository) FindAll(ctx context.Context, page, limit int) ([]*models.NFTItem, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.NFTItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.NFTItem{}
	}
	return items, nil
}
