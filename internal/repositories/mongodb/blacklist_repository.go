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

// Compile-time check to ensure BlacklistRepository implements the interface
var _ repositories.BlacklistRepository = (*BlacklistRepository)(nil)

// BlacklistRepository handles MongoDB operations for banned accounts
type BlacklistRepository struct {
	collection *mongo.Collection
}

// NewBlacklistRepository creates a new BlacklistRepository
func NewBlacklistRepository(db *mongo.Database) *BlacklistRepository {
	return &BlacklistRepository{
		collection: db.Collection("blacklist"),
	}
}

// IsBlacklisted reports whether an account is banned
func (r *BlacklistRepository) IsBlacklisted(ctx context.Context, accountID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"accountId": accountID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add bans an account. Adding an already banned account refreshes the entry.
func (r *BlacklistRepository) Add(ctx context.Context, entry *models.BlacklistEntry) error {
	filter := bson.M{"accountId": entry.AccountID}
	update := bson.M{
		"$set": bson.M{
			"reason":    entry.Reason,
			"bannedBy":  entry.BannedBy,
			"createdAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Remove lifts the ban on an account
func (r *BlacklistRepository) Remove(ctx context.Context, accountID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"accountId": accountID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindAll retrieves blacklist entries with pagination
func (r *BlacklistRepository) FindAll(ctx context.Context, page, limit int) ([]*models.BlacklistEntry, error) {
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

	var entries []*models.BlacklistEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.BlacklistEntry{}
	}
	return entries, nil
}
