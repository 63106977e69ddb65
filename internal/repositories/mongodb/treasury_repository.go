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

// Compile-time check to ensure TreasuryRepository implements the interface
var _ repositories.TreasuryRepository = (*TreasuryRepository)(nil)

// TreasuryRepository handles MongoDB operations for treasury pools. One
// document per asset kind, keyed by the assetKind field.
type TreasuryRepository struct {
	collection *mongo.Collection
}

// NewTreasuryRepository creates a new TreasuryRepository
func NewTreasuryRepository(db *mongo.Database) *TreasuryRepository {
	return &TreasuryRepository{
		collection: db.Collection("treasury_pools"),
	}
}

// FindByKind finds the pool for one asset kind
func (r *TreasuryRepository) FindByKind(ctx context.Context, kind string) (*models.TreasuryPool, error) {
	var pool models.TreasuryPool
	err := r.collection.FindOne(ctx, bson.M{"assetKind": kind}).Decode(&pool)
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// FindAll retrieves every pool
func (r *TreasuryRepository) FindAll(ctx context.Context) ([]*models.TreasuryPool, error) {
	opts := options.Find().SetSort(bson.M{"assetKind": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pools []*models.TreasuryPool
	if err = cursor.All(ctx, &pools); err != nil {
		return nil, err
	}
	if pools == nil {
		pools = []*models.TreasuryPool{}
	}
	return pools, nil
}

// Create inserts a new pool
func (r *TreasuryRepository) Create(ctx context.Context, pool *models.TreasuryPool) error {
	pool.ID = primitive.NewObjectID()
	pool.CreatedAt = time.Now()
	pool.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, pool)
	return err
}

// Credit atomically adds amount to the balance and the lifetime deposit
// counter, creating the pool (active) on first deposit.
func (r *TreasuryRepository) Credit(ctx context.Context, kind string, amount int64) error {
	filter := bson.M{"assetKind": kind}
	update := bson.M{
		"$inc": bson.M{"balance": amount, "totalDeposited": amount},
		"$set": bson.M{"updatedAt": time.Now()},
		"$setOnInsert": bson.M{
			"assetKind": kind,
			"active":    true,
			"createdAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Debit atomically subtracts amount, guarded so a stale read can never
// push the balance negative. A non-matching filter surfaces as
// mongo.ErrNoDocuments.
func (r *TreasuryRepository) Debit(ctx context.Context, kind string, amount int64) error {
	filter := bson.M{"assetKind": kind, "balance": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"balance": -amount, "totalExtracted": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetActive flips the active flag without touching the balance
func (r *TreasuryRepository) SetActive(ctx context.Context, kind string, active bool) error {
	filter := bson.M{"assetKind": kind}
	update := bson.M{"$set": bson.M{"active": active, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
