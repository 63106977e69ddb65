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

// Compile-time check to ensure ClaimRepository implements the interface
var _ repositories.ClaimRepository = (*ClaimRepository)(nil)

// ClaimRepository handles MongoDB operations for claim receipts
type ClaimRepository struct {
	collection *mongo.Collection
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(db *mongo.Database) *ClaimRepository {
	return &ClaimRepository{
		collection: db.Collection("claims"),
	}
}

// Create inserts a claim receipt
func (r *ClaimRepository) Create(ctx context.Context, receipt *models.ClaimReceipt) error {
	receipt.ID = primitive.NewObjectID()
	receipt.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, receipt)
	return err
}

// FindByAccount retrieves claim receipts for one account
func (r *ClaimRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.ClaimReceipt, error) {
	return r.find(ctx, bson.M{"accountId": accountID}, page, limit)
}

// FindAll retrieves claim receipts with pagination
func (r *ClaimRepository) FindAll(ctx context.Context, page, limit int) ([]*models.ClaimReceipt, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *ClaimRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.ClaimReceipt, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var receipts []*models.ClaimReceipt
	if err = cursor.All(ctx, &receipts); err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []*models.ClaimReceipt{}
	}
	return receipts, nil
}
