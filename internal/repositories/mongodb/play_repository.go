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

// Compile-time check to ensure PlayRepository implements the interface
var _ repositories.PlayRepository = (*PlayRepository)(nil)

// PlayRepository handles MongoDB operations for settled play records
type PlayRepository struct {
	collection *mongo.Collection
}

// NewPlayRepository creates a new PlayRepository
func NewPlayRepository(db *mongo.Database) *PlayRepository {
	return &PlayRepository{
		collection: db.Collection("play_records"),
	}
}

// Create inserts a settled play record
func (r *PlayRepository) Create(ctx context.Context, record *models.PlayRecord) error {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// FindByAccount retrieves one account's play history, newest first
func (r *PlayRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.PlayRecord, error) {
	return r.find(ctx, bson.M{"accountId": accountID}, page, limit)
}

// FindAll retrieves play records with pagination, newest first
func (r *PlayRepository) FindAll(ctx context.Context, page, limit int) ([]*models.PlayRecord, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

// Count returns the total number of play records
func (r *PlayRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *PlayRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.PlayRecord, error) {
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

	var records []*models.PlayRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.PlayRecord{}
	}
	return records, nil
}
