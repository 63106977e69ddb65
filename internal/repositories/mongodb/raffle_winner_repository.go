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

// Compile-time check to ensure RaffleWinnerRepository implements the interface
var _ repositories.RaffleWinnerRepository = (*RaffleWinnerRepository)(nil)

// RaffleWinnerRepository handles MongoDB operations for raffle winners
type RaffleWinnerRepository struct {
	collection *mongo.Collection
}

// NewRaffleWinnerRepository creates a new RaffleWinnerRepository
func NewRaffleWinnerRepository(db *mongo.Database) *RaffleWinnerRepository {
	return &RaffleWinnerRepository{
		collection: db.Collection("raffle_winners"),
	}
}

// CreateMany inserts a batch of winners from a single resolution
func (r *RaffleWinnerRepository) CreateMany(ctx context.Context, winners []*models.RaffleWinner) error {
	if len(winners) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(winners))
	now := time.Now()
	for _, w := range winners {
		w.ID = primitive.NewObjectID()
		w.CreatedAt = now
		if w.WonAt.IsZero() {
			w.WonAt = now
		}
		docs = append(docs, w)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByRaffleID retrieves all winners of a raffle
func (r *RaffleWinnerRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleWinner, error) {
	return r.find(ctx, bson.M{"raffleId": raffleID}, 1, 1000)
}

// FindByAccount retrieves raffle wins for one account
func (r *RaffleWinnerRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.RaffleWinner, error) {
	return r.find(ctx, bson.M{"accountId": accountID}, page, limit)
}

// FindAll retrieves winners with pagination
func (r *RaffleWinnerRepository) FindAll(ctx context.Context, page, limit int) ([]*models.RaffleWinner, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *RaffleWinnerRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.RaffleWinner, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"wonAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.RaffleWinner
	if err = cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []*models.RaffleWinner{}
	}
	return winners, nil
}
