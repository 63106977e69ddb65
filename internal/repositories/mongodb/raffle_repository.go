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

// Compile-time check to ensure RaffleRepository implements the interface
var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// RaffleRepository handles MongoDB operations for raffles
type RaffleRepository struct {
	collection *mongo.Collection
}

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(db *mongo.Database) *RaffleRepository {
	return &RaffleRepository{
		collection: db.Collection("raffles"),
	}
}

// Create inserts a new raffle
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	raffle.ID = primitive.NewObjectID()
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = time.Now()
	if raffle.Participants == nil {
		raffle.Participants = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, raffle)
	return err
}

// FindByID finds a raffle by ID
func (r *RaffleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raffle)
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

// FindByStatus retrieves raffles in one lifecycle state
func (r *RaffleRepository) FindByStatus(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error) {
	return r.find(ctx, bson.M{"status": status}, page, limit)
}

// FindAll retrieves raffles with pagination
func (r *RaffleRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

// AppendParticipants atomically appends count copies of the account to the
// participant multiset, one entry per ticket spent.
func (r *RaffleRepository) AppendParticipants(ctx context.Context, raffleID, accountID primitive.ObjectID, count int) error {
	entries := make([]primitive.ObjectID, count)
	for i := range entries {
		entries[i] = accountID
	}
	update := bson.M{
		"$push": bson.M{"participants": bson.M{"$each": entries}},
		"$inc":  bson.M{"entryCount": count},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": raffleID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetActive flips the active flag and tracks the matching lifecycle status
func (r *RaffleRepository) SetActive(ctx context.Context, raffleID primitive.ObjectID, active bool) error {
	status := models.RaffleStatusClosed
	if active {
		status = models.RaffleStatusOpen
	}
	update := bson.M{"$set": bson.M{
		"active":    active,
		"status":    status,
		"updatedAt": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": raffleID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Update replaces an existing raffle document
func (r *RaffleRepository) Update(ctx context.Context, raffle *models.Raffle) error {
	raffle.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": raffle.ID}, bson.M{"$set": raffle})
	return err
}

func (r *RaffleRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Raffle, error) {
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

	var raffles []*models.Raffle
	if err = cursor.All(ctx, &raffles); err != nil {
		return nil, err
	}
	if raffles == nil {
		raffles = []*models.Raffle{}
	}
	return raffles, nil
}
