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

// Compile-time check to ensure RaffleArchiveRepository implements the interface
var _ repositories.RaffleArchiveRepository = (*RaffleArchiveRepository)(nil)

// RaffleArchiveRepository handles MongoDB operations for resolved raffle archives
type RaffleArchiveRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewRaffleArchiveRepository creates a new RaffleArchiveRepository
func NewRaffleArchiveRepository(db *mongo.Database) *RaffleArchiveRepository {
	return &RaffleArchiveRepository{
		collection: db.Collection("raffle_archives"),
		counters:   db.Collection("counters"),
	}
}

// Create inserts an archive snapshot of a resolved raffle
func (r *RaffleArchiveRepository) Create(ctx context.Context, archive *models.RaffleArchive) error {
	archive.ID = primitive.NewObjectID()
	archive.CreatedAt = time.Now()
	if archive.Participants == nil {
		archive.Participants = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, archive)
	return err
}

// NextSequence atomically claims the next archive sequence number
func (r *RaffleArchiveRepository) NextSequence(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": "raffleArchive"}
	update := bson.M{"$inc": bson.M{"value": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// FindByRaffleID finds the archive entry for a raffle
func (r *RaffleArchiveRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (*models.RaffleArchive, error) {
	var archive models.RaffleArchive
	err := r.collection.FindOne(ctx, bson.M{"raffleId": raffleID}).Decode(&archive)
	if err != nil {
		return nil, err
	}
	return &archive, nil
}

// FindAll retrieves archives ordered by sequence
func (r *RaffleArchiveRepository) FindAll(ctx context.Context, page, limit int) ([]*models.RaffleArchive, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"sequence": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var archives []*models.RaffleArchive
	if err = cursor.All(ctx, &archives); err != nil {
		return nil, err
	}
	if archives == nil {
		archives = []*models.RaffleArchive{}
	}
	return archives, nil
}
