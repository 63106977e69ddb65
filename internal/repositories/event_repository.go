package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spinforge/arcade-backend/internal/models"
)

// EventRepository stores the fire-and-forget observability records emitted
// after successful state transitions. Events are append-only.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.Event, error)
	FindAll(ctx context.Context, page, limit int, eventType models.EventType) ([]*models.Event, error)
}

type eventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a MongoDB-backed EventRepository.
func NewEventRepository(db *mongo.Database) EventRepository {
	return &eventRepository{
		collection: db.Collection("events"),
	}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *eventRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.Event, error) {
	return r.find(ctx, bson.M{"accountId": accountID}, page, limit)
}

func (r *eventRepository) FindAll(ctx context.Context, page, limit int, eventType models.EventType) ([]*models.Event, error) {
	filter := bson.M{}
	if eventType != "" {
		filter["type"] = eventType
	}
	return r.find(ctx, filter, page, limit)
}

func (r *eventRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Event, error) {
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

	var events []*models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}
