package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// EventService emits the structured records produced after successful
// state transitions. Delivery is fire-and-forget: the operation that
// produced the event never waits on it and never fails because of it.
type EventService struct {
	eventRepo repositories.EventRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// Emit persists an event in the background. A fresh context is used so
// the write outlives the request that produced it.
func (s *EventService) Emit(event *models.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.eventRepo.Create(ctx, event); err != nil {
			slog.Error("Failed to persist event", "error", err, "type", event.Type, "source", event.Source)
		}
	}()
}

// ListEvents pages through stored events, optionally filtered by type
func (s *EventService) ListEvents(ctx context.Context, page, limit int, eventType models.EventType) ([]*models.Event, error) {
	return s.eventRepo.FindAll(ctx, page, limit, eventType)
}

// ListAccountEvents pages through one account's events
func (s *EventService) ListAccountEvents(ctx context.Context, accountID primitive.ObjectID, page, limit int) ([]*models.Event, error) {
	return s.eventRepo.FindByAccount(ctx, accountID, page, limit)
}
