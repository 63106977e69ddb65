package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure PlatformSettingsRepository implements the interface
var _ repositories.PlatformSettingsRepository = (*PlatformSettingsRepository)(nil)

// PlatformSettingsRepository handles MongoDB operations for the settings singleton
type PlatformSettingsRepository struct {
	collection *mongo.Collection
}

// NewPlatformSettingsRepository creates a new PlatformSettingsRepository
func NewPlatformSettingsRepository(db *mongo.Database) *PlatformSettingsRepository {
	return &PlatformSettingsRepository{
		collection: db.Collection("platform_settings"),
	}
}

// Get returns the settings document, creating defaults on first access
func (r *PlatformSettingsRepository) Get(ctx context.Context) (*models.PlatformSettings, error) {
	var settings models.PlatformSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	defaults := models.DefaultPlatformSettings()
	defaults.ID = primitive.NewObjectID()
	defaults.CreatedAt = time.Now()
	defaults.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Update replaces the settings document
func (r *PlatformSettingsRepository) Update(ctx context.Context, settings *models.PlatformSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": settings.ID}, bson.M{"$set": settings})
	return err
}
