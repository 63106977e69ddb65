package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
)

// Compile-time check to ensure GameConfigRepository implements the interface
var _ repositories.GameConfigRepository = (*GameConfigRepository)(nil)

// GameConfigRepository handles MongoDB operations for game configurations,
// keyed by (game, assetKind).
type GameConfigRepository struct {
	collection *mongo.Collection
}

// NewGameConfigRepository creates a new GameConfigRepository
func NewGameConfigRepository(db *mongo.Database) *GameConfigRepository {
	return &GameConfigRepository{
		collection: db.Collection("game_configs"),
	}
}

// FindByGameAndKind finds the configuration for one game on one asset kind
func (r *GameConfigRepository) FindByGameAndKind(ctx context.Context, game models.GameKind, assetKind string) (*models.GameConfig, error) {
	var config models.GameConfig
	filter := bson.M{"game": game, "assetKind": assetKind}
	err := r.collection.FindOne(ctx, filter).Decode(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// FindAll retrieves every game configuration
func (r *GameConfigRepository) FindAll(ctx context.Context) ([]*models.GameConfig, error) {
	opts := options.Find().SetSort(bson.M{"game": 1, "assetKind": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*models.GameConfig
	if err = cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []*models.GameConfig{}
	}
	return configs, nil
}

// Upsert replaces the configuration for (game, assetKind), creating it
// when missing.
func (r *GameConfigRepository) Upsert(ctx context.Context, config *models.GameConfig) error {
	config.UpdatedAt = time.Now()
	filter := bson.M{"game": config.Game, "assetKind": config.AssetKind}
	update := bson.M{
		"$set": bson.M{
			"active":               config.Active,
			"minStake":             config.MinStake,
			"maxStake":             config.MaxStake,
			"exchangeRate":         config.ExchangeRate,
			"tiers":                config.Tiers,
			"diceMultipliers":      config.DiceMultipliers,
			"plinkoMultipliers":    config.PlinkoMultipliers,
			"houseEdgeNumerator":   config.HouseEdgeNumerator,
			"houseEdgeDenominator": config.HouseEdgeDenominator,
			"updatedAt":            config.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"game":      config.Game,
			"assetKind": config.AssetKind,
			"createdAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// SetActive flips the active flag for one configuration
func (r *GameConfigRepository) SetActive(ctx context.Context, game models.GameKind, assetKind string, active bool) error {
	filter := bson.M{"game": game, "assetKind": assetKind}
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

// Delete removes one configuration
func (r *GameConfigRepository) Delete(ctx context.Context, game models.GameKind, assetKind string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"game": game, "assetKind": assetKind})
	return err
}
