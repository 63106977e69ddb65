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

// Compile-time check to ensure WalletRepository implements the interface
var _ repositories.WalletRepository = (*WalletRepository)(nil)

// WalletRepository handles MongoDB operations for player wallets. Credits
// and debits target individual per-kind balance fields so concurrent moves
// on different asset kinds never clobber each other.
type WalletRepository struct {
	collection *mongo.Collection
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		collection: db.Collection("wallets"),
	}
}

// FindByAccount finds the wallet for one account
func (r *WalletRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Create inserts a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	wallet.ID = primitive.NewObjectID()
	wallet.CreatedAt = time.Now()
	wallet.UpdatedAt = time.Now()
	if wallet.Balances == nil {
		wallet.Balances = map[string]int64{}
	}
	_, err := r.collection.InsertOne(ctx, wallet)
	return err
}

// Credit atomically adds amount of one asset kind, creating the wallet
// when the account has none yet.
func (r *WalletRepository) Credit(ctx context.Context, accountID primitive.ObjectID, kind string, amount int64) error {
	filter := bson.M{"accountId": accountID}
	update := bson.M{
		"$inc": bson.M{"balances." + kind: amount},
		"$set": bson.M{"updatedAt": time.Now()},
		"$setOnInsert": bson.M{
			"accountId": accountID,
			"createdAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Debit atomically subtracts amount, guarded so a stale read can never push
// the balance negative. Insufficient funds surface as mongo.ErrNoDocuments.
func (r *WalletRepository) Debit(ctx context.Context, accountID primitive.ObjectID, kind string, amount int64) error {
	filter := bson.M{
		"accountId":        accountID,
		"balances." + kind: bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"balances." + kind: -amount},
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
