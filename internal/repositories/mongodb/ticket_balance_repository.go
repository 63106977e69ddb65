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

// Compile-time check to ensure TicketBalanceRepository implements the interface
var _ repositories.TicketBalanceRepository = (*TicketBalanceRepository)(nil)

// TicketBalanceRepository handles MongoDB operations for spendable raffle tickets
type TicketBalanceRepository struct {
	collection *mongo.Collection
}

// NewTicketBalanceRepository creates a new TicketBalanceRepository
func NewTicketBalanceRepository(db *mongo.Database) *TicketBalanceRepository {
	return &TicketBalanceRepository{
		collection: db.Collection("ticket_balances"),
	}
}

// FindByAccount retrieves the ticket balance for an account
func (r *TicketBalanceRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.TicketBalance, error) {
	var balance models.TicketBalance
	err := r.collection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&balance)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// Adjust applies a signed ticket delta. Debits only match documents
// that still hold enough tickets, so a losing race surfaces as
// mongo.ErrNoDocuments instead of a negative balance.
func (r *TicketBalanceRepository) Adjust(ctx context.Context, accountID primitive.ObjectID, delta int64) error {
	filter := bson.M{"accountId": accountID}
	if delta < 0 {
		filter["tickets"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"tickets": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	if delta < 0 {
		result, err := r.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
