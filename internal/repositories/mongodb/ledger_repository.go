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

// Compile-time check to ensure LedgerRepository implements the interface
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository handles MongoDB operations for reward ledgers, one
// document per account. Credits and debits are single atomic updates so a
// settlement can never leave a ledger half-updated across reward kinds.
type LedgerRepository struct {
	collection *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		collection: db.Collection("reward_ledgers"),
	}
}

// FindByAccount finds the ledger for one account
func (r *LedgerRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.RewardLedger, error) {
	var ledger models.RewardLedger
	err := r.collection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&ledger)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// ApplyCredit additively applies a settlement's rewards in one document
// update, upserting the ledger on a player's first win.
func (r *LedgerRepository) ApplyCredit(ctx context.Context, accountID primitive.ObjectID, credit *models.LedgerCredit) error {
	inc := bson.M{}
	for kind, amount := range credit.Amounts {
		if amount != 0 {
			inc["balances."+kind] = amount
		}
	}
	if credit.Tickets != 0 {
		inc["raffleTickets"] = credit.Tickets
	}
	if credit.Secondary != 0 {
		inc["secondaryCoins"] = credit.Secondary
	}

	update := bson.M{
		"$set": bson.M{"updatedAt": time.Now()},
		"$setOnInsert": bson.M{
			"accountId": accountID,
			"createdAt": time.Now(),
		},
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	push := bson.M{}
	if len(credit.NFTRefs) > 0 {
		push["nftVouchers"] = bson.M{"$each": credit.NFTRefs}
	}
	if len(credit.Vouchers) > 0 {
		push["freePlayVouchers"] = bson.M{"$each": credit.Vouchers}
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"accountId": accountID}, update, opts)
	return err
}

// ApplyDebit removes claimed value. Numeric fields decrement by the claimed
// amounts and NFT refs are pulled individually, so credits landing after
// the claim read are never wiped.
func (r *LedgerRepository) ApplyDebit(ctx context.Context, accountID primitive.ObjectID, debit *models.LedgerDebit) error {
	inc := bson.M{}
	for kind, amount := range debit.Amounts {
		if amount != 0 {
			inc["balances."+kind] = -amount
		}
	}
	if debit.Tickets != 0 {
		inc["raffleTickets"] = -debit.Tickets
	}
	if debit.Secondary != 0 {
		inc["secondaryCoins"] = -debit.Secondary
	}

	update := bson.M{"$set": bson.M{"updatedAt": time.Now()}}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(debit.NFTRefs) > 0 {
		update["$pullAll"] = bson.M{"nftVouchers": debit.NFTRefs}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"accountId": accountID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ConsumeVoucher removes one free-play voucher by ref. A voucher that is
// already gone surfaces as mongo.ErrNoDocuments.
func (r *LedgerRepository) ConsumeVoucher(ctx context.Context, accountID primitive.ObjectID, ref string) error {
	filter := bson.M{"accountId": accountID, "freePlayVouchers.ref": ref}
	update := bson.M{
		"$pull": bson.M{"freePlayVouchers": bson.M{"ref": ref}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindAll retrieves ledgers with pagination
func (r *LedgerRepository) FindAll(ctx context.Context, page, limit int) ([]*models.RewardLedger, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"updatedAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ledgers []*models.RewardLedger
	if err = cursor.All(ctx, &ledgers); err != nil {
		return nil, err
	}
	if ledgers == nil {
		ledgers = []*models.RewardLedger{}
	}
	return ledgers, nil
}
