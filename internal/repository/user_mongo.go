package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

// UserMongo provides Mongo-backed persistence for user accounts.
// Coin and XP mutations go through single-document atomic updates, so a
// balance can never be half-applied even if the process dies mid-request.
type UserMongo struct {
	col *mongo.Collection
}

// NewUserRepository returns a UserMongo operating on the "users" collection.
func NewUserRepository(db *mongo.Database) *UserMongo {
	return &UserMongo{col: db.Collection("users")}
}

// FindByID fetches a user document by id.
func (r *UserMongo) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.New(apperr.NotFound, "user %s not found", id.Hex())
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "user lookup failed")
	}
	return u, nil
}

// DebitCoins subtracts amount from the balance. The filter guards the
// invariant: the update matches only while coins >= amount, so the balance
// can never go negative and no partial debit is possible.
func (r *UserMongo) DebitCoins(ctx context.Context, id primitive.ObjectID, amount int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "coins": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"coins": -amount}},
	)
	if err != nil {
		return apperr.Wrap(apperr.UpstreamUnavailable, err, "coin debit failed")
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing account from a short balance.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperr.New(apperr.InsufficientResources, "insufficient coins for stake of %d", amount)
	}
	return nil
}

// CreditRewards atomically increments coins and xp, returning the account
// as it stands after the update so callers can derive the new rank.
func (r *UserMongo) CreditRewards(ctx context.Context, id primitive.ObjectID, coins, xp int) (models.User, error) {
	var u models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"coins": coins, "xp": xp}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.New(apperr.NotFound, "user %s not found", id.Hex())
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "reward credit failed")
	}
	return u, nil
}

// SetRank rewrites the derived rank field.
func (r *UserMongo) SetRank(ctx context.Context, id primitive.ObjectID, rank string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"rank": rank}})
	if err != nil {
		return apperr.Wrap(apperr.UpstreamUnavailable, err, "rank update failed")
	}
	return nil
}

// RefillContributors grants every contributor account the monthly allowance
// in one bulk update and stamps the refill time.
func (r *UserMongo) RefillContributors(ctx context.Context, amount int, now time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"role": models.RoleContributor},
		bson.M{
			"$inc": bson.M{"coins": amount},
			"$set": bson.M{"monthly_coins_last_refill": now},
		},
	)
	if err != nil {
		return 0, apperr.Wrap(apperr.UpstreamUnavailable, err, "coin refill failed")
	}
	return res.ModifiedCount, nil
}
