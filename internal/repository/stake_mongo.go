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

// StakeMongo provides Mongo-backed persistence for stakes. Status changes
// go through Transition, whose conditional filter is what makes duplicate
// settlements collapse into no-ops.
type StakeMongo struct {
	col *mongo.Collection
}

// NewStakeRepository returns a StakeMongo operating on the "stakes"
// collection. Queried by user, by issue and by PR URL, hence the indexes
// declared in EnsureIndexes.
func NewStakeRepository(db *mongo.Database) *StakeMongo {
	return &StakeMongo{col: db.Collection("stakes")}
}

// EnsureIndexes creates the lookup indexes. Call once at startup.
func (r *StakeMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "issue_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "pr_url", Value: 1}}},
	})
	return err
}

// Insert stores a new stake and returns it with its generated id and
// timestamps filled in.
func (r *StakeMongo) Insert(ctx context.Context, s models.Stake) (models.Stake, error) {
	now := time.Now()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return models.Stake{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "stake insert failed")
	}
	return s, nil
}

// FindByID fetches a stake by id.
func (r *StakeMongo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Stake, error) {
	var s models.Stake
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Stake{}, apperr.New(apperr.NotFound, "stake %s not found", id.Hex())
	}
	if err != nil {
		return models.Stake{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "stake lookup failed")
	}
	return s, nil
}

// FindByPRURL fetches the stake correlated to a pull request URL. Where
// several stakes share a URL the most recent one wins.
func (r *StakeMongo) FindByPRURL(ctx context.Context, prURL string) (models.Stake, error) {
	var s models.Stake
	err := r.col.FindOne(ctx,
		bson.M{"pr_url": prURL},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Stake{}, apperr.New(apperr.NotFound, "no stake for pr %s", prURL)
	}
	if err != nil {
		return models.Stake{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "stake lookup failed")
	}
	return s, nil
}

// ListByUser returns a user's stakes, most recent first.
func (r *StakeMongo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Stake, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamUnavailable, err, "stake list failed")
	}
	defer cur.Close(ctx)

	var stakes []models.Stake
	if err := cur.All(ctx, &stakes); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamUnavailable, err, "stake list failed")
	}
	return stakes, nil
}

// Transition moves a stake to a new status iff its current status is one of
// from. ok is false when the stake was not in an allowed source state,
// which callers treat as an idempotent no-op. xpEarned and coinsEarned are
// written only when non-nil (reopen passes nil to leave them untouched).
func (r *StakeMongo) Transition(ctx context.Context, id primitive.ObjectID, from []models.StakeStatus, to models.StakeStatus, xpEarned, coinsEarned *int) (models.Stake, bool, error) {
	set := bson.M{"status": to, "updated_at": time.Now()}
	if xpEarned != nil {
		set["xp_earned"] = *xpEarned
	}
	if coinsEarned != nil {
		set["coins_earned"] = *coinsEarned
	}

	var s models.Stake
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Stake{}, false, nil
	}
	if err != nil {
		return models.Stake{}, false, apperr.Wrap(apperr.UpstreamUnavailable, err, "stake transition failed")
	}
	return s, true, nil
}
