package service

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

// ---- Repository layer contracts -------------------------------------------

// UserRepository handles account persistence. Coin mutations are atomic at
// the document level: DebitCoins must refuse (not partially apply) a debit
// that would drive the balance negative.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	// DebitCoins subtracts amount iff the balance covers it. Returns
	// apperr.InsufficientResources when it does not.
	DebitCoins(ctx context.Context, id primitive.ObjectID, amount int) error
	// CreditRewards adds coins and xp in one atomic increment and returns
	// the account as it stands afterwards.
	CreditRewards(ctx context.Context, id primitive.ObjectID, coins, xp int) (models.User, error)
	// SetRank rewrites the derived rank field.
	SetRank(ctx context.Context, id primitive.ObjectID, rank string) error
}

// StakeRepository handles stake persistence. Transition applies a status
// change only when the stake is currently in one of the from states; ok is
// false when no document matched, which is how duplicate settlements
// collapse into no-ops.
type StakeRepository interface {
	Insert(ctx context.Context, s models.Stake) (models.Stake, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Stake, error)
	FindByPRURL(ctx context.Context, prURL string) (models.Stake, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Stake, error)
	Transition(ctx context.Context, id primitive.ObjectID, from []models.StakeStatus, to models.StakeStatus, xpEarned, coinsEarned *int) (models.Stake, bool, error)
}

// IssueXPSource resolves the XP reward of an annotated issue, used to
// snapshot IssueXP onto a stake at creation time.
type IssueXPSource interface {
	FindIssueXP(ctx context.Context, userID primitive.ObjectID, issueID int) (int, bool, error)
}

// ---- Service ---------------------------------------------------------------

// StakeService owns the stake state machine: creation (coin debit),
// webhook-driven settlement, and explicit maintainer settlement.
type StakeService interface {
	CreateStake(ctx context.Context, req models.CreateStakeRequest) (models.Stake, error)
	SettleByWebhook(ctx context.Context, prURL string, merged bool, action string) error
	SettleExplicit(ctx context.Context, stakeID string, status models.StakeStatus, xpEarned, coinsEarned int) (models.Stake, error)
	ListUserStakes(ctx context.Context, userID string) ([]models.Stake, error)
}

type stakeService struct {
	users  UserRepository
	stakes StakeRepository
	issues IssueXPSource
}

// NewStakeService wires dependencies. issues may be nil; stakes created
// without a cached annotation fall back to the intermediate-tier XP reward.
func NewStakeService(users UserRepository, stakes StakeRepository, issues IssueXPSource) StakeService {
	return &stakeService{users: users, stakes: stakes, issues: issues}
}

// CreateStake debits the account and inserts a pending stake. The debit is
// guarded (balance >= amount); if the insert then fails, the debit is
// compensated so no coins are lost.
func (s *stakeService) CreateStake(ctx context.Context, req models.CreateStakeRequest) (models.Stake, error) {
	if req.IssueID == 0 || req.Repository == "" || req.PRURL == "" {
		return models.Stake{}, apperr.New(apperr.Validation, "issueId, repository and prUrl are required")
	}
	if req.Amount < 1 {
		return models.Stake{}, apperr.New(apperr.Validation, "stake amount must be at least 1")
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return models.Stake{}, apperr.New(apperr.Validation, "invalid user id %q", req.UserID)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return models.Stake{}, err
	}

	issueXP := s.lookupIssueXP(ctx, userID, req.IssueID)

	if err := s.users.DebitCoins(ctx, userID, req.Amount); err != nil {
		return models.Stake{}, err
	}

	stake, err := s.stakes.Insert(ctx, models.Stake{
		UserID:     userID,
		IssueID:    req.IssueID,
		Repository: req.Repository,
		Amount:     req.Amount,
		PRURL:      req.PRURL,
		Status:     models.StakePending,
		IssueXP:    issueXP,
	})
	if err != nil {
		// Compensate the debit so the failed create leaves the balance intact.
		if _, cerr := s.users.CreditRewards(ctx, userID, req.Amount, 0); cerr != nil {
			log.Printf("[Stake Service] failed to compensate debit of %d coins for user %s: %v", req.Amount, userID.Hex(), cerr)
			return models.Stake{}, apperr.Wrap(apperr.Conflict, cerr, "stake insert failed and debit compensation failed; user %s needs reconciliation", userID.Hex())
		}
		return models.Stake{}, err
	}

	log.Printf("[Stake Service] user %s staked %d coins on issue %d (%s)", userID.Hex(), req.Amount, req.IssueID, req.Repository)
	return stake, nil
}

// lookupIssueXP snapshots the issue's XP reward from the cached annotation.
// A miss is not an error: the intermediate-tier reward is the neutral default.
func (s *stakeService) lookupIssueXP(ctx context.Context, userID primitive.ObjectID, issueID int) int {
	if s.issues != nil {
		if xp, ok, err := s.issues.FindIssueXP(ctx, userID, issueID); err == nil && ok {
			return xp
		}
	}
	return CalculateXPReward(models.DifficultyIntermediate)
}

// SettleByWebhook settles the stake correlated to a pull request URL. An
// event with no matching stake is a no-op, not an error: the platform sees
// webhooks for every PR in an installed repository, staked or not.
func (s *stakeService) SettleByWebhook(ctx context.Context, prURL string, merged bool, action string) error {
	stake, err := s.stakes.FindByPRURL(ctx, prURL)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil
		}
		return err
	}

	switch action {
	case "closed":
		status := models.StakeRejected
		if merged {
			status = models.StakeAccepted
		}
		coinsEarned := CalculateEarnings(stake.Amount, status)
		xpEarned := CalculateXPGain(stake.IssueXP, status)
		_, err := s.settle(ctx, stake, status, xpEarned, coinsEarned)
		return err

	case "reopened":
		// Back to pending; no balance change.
		_, ok, err := s.stakes.Transition(ctx, stake.ID,
			[]models.StakeStatus{models.StakeRejected, models.StakeExpired},
			models.StakePending, nil, nil)
		if err != nil {
			return err
		}
		if ok {
			log.Printf("[Stake Service] stake %s reopened", stake.ID.Hex())
		}
		return nil
	}

	// Actions other than closed/reopened are not subscribed to.
	return nil
}

// SettleExplicit is the maintainer/administrative settlement path. Passing
// status pending reopens a rejected or expired stake.
func (s *stakeService) SettleExplicit(ctx context.Context, stakeID string, status models.StakeStatus, xpEarned, coinsEarned int) (models.Stake, error) {
	id, err := primitive.ObjectIDFromHex(stakeID)
	if err != nil {
		return models.Stake{}, apperr.New(apperr.Validation, "invalid stake id %q", stakeID)
	}
	if !status.Valid() {
		return models.Stake{}, apperr.New(apperr.Validation, "invalid stake status %q", status)
	}

	stake, err := s.stakes.FindByID(ctx, id)
	if err != nil {
		return models.Stake{}, err
	}

	if status == models.StakePending {
		updated, ok, err := s.stakes.Transition(ctx, id,
			[]models.StakeStatus{models.StakeRejected, models.StakeExpired},
			models.StakePending, nil, nil)
		if err != nil {
			return models.Stake{}, err
		}
		if !ok {
			// Already pending, or accepted (which cannot be reopened).
			return stake, nil
		}
		return updated, nil
	}

	return s.settle(ctx, stake, status, xpEarned, coinsEarned)
}

// settle applies a terminal transition and credits the account.
//
// The transition is conditional on the stake still being pending, so the
// first settlement wins and any duplicate attempt matches nothing and
// returns the stake unchanged. If the credit fails after the status flip,
// the half-applied settlement is surfaced as a conflict needing
// reconciliation, never as success.
func (s *stakeService) settle(ctx context.Context, stake models.Stake, status models.StakeStatus, xpEarned, coinsEarned int) (models.Stake, error) {
	updated, ok, err := s.stakes.Transition(ctx, stake.ID,
		[]models.StakeStatus{models.StakePending},
		status, &xpEarned, &coinsEarned)
	if err != nil {
		return models.Stake{}, err
	}
	if !ok {
		// Already settled: idempotent no-op.
		log.Printf("[Stake Service] stake %s already settled (%s); ignoring duplicate %s", stake.ID.Hex(), stake.Status, status)
		return stake, nil
	}

	var coins, xp int
	switch status {
	case models.StakeAccepted:
		coins = stake.Amount + coinsEarned
		xp = xpEarned
	case models.StakeRejected:
		// The original stake is forfeited; only the consolation is credited.
		coins = coinsEarned
	case models.StakeExpired:
		// Full refund, no XP.
		coins = stake.Amount
	}

	user, err := s.users.CreditRewards(ctx, stake.UserID, coins, xp)
	if err != nil {
		return models.Stake{}, apperr.Wrap(apperr.Conflict, err,
			"stake %s marked %s but account credit failed; user %s needs reconciliation", stake.ID.Hex(), status, stake.UserID.Hex())
	}

	if xp != 0 {
		if err := s.users.SetRank(ctx, stake.UserID, RankFor(user.XP)); err != nil {
			log.Printf("[Stake Service] failed to update rank for user %s: %v", stake.UserID.Hex(), err)
		}
	}

	log.Printf("[Stake Service] stake %s settled %s: +%d coins, +%d xp for user %s", stake.ID.Hex(), status, coins, xp, stake.UserID.Hex())
	return updated, nil
}

// ListUserStakes returns a user's stakes, most recent first.
func (s *stakeService) ListUserStakes(ctx context.Context, userID string) ([]models.Stake, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid user id %q", userID)
	}
	return s.stakes.ListByUser(ctx, id)
}
