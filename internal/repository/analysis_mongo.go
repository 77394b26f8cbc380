package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

// AnalysisMongo persists the cached GitHub-derived snapshots: per-user
// repository/language analyses and suggested-issue sets. Upserts replace
// the document wholesale; when two refreshers race, the last writer wins.
type AnalysisMongo struct {
	repoCol  *mongo.Collection // "repo_analyses"
	issueCol *mongo.Collection // "issue_suggestions"
}

// NewAnalysisRepository wires the two snapshot collections.
func NewAnalysisRepository(db *mongo.Database) *AnalysisMongo {
	return &AnalysisMongo{
		repoCol:  db.Collection("repo_analyses"),
		issueCol: db.Collection("issue_suggestions"),
	}
}

func snapshotKey(userID primitive.ObjectID, username string) bson.M {
	return bson.M{"user_id": userID, "github_username": username}
}

// FindRepoAnalysis returns the stored analysis for (user, username).
func (r *AnalysisMongo) FindRepoAnalysis(ctx context.Context, userID primitive.ObjectID, username string) (models.RepoAnalysis, error) {
	var a models.RepoAnalysis
	err := r.repoCol.FindOne(ctx, snapshotKey(userID, username)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RepoAnalysis{}, apperr.New(apperr.NotFound, "no repository analysis for %s", username)
	}
	if err != nil {
		return models.RepoAnalysis{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "analysis lookup failed")
	}
	return a, nil
}

// UpsertRepoAnalysis inserts or replaces the analysis snapshot.
func (r *AnalysisMongo) UpsertRepoAnalysis(ctx context.Context, a models.RepoAnalysis) error {
	a.ID = primitive.NilObjectID
	_, err := r.repoCol.ReplaceOne(ctx,
		snapshotKey(a.UserID, a.GithubUsername),
		a,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperr.Wrap(apperr.UpstreamUnavailable, err, "analysis upsert failed")
	}
	return nil
}

// FindIssueSuggestions returns the stored suggestion set for (user, username).
func (r *AnalysisMongo) FindIssueSuggestions(ctx context.Context, userID primitive.ObjectID, username string) (models.IssueSuggestions, error) {
	var s models.IssueSuggestions
	err := r.issueCol.FindOne(ctx, snapshotKey(userID, username)).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.IssueSuggestions{}, apperr.New(apperr.NotFound, "no suggested issues for %s", username)
	}
	if err != nil {
		return models.IssueSuggestions{}, apperr.Wrap(apperr.UpstreamUnavailable, err, "suggestions lookup failed")
	}
	return s, nil
}

// UpsertIssueSuggestions inserts or replaces the suggestion snapshot.
func (r *AnalysisMongo) UpsertIssueSuggestions(ctx context.Context, s models.IssueSuggestions) error {
	s.ID = primitive.NilObjectID
	_, err := r.issueCol.ReplaceOne(ctx,
		snapshotKey(s.UserID, s.GithubUsername),
		s,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperr.Wrap(apperr.UpstreamUnavailable, err, "suggestions upsert failed")
	}
	return nil
}

// FindIssueXP resolves an issue's annotated XP reward from any cached
// suggestion set belonging to the user. ok is false when the issue is not
// in the cache; that is not an error.
func (r *AnalysisMongo) FindIssueXP(ctx context.Context, userID primitive.ObjectID, issueID int) (int, bool, error) {
	var s models.IssueSuggestions
	err := r.issueCol.FindOne(ctx, bson.M{
		"user_id":             userID,
		"suggested_issues.id": issueID,
	}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperr.Wrap(apperr.UpstreamUnavailable, err, "issue lookup failed")
	}
	for _, issue := range s.SuggestedIssues {
		if issue.ID == issueID {
			return issue.XPReward, true, nil
		}
	}
	return 0, false, nil
}
