package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LanguageStats aggregates one language across a user's repositories.
type LanguageStats struct {
	Count      int     `bson:"count" json:"count"`
	Percentage float64 `bson:"percentage" json:"percentage"`
	TotalBytes int     `bson:"total_bytes" json:"totalBytes"`
}

// RepoAnalysis is the cached per-user repository/language analysis.
// Fresh for 24 hours; replaced wholesale on recomputation.
type RepoAnalysis struct {
	ID             primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID       `bson:"user_id" json:"userId"`
	GithubUsername string                   `bson:"github_username" json:"githubUsername"`
	Repositories   []Repository             `bson:"repositories" json:"repositories"`
	LanguageStats  map[string]LanguageStats `bson:"language_stats" json:"languageStats"`
	TopLanguages   []string                 `bson:"top_languages" json:"topLanguages"`
	LastAnalyzed   time.Time                `bson:"last_analyzed" json:"lastAnalyzed"`
}

// IssueSuggestions is the cached per-user set of annotated suggested
// issues. Fresh for 4 hours; replaced wholesale on recomputation.
type IssueSuggestions struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"userId"`
	GithubUsername   string             `bson:"github_username" json:"githubUsername"`
	SuggestedIssues  []Issue            `bson:"suggested_issues" json:"suggestedIssues"`
	UserTopLanguages []string           `bson:"user_top_languages" json:"userTopLanguages"`
	LastFetched      time.Time          `bson:"last_fetched" json:"lastFetched"`
}
