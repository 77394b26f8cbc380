package models

import "time"

// Difficulty tiers assigned to an issue by the reward calculator.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// IssueLabel captures the minimal label fields from GitHub's REST API.
type IssueLabel struct {
	ID          int    `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Color       string `json:"color" bson:"color"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// IssueUser is the author (or assignee) of an issue.
type IssueUser struct {
	ID        int    `json:"id" bson:"id"`
	Login     string `json:"login" bson:"login"`
	AvatarURL string `json:"avatar_url" bson:"avatar_url"`
	HTMLURL   string `json:"html_url" bson:"html_url"`
}

// IssueRepository is the owning repository as embedded in an issue document.
// StargazersCount feeds the bounty calculation.
type IssueRepository struct {
	ID              int    `json:"id" bson:"id"`
	Name            string `json:"name" bson:"name"`
	FullName        string `json:"full_name" bson:"full_name"`
	HTMLURL         string `json:"html_url" bson:"html_url"`
	Description     string `json:"description,omitempty" bson:"description,omitempty"`
	Language        string `json:"language,omitempty" bson:"language,omitempty"`
	StargazersCount int    `json:"stargazers_count" bson:"stargazers_count"`
	ForksCount      int    `json:"forks_count" bson:"forks_count"`
}

// Issue is a GitHub issue enriched with the reward annotation
// (difficulty, bounty, XP, staking requirement). The annotation fields are
// zero until AnnotateIssue has run; once persisted the document is replaced
// wholesale on re-annotation, never merged.
type Issue struct {
	ID            int             `json:"id" bson:"id"`
	Number        int             `json:"number" bson:"number"`
	Title         string          `json:"title" bson:"title"`
	Body          string          `json:"body" bson:"body"`
	State         string          `json:"state" bson:"state"`
	HTMLURL       string          `json:"html_url" bson:"html_url"`
	User          IssueUser       `json:"user" bson:"user"`
	Labels        []IssueLabel    `json:"labels" bson:"labels"`
	CommentsCount int             `json:"comments" bson:"comments_count"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at"`
	Repository    IssueRepository `json:"repository" bson:"repository"`

	// Reward annotation.
	Difficulty      string    `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	EstimatedHours  float64   `json:"estimatedHours,omitempty" bson:"estimated_hours,omitempty"`
	Bounty          int       `json:"bounty,omitempty" bson:"bounty,omitempty"`
	XPReward        int       `json:"xpReward,omitempty" bson:"xp_reward,omitempty"`
	StakingRequired int       `json:"stakingRequired,omitempty" bson:"staking_required,omitempty"`
	ExpirationDate  time.Time `json:"expirationDate,omitempty" bson:"expiration_date,omitempty"`
}

// Repository is a contributor-owned repository as returned by the repo
// analysis flow.
type Repository struct {
	ID              int       `json:"id" bson:"id"`
	Name            string    `json:"name" bson:"name"`
	FullName        string    `json:"full_name" bson:"full_name"`
	HTMLURL         string    `json:"html_url" bson:"html_url"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	Language        string    `json:"language,omitempty" bson:"language,omitempty"`
	StargazersCount int       `json:"stargazers_count" bson:"stargazers_count"`
	ForksCount      int       `json:"forks_count" bson:"forks_count"`
	Size            int       `json:"size" bson:"size"`
	Topics          []string  `json:"topics,omitempty" bson:"topics,omitempty"`
	Visibility      string    `json:"visibility,omitempty" bson:"visibility,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}
