package models

// CreateStakeRequest is the payload for POST /stakes.
type CreateStakeRequest struct {
	UserID     string `json:"userId"`
	IssueID    int    `json:"issueId"`
	Repository string `json:"repository"` // "owner/name"
	Amount     int    `json:"amount"`
	PRURL      string `json:"prUrl"`
}

// UpdateStakeStatusRequest is the payload for PATCH /stakes/:id/status,
// the maintainer/administrative settlement path.
type UpdateStakeStatusRequest struct {
	Status      StakeStatus `json:"status"`
	XPEarned    int         `json:"xpEarned"`
	CoinsEarned int         `json:"coinsEarned"`
}

// AnalyzeRequest is the payload for the contributor analysis and
// suggested-issue endpoints.
type AnalyzeRequest struct {
	UserID         string `json:"userId"`
	GithubUsername string `json:"githubUsername"`
}

// PullRequestEvent is the subset of GitHub's pull_request webhook payload
// the stake lifecycle cares about.
type PullRequestEvent struct {
	Action      string `json:"action"`
	PullRequest struct {
		HTMLURL string `json:"html_url"`
		Merged  bool   `json:"merged"`
	} `json:"pull_request"`
}
