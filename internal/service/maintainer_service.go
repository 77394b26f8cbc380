package service

import (
	"context"
	"log"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

// RepoIssueSource is the slice of the GitHub client the maintainer flow
// needs: the issue list of one repository plus its metadata.
type RepoIssueSource interface {
	ListRepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error)
	GetRepoDetails(ctx context.Context, owner, name string) (models.Repository, error)
}

// MaintainerService lets a repository maintainer browse their issues with
// the rewards the platform would attach to them.
type MaintainerService interface {
	RepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error)
}

type maintainerService struct {
	gh RepoIssueSource
}

func NewMaintainerService(gh RepoIssueSource) MaintainerService {
	return &maintainerService{gh: gh}
}

// RepoIssues lists a repository's issues annotated with difficulty, bounty,
// XP and staking requirement. state defaults to open; perPage is clamped to
// the API's 1-100 range.
func (s *maintainerService) RepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error) {
	if owner == "" || repo == "" {
		return nil, apperr.New(apperr.Validation, "owner and repo are required")
	}
	if state == "" {
		state = "open"
	}
	if perPage < 1 || perPage > 100 {
		perPage = 30
	}

	raw, err := s.gh.ListRepoIssues(ctx, owner, repo, state, perPage)
	if err != nil {
		return nil, err
	}

	// The issue list endpoint does not embed repository metadata, and the
	// bounty scales on the star count; one lookup covers every issue.
	full := owner + "/" + repo
	details, err := s.gh.GetRepoDetails(ctx, owner, repo)
	if err != nil {
		log.Printf("[Maintainer Service] failed to fetch repo details for %s: %v", full, err)
	}

	annotated := make([]models.Issue, len(raw))
	for i, issue := range raw {
		issue.Repository.FullName = full
		issue.Repository.Name = repo
		issue.Repository.StargazersCount = details.StargazersCount
		issue.Repository.Description = details.Description
		issue.Repository.Language = details.Language
		issue.Repository.ForksCount = details.ForksCount
		annotated[i] = AnnotateIssue(issue)
	}
	return annotated, nil
}
