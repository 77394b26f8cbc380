package service

import (
	"context"
	"testing"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

type fakeRepoIssues struct {
	issues  []models.Issue
	details models.Repository

	state   string
	perPage int
}

func (f *fakeRepoIssues) ListRepoIssues(_ context.Context, _, _, state string, perPage int) ([]models.Issue, error) {
	f.state, f.perPage = state, perPage
	return f.issues, nil
}

func (f *fakeRepoIssues) GetRepoDetails(context.Context, string, string) (models.Repository, error) {
	return f.details, nil
}

func TestMaintainerRepoIssues(t *testing.T) {
	gh := &fakeRepoIssues{
		issues: []models.Issue{
			{
				ID:     1,
				Title:  "Add flag parsing",
				Labels: []models.IssueLabel{{Name: "good first issue"}},
			},
		},
		details: models.Repository{
			FullName:        "octo/go-app",
			StargazersCount: 1000,
			Language:        "Go",
		},
	}
	svc := NewMaintainerService(gh)

	got, err := svc.RepoIssues(context.Background(), "octo", "go-app", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if gh.state != "open" {
		t.Errorf("state = %q, want the open default", gh.state)
	}
	if gh.perPage != 30 {
		t.Errorf("perPage = %d, want the default 30", gh.perPage)
	}
	if len(got) != 1 {
		t.Fatalf("issues = %d, want 1", len(got))
	}

	issue := got[0]
	if issue.Repository.FullName != "octo/go-app" {
		t.Errorf("repository = %q, want octo/go-app", issue.Repository.FullName)
	}
	if issue.Repository.StargazersCount != 1000 {
		t.Errorf("stars = %d, want the backfilled 1000", issue.Repository.StargazersCount)
	}
	if issue.Difficulty != models.DifficultyBeginner {
		t.Errorf("difficulty = %q, want beginner", issue.Difficulty)
	}
	if issue.Bounty != 20 { // round(10 * 1 * (1 + 1000/1000))
		t.Errorf("bounty = %d, want 20", issue.Bounty)
	}
	if issue.StakingRequired != 6 { // floor(20 * 0.3)
		t.Errorf("stakingRequired = %d, want 6", issue.StakingRequired)
	}
}

func TestMaintainerRepoIssuesValidation(t *testing.T) {
	svc := NewMaintainerService(&fakeRepoIssues{})
	if _, err := svc.RepoIssues(context.Background(), "", "go-app", "open", 30); !apperr.Is(err, apperr.Validation) {
		t.Errorf("missing owner: got %v, want validation", err)
	}
	if _, err := svc.RepoIssues(context.Background(), "octo", "", "open", 30); !apperr.Is(err, apperr.Validation) {
		t.Errorf("missing repo: got %v, want validation", err)
	}
}
