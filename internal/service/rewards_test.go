package service

import (
	"math"
	"testing"

	"github.com/pullquest/backend/internal/models"
)

func labels(names ...string) []models.IssueLabel {
	out := make([]models.IssueLabel, len(names))
	for i, n := range names {
		out[i] = models.IssueLabel{Name: n}
	}
	return out
}

func TestEstimateDifficulty(t *testing.T) {
	tests := []struct {
		name   string
		labels []models.IssueLabel
		want   string
	}{
		{"no labels", nil, models.DifficultyIntermediate},
		{"unrelated labels", labels("bug", "documentation"), models.DifficultyIntermediate},
		{"good first issue", labels("good first issue"), models.DifficultyBeginner},
		{"case insensitive", labels("Good First Issue"), models.DifficultyBeginner},
		{"substring match", labels("needs-expert-review"), models.DifficultyAdvanced},
		{"advanced", labels("hard"), models.DifficultyAdvanced},
		{"beginner wins over advanced", labels("complex", "beginner"), models.DifficultyBeginner},
		{"starter", labels("starter"), models.DifficultyBeginner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateDifficulty(tt.labels); got != tt.want {
				t.Errorf("EstimateDifficulty(%v) = %q, want %q", tt.labels, got, tt.want)
			}
		})
	}
}

func TestCalculateBounty(t *testing.T) {
	tests := []struct {
		difficulty string
		stars      int
		want       int
	}{
		{models.DifficultyBeginner, 0, 10},
		{models.DifficultyIntermediate, 0, 15},
		{models.DifficultyAdvanced, 0, 20},
		{models.DifficultyAdvanced, 1000, 40},
		{models.DifficultyBeginner, 500, 15},
		// Popularity scaling has no cap.
		{models.DifficultyAdvanced, 100000, 2020},
	}

	for _, tt := range tests {
		if got := CalculateBounty(tt.difficulty, tt.stars); got != tt.want {
			t.Errorf("CalculateBounty(%s, %d) = %d, want %d", tt.difficulty, tt.stars, got, tt.want)
		}
	}
}

func TestStakingRequiredIsThirtyPercentFloor(t *testing.T) {
	for bounty := 0; bounty <= 500; bounty++ {
		want := int(math.Floor(float64(bounty) * 0.3))
		if got := CalculateStakingRequired(bounty); got != want {
			t.Fatalf("CalculateStakingRequired(%d) = %d, want %d", bounty, got, want)
		}
	}
}

func TestCalculateXPReward(t *testing.T) {
	if got := CalculateXPReward(models.DifficultyBeginner); got != 50 {
		t.Errorf("beginner XP = %d, want 50", got)
	}
	if got := CalculateXPReward(models.DifficultyIntermediate); got != 100 {
		t.Errorf("intermediate XP = %d, want 100", got)
	}
	if got := CalculateXPReward(models.DifficultyAdvanced); got != 150 {
		t.Errorf("advanced XP = %d, want 150", got)
	}
}

// The in-band value is intentional estimation noise, so only band
// membership is asserted.
func TestEstimateHoursBands(t *testing.T) {
	tests := []struct {
		name       string
		bodyLen    int
		comments   int
		min, max   float64
	}{
		{"short and quiet", 100, 2, 1, 4},
		{"medium", 400, 10, 4, 12},
		{"long", 2000, 30, 12, 32},
		{"short but busy", 100, 20, 12, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				h := EstimateHours(tt.bodyLen, tt.comments)
				if h < tt.min || h > tt.max {
					t.Fatalf("EstimateHours(%d, %d) = %v, want within [%v, %v]", tt.bodyLen, tt.comments, h, tt.min, tt.max)
				}
			}
		})
	}
}

func TestAnnotateIssue(t *testing.T) {
	issue := models.Issue{
		ID:            42,
		Title:         "Fix typo in README",
		Body:          "short body",
		Labels:        labels("good first issue"),
		CommentsCount: 1,
		Repository:    models.IssueRepository{FullName: "octo/repo", StargazersCount: 2000},
	}

	got := AnnotateIssue(issue)

	if got.Difficulty != models.DifficultyBeginner {
		t.Errorf("difficulty = %q, want beginner", got.Difficulty)
	}
	if got.Bounty != 30 { // round(10 * 1 * (1 + 2000/1000))
		t.Errorf("bounty = %d, want 30", got.Bounty)
	}
	if got.XPReward != 50 {
		t.Errorf("xpReward = %d, want 50", got.XPReward)
	}
	if got.StakingRequired != 9 { // floor(30 * 0.3)
		t.Errorf("stakingRequired = %d, want 9", got.StakingRequired)
	}
	if got.EstimatedHours < 1 || got.EstimatedHours > 4 {
		t.Errorf("estimatedHours = %v, want within [1, 4]", got.EstimatedHours)
	}
	if got.ExpirationDate.IsZero() {
		t.Error("expirationDate not set")
	}

	// An annotation never fails: empty input falls back to neutral defaults.
	empty := AnnotateIssue(models.Issue{})
	if empty.Difficulty != models.DifficultyIntermediate {
		t.Errorf("empty issue difficulty = %q, want intermediate", empty.Difficulty)
	}
	if empty.Bounty != 15 {
		t.Errorf("empty issue bounty = %d, want 15", empty.Bounty)
	}
}

func TestSettlementEarnings(t *testing.T) {
	if got := CalculateEarnings(20, models.StakeAccepted); got != 40 {
		t.Errorf("accepted earnings = %d, want 40", got)
	}
	if got := CalculateEarnings(21, models.StakeRejected); got != 10 {
		t.Errorf("rejected earnings = %d, want 10", got)
	}
	if got := CalculateXPGain(100, models.StakeAccepted); got != 100 {
		t.Errorf("accepted xp gain = %d, want 100", got)
	}
	if got := CalculateXPGain(105, models.StakeRejected); got != 21 {
		t.Errorf("rejected xp gain = %d, want 21", got)
	}
}
