package service

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/pullquest/backend/internal/models"
)

// ---- Reward calculator -----------------------------------------------------

// Base bounty in coins before difficulty and popularity scaling.
const baseBounty = 10

// How long an annotated issue stays stakeable.
const issueLifetime = 7 * 24 * time.Hour

// Label sets used for difficulty classification. Matching is a
// case-insensitive substring test; a beginner match wins over advanced.
var (
	beginnerLabels = []string{"good first issue", "beginner", "easy", "starter", "beginner-friendly"}
	advancedLabels = []string{"complex", "advanced", "hard", "expert"}
)

// EstimateDifficulty classifies an issue from its labels. Absence of any
// recognised label yields intermediate.
func EstimateDifficulty(labels []models.IssueLabel) string {
	var names []string
	for _, l := range labels {
		names = append(names, strings.ToLower(l.Name))
	}

	match := func(set []string) bool {
		for _, name := range names {
			for _, s := range set {
				if strings.Contains(name, s) {
					return true
				}
			}
		}
		return false
	}

	if match(beginnerLabels) {
		return models.DifficultyBeginner
	}
	if match(advancedLabels) {
		return models.DifficultyAdvanced
	}
	return models.DifficultyIntermediate
}

func difficultyMultiplier(difficulty string) float64 {
	switch difficulty {
	case models.DifficultyBeginner:
		return 1
	case models.DifficultyAdvanced:
		return 2
	default:
		return 1.5
	}
}

// CalculateBounty derives the coin bounty. Repository popularity scales the
// reward upward without bound; that is an intentional incentive for working
// on widely-used projects, not a bug.
func CalculateBounty(difficulty string, repoStars int) int {
	return int(math.Round(baseBounty * difficultyMultiplier(difficulty) * (1 + float64(repoStars)/1000)))
}

// CalculateXPReward returns the fixed XP for a difficulty tier.
func CalculateXPReward(difficulty string) int {
	switch difficulty {
	case models.DifficultyBeginner:
		return 50
	case models.DifficultyAdvanced:
		return 150
	default:
		return 100
	}
}

// CalculateStakingRequired derives the coin stake needed to claim an issue.
func CalculateStakingRequired(bounty int) int {
	return int(math.Floor(float64(bounty) * 0.3))
}

// EstimateHours picks an effort estimate within a band keyed by how much
// discussion and description the issue carries. The in-band value is random
// on purpose: it is estimation noise, not a deterministic metric. Tests
// assert band membership only.
func EstimateHours(bodyLength, commentsCount int) float64 {
	switch {
	case bodyLength < 200 && commentsCount < 5:
		return rand.Float64()*3 + 1 // 1-4h
	case bodyLength < 500 && commentsCount < 15:
		return rand.Float64()*8 + 4 // 4-12h
	default:
		return rand.Float64()*20 + 12 // 12-32h
	}
}

// AnnotateIssue fills the reward annotation on a raw GitHub issue. It never
// fails: missing inputs (no labels, zero stars) fall through to neutral
// defaults.
func AnnotateIssue(issue models.Issue) models.Issue {
	difficulty := EstimateDifficulty(issue.Labels)
	bounty := CalculateBounty(difficulty, issue.Repository.StargazersCount)

	issue.Difficulty = difficulty
	issue.Bounty = bounty
	issue.XPReward = CalculateXPReward(difficulty)
	issue.StakingRequired = CalculateStakingRequired(bounty)
	issue.EstimatedHours = EstimateHours(len(issue.Body), issue.CommentsCount)
	issue.ExpirationDate = time.Now().Add(issueLifetime)
	return issue
}

// ---- Settlement earnings ---------------------------------------------------

// CalculateEarnings returns the coins earned on settlement. An accepted
// stake doubles; a rejected one salvages half (the original stake itself is
// forfeited on rejection).
func CalculateEarnings(stake int, status models.StakeStatus) int {
	if status == models.StakeAccepted {
		return stake * 2
	}
	return int(math.Floor(float64(stake) * 0.5))
}

// CalculateXPGain returns the XP earned on settlement: the full issue XP
// when accepted, a 20% consolation when rejected.
func CalculateXPGain(issueXP int, status models.StakeStatus) int {
	if status == models.StakeAccepted {
		return issueXP
	}
	return int(math.Floor(float64(issueXP) * 0.2))
}
