package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

// ---- Contracts -------------------------------------------------------------

// AnalysisRepository persists the cached GitHub-derived snapshots. Upserts
// replace the stored document wholesale; there is no merging.
type AnalysisRepository interface {
	FindRepoAnalysis(ctx context.Context, userID primitive.ObjectID, username string) (models.RepoAnalysis, error)
	UpsertRepoAnalysis(ctx context.Context, a models.RepoAnalysis) error
	FindIssueSuggestions(ctx context.Context, userID primitive.ObjectID, username string) (models.IssueSuggestions, error)
	UpsertIssueSuggestions(ctx context.Context, s models.IssueSuggestions) error
}

// IssueSource is the slice of the GitHub client the contributor flow needs.
type IssueSource interface {
	ListUserRepos(ctx context.Context, username string) ([]models.Repository, error)
	GetRepoLanguages(ctx context.Context, owner, name string) (map[string]int, error)
	SearchIssues(ctx context.Context, languages []string) ([]models.Issue, error)
	GetRepoDetails(ctx context.Context, owner, name string) (models.Repository, error)
}

// ---- Service ---------------------------------------------------------------

// ContributorService computes and caches a contributor's repository analysis
// and their suggested issues, annotated with rewards.
type ContributorService interface {
	AnalyzeRepositories(ctx context.Context, userID, username string, force bool) (models.RepoAnalysis, error)
	SuggestedIssues(ctx context.Context, userID, username string, force bool) (models.IssueSuggestions, error)
}

type contributorService struct {
	analyses AnalysisRepository
	gh       IssueSource
}

func NewContributorService(analyses AnalysisRepository, gh IssueSource) ContributorService {
	return &contributorService{analyses: analyses, gh: gh}
}

// AnalyzeRepositories returns the cached analysis while it is under 24 hours
// old, otherwise refetches the contributor's repositories and language bytes
// from GitHub and recomputes the statistics. force always recomputes.
func (s *contributorService) AnalyzeRepositories(ctx context.Context, userID, username string, force bool) (models.RepoAnalysis, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.RepoAnalysis{}, apperr.New(apperr.Validation, "invalid user id %q", userID)
	}
	if username == "" {
		return models.RepoAnalysis{}, apperr.New(apperr.Validation, "github username is required")
	}

	cached, err := s.analyses.FindRepoAnalysis(ctx, id, username)
	if err != nil && !apperr.Is(err, apperr.NotFound) {
		return models.RepoAnalysis{}, err
	}

	return RefreshIfStale(cached, cached.LastAnalyzed, RepoAnalysisTTL, force, func() (models.RepoAnalysis, error) {
		return s.recomputeAnalysis(ctx, id, username)
	})
}

func (s *contributorService) recomputeAnalysis(ctx context.Context, userID primitive.ObjectID, username string) (models.RepoAnalysis, error) {
	repos, err := s.gh.ListUserRepos(ctx, username)
	if err != nil {
		return models.RepoAnalysis{}, err
	}
	if len(repos) == 0 {
		return models.RepoAnalysis{}, apperr.New(apperr.NotFound, "no public repositories found for %s", username)
	}

	languagesData := make(map[string]map[string]int, len(repos))
	for _, repo := range repos {
		owner, name, ok := strings.Cut(repo.FullName, "/")
		if !ok {
			continue
		}
		langs, err := s.gh.GetRepoLanguages(ctx, owner, name)
		if err != nil {
			// One unreadable repo should not sink the whole analysis.
			log.Printf("[Contributor Service] failed to fetch languages for %s: %v", repo.FullName, err)
			continue
		}
		languagesData[repo.FullName] = langs
	}

	stats, top := aggregateLanguageStats(repos, languagesData)

	analysis := models.RepoAnalysis{
		UserID:         userID,
		GithubUsername: username,
		Repositories:   repos,
		LanguageStats:  stats,
		TopLanguages:   top,
		LastAnalyzed:   time.Now(),
	}
	if err := s.analyses.UpsertRepoAnalysis(ctx, analysis); err != nil {
		return models.RepoAnalysis{}, err
	}
	return analysis, nil
}

// SuggestedIssues returns the cached suggestion set while it is under 4
// hours old, otherwise searches GitHub by the contributor's top languages
// and annotates every hit with rewards. Requires a prior repository
// analysis.
func (s *contributorService) SuggestedIssues(ctx context.Context, userID, username string, force bool) (models.IssueSuggestions, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.IssueSuggestions{}, apperr.New(apperr.Validation, "invalid user id %q", userID)
	}
	if username == "" {
		return models.IssueSuggestions{}, apperr.New(apperr.Validation, "github username is required")
	}

	analysis, err := s.analyses.FindRepoAnalysis(ctx, id, username)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return models.IssueSuggestions{}, apperr.New(apperr.NotFound, "no language analysis found for %s; analyze repositories first", username)
		}
		return models.IssueSuggestions{}, err
	}
	if len(analysis.TopLanguages) == 0 {
		return models.IssueSuggestions{}, apperr.New(apperr.NotFound, "no language analysis found for %s; analyze repositories first", username)
	}

	cached, err := s.analyses.FindIssueSuggestions(ctx, id, username)
	if err != nil && !apperr.Is(err, apperr.NotFound) {
		return models.IssueSuggestions{}, err
	}

	return RefreshIfStale(cached, cached.LastFetched, IssueSuggestionsTTL, force, func() (models.IssueSuggestions, error) {
		return s.recomputeSuggestions(ctx, id, username, analysis.TopLanguages)
	})
}

func (s *contributorService) recomputeSuggestions(ctx context.Context, userID primitive.ObjectID, username string, languages []string) (models.IssueSuggestions, error) {
	raw, err := s.gh.SearchIssues(ctx, languages)
	if err != nil {
		return models.IssueSuggestions{}, err
	}

	annotated := make([]models.Issue, len(raw))
	for i, issue := range raw {
		// The search API omits star counts, which the bounty scales on.
		if issue.Repository.StargazersCount == 0 {
			if owner, name, ok := strings.Cut(issue.Repository.FullName, "/"); ok {
				if repo, err := s.gh.GetRepoDetails(ctx, owner, name); err == nil {
					issue.Repository.StargazersCount = repo.StargazersCount
					issue.Repository.Description = repo.Description
					issue.Repository.Language = repo.Language
					issue.Repository.ForksCount = repo.ForksCount
				} else {
					log.Printf("[Contributor Service] failed to fetch repo details for %s: %v", issue.Repository.FullName, err)
				}
			}
		}
		annotated[i] = AnnotateIssue(issue)
	}

	suggestions := models.IssueSuggestions{
		UserID:           userID,
		GithubUsername:   username,
		SuggestedIssues:  annotated,
		UserTopLanguages: languages,
		LastFetched:      time.Now(),
	}
	if err := s.analyses.UpsertIssueSuggestions(ctx, suggestions); err != nil {
		return models.IssueSuggestions{}, err
	}
	return suggestions, nil
}

// aggregateLanguageStats folds per-repo language byte counts into per-language
// totals with percentages, and picks the top five languages by volume.
func aggregateLanguageStats(repos []models.Repository, languagesData map[string]map[string]int) (map[string]models.LanguageStats, []string) {
	type acc struct {
		count      int
		totalBytes int
	}
	byLang := make(map[string]*acc)
	totalBytes := 0

	for _, repo := range repos {
		for lang, bytes := range languagesData[repo.FullName] {
			a := byLang[lang]
			if a == nil {
				a = &acc{}
				byLang[lang] = a
			}
			a.count++
			a.totalBytes += bytes
			totalBytes += bytes
		}
	}

	stats := make(map[string]models.LanguageStats, len(byLang))
	for lang, a := range byLang {
		pct := 0.0
		if totalBytes > 0 {
			pct = float64(a.totalBytes) / float64(totalBytes) * 100
		}
		stats[lang] = models.LanguageStats{
			Count:      a.count,
			Percentage: pct,
			TotalBytes: a.totalBytes,
		}
	}

	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		return stats[langs[i]].TotalBytes > stats[langs[j]].TotalBytes
	})
	if len(langs) > 5 {
		langs = langs[:5]
	}
	return stats, langs
}
