// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-insights/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListRepositories(ctx context.Context, user string) ([]string, error)
	FetchCommitCount(ctx context.Context, owner, repo string, year int) (int, error)
	FetchCreatedPRCount(ctx context.Context, owner, repo string, year int) (int, error)
	FetchMergedPRCount(ctx context.Context, owner, repo string, year int) (int, error)
	FetchIssueCount(ctx context.Context, owner, repo string, year int) (int, error)
	FetchCodeFrequency(ctx context.Context, owner, repo string, year int) (domain.Churn, error)
}

// Options tunes the gateway.
type Options struct {
	// FrequencyRetries is how many times a code frequency request is sent
	// while GitHub is still computing the statistics (HTTP 202).
	FrequencyRetries int
	// FrequencyDelay is the wait between those attempts.
	FrequencyDelay time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{FrequencyRetries: 5, FrequencyDelay: 2 * time.Second}
}

// ErrStatsNotReady is returned when GitHub keeps answering 202 for code frequency.
var ErrStatsNotReady = errors.New("repository statistics are still being computed")

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	opts          Options
	logger        *zap.Logger
}

// issueCountQuery counts the issues and pull requests matching a search query.
type issueCountQuery struct {
	Search struct {
		IssueCount int
	} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, opts Options, logger *zap.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		opts:          opts,
		logger:        logger,
	}, nil
}

// ListRepositories returns the names of the user's public repositories in the order GitHub lists them.
func (g *GitHubGateway) ListRepositories(ctx context.Context, user string) ([]string, error) {
	g.logger.Debug("Fetching repositories", zap.String("user", user))
	opts := &github.RepositoryListByUserOptions{ListOptions: github.ListOptions{PerPage: 100}}
	names := make([]string, 0)
	for {
		repos, resp, err := g.restClient.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories of %s: %w", user, err)
		}
		for _, repo := range repos {
			names = append(names, repo.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of repositories...")
	}
	g.logger.Debug("Completed fetching repositories", zap.Int("count", len(names)))
	return names, nil
}

// FetchCommitCount counts the commits of a repository authored within the calendar year.
func (g *GitHubGateway) FetchCommitCount(ctx context.Context, owner, repo string, year int) (int, error) {
	g.logger.Debug("[1/5] Fetching commit data using REST API...", zap.String("repo", repo))
	since, until := yearBounds(year)
	opts := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	count := 0
	for {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			// GitHub answers 409 Conflict for a repository without any commit.
			var ghErr *github.ErrorResponse
			if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusConflict {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to list commits of %s/%s with REST API: %w", owner, repo, err)
		}
		count += len(commits)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of commits...", zap.String("repo", repo))
	}
	return count, nil
}

func (g *GitHubGateway) FetchCreatedPRCount(ctx context.Context, owner, repo string, year int) (int, error) {
	g.logger.Debug("[2/5] Fetching created PR data...", zap.String("repo", repo))
	query := fmt.Sprintf("repo:%s/%s is:pr created:%s", owner, repo, yearRange(year))
	return g.fetchIssueCount(ctx, query)
}

func (g *GitHubGateway) FetchMergedPRCount(ctx context.Context, owner, repo string, year int) (int, error) {
	g.logger.Debug("[3/5] Fetching merged PR data...", zap.String("repo", repo))
	query := fmt.Sprintf("repo:%s/%s is:pr is:merged merged:%s", owner, repo, yearRange(year))
	return g.fetchIssueCount(ctx, query)
}

func (g *GitHubGateway) FetchIssueCount(ctx context.Context, owner, repo string, year int) (int, error) {
	g.logger.Debug("[4/5] Fetching issue data...", zap.String("repo", repo))
	query := fmt.Sprintf("repo:%s/%s is:issue created:%s", owner, repo, yearRange(year))
	return g.fetchIssueCount(ctx, query)
}

func (g *GitHubGateway) fetchIssueCount(ctx context.Context, query string) (int, error) {
	variables := map[string]interface{}{"query": githubv4.String(query)}
	var q issueCountQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for counts: %w", err)
	}
	g.logger.Debug("Completed fetching count", zap.String("query", query), zap.Int("count", q.Search.IssueCount))
	return q.Search.IssueCount, nil
}

// FetchCodeFrequency sums the weekly additions and deletions of the weeks starting in year.
// Deletions are returned as a positive number of lines.
func (g *GitHubGateway) FetchCodeFrequency(ctx context.Context, owner, repo string, year int) (domain.Churn, error) {
	g.logger.Debug("[5/5] Fetching code frequency data...", zap.String("repo", repo))
	attempts := max(g.opts.FrequencyRetries, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		weeks, _, err := g.restClient.Repositories.ListCodeFrequency(ctx, owner, repo)
		if err == nil {
			return sumWeeks(weeks, year), nil
		}
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			return domain.Churn{}, fmt.Errorf("failed to fetch code frequency of %s/%s: %w", owner, repo, err)
		}
		g.logger.Debug("  Code frequency is being computed, retrying...", zap.String("repo", repo), zap.Int("attempt", attempt))
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return domain.Churn{}, ctx.Err()
		case <-time.After(g.opts.FrequencyDelay):
		}
	}
	return domain.Churn{}, fmt.Errorf("failed to fetch code frequency of %s/%s after %d attempts: %w", owner, repo, attempts, ErrStatsNotReady)
}

func sumWeeks(weeks []*github.WeeklyStats, year int) domain.Churn {
	var churn domain.Churn
	for _, week := range weeks {
		if week.GetWeek().Time.UTC().Year() != year {
			continue
		}
		churn.Additions += week.GetAdditions()
		deletions := week.GetDeletions()
		if deletions < 0 {
			deletions = -deletions
		}
		churn.Deletions += deletions
	}
	return churn
}

// yearBounds returns the first and last second of the calendar year in UTC.
func yearBounds(year int) (time.Time, time.Time) {
	since := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return since, until
}

// yearRange formats the calendar year as a GitHub search date range.
func yearRange(year int) string {
	return fmt.Sprintf("%d-01-01..%d-12-31", year, year)
}
