// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/gateway"
)

// ErrUpstream marks failures coming from the GitHub API rather than from the caller's input.
var ErrUpstream = errors.New("upstream request failed")

// DefaultConcurrency bounds how many repositories are queried at once.
const DefaultConcurrency = 4

// Aggregator is the use case for aggregating GitHub stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher     gateway.Fetcher
	logger      *zap.Logger
	concurrency int
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, concurrency int, logger *zap.Logger) *Aggregator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: concurrency,
	}
}

// CollectMetrics fetches the yearly commit, PR, merge and issue counts of every repository.
// The result follows the order of repos.
func (a *Aggregator) CollectMetrics(ctx context.Context, owner string, repos []string, year int) (*domain.RepoMetrics, error) {
	a.logger.Info("Usecase: Starting metrics aggregation...", zap.String("owner", owner), zap.Int("year", year), zap.Int("repos", len(repos)))

	records := make([]domain.MetricRecord, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, repo := range repos {
		eg.Go(func() error {
			rec, err := a.collectRepo(egCtx, owner, repo, year)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUpstream, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	metrics := domain.NewRepoMetrics()
	for i, repo := range repos {
		metrics.Set(repo, records[i])
	}
	a.logger.Info("Usecase: Metrics aggregation complete.")
	return metrics, nil
}

func (a *Aggregator) collectRepo(ctx context.Context, owner, repo string, year int) (domain.MetricRecord, error) {
	commits, err := a.fetcher.FetchCommitCount(ctx, owner, repo, year)
	if err != nil {
		return nil, err
	}
	prs, err := a.fetcher.FetchCreatedPRCount(ctx, owner, repo, year)
	if err != nil {
		return nil, err
	}
	merges, err := a.fetcher.FetchMergedPRCount(ctx, owner, repo, year)
	if err != nil {
		return nil, err
	}
	issues, err := a.fetcher.FetchIssueCount(ctx, owner, repo, year)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Collected repository metrics", zap.String("repo", repo),
		zap.Int("commits", commits), zap.Int("prs", prs), zap.Int("merges", merges), zap.Int("issues", issues))
	return domain.NewMetricRecord(commits, prs, merges, issues), nil
}

// CollectFrequency fetches the yearly additions and deletions of every repository.
// The result follows the order of repos.
func (a *Aggregator) CollectFrequency(ctx context.Context, owner string, repos []string, year int) (*domain.RepoFrequency, error) {
	a.logger.Info("Usecase: Starting code frequency aggregation...", zap.String("owner", owner), zap.Int("year", year))

	churns := make([]domain.Churn, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, repo := range repos {
		eg.Go(func() error {
			churn, err := a.fetcher.FetchCodeFrequency(egCtx, owner, repo, year)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUpstream, err)
			}
			churns[i] = churn
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	frequency := domain.NewRepoFrequency()
	for i, repo := range repos {
		frequency.Set(repo, churns[i])
	}
	a.logger.Info("Usecase: Code frequency aggregation complete.")
	return frequency, nil
}
