package cmd

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/naka-gawa/github-insights/internal/config"
	"github.com/naka-gawa/github-insights/internal/gateway"
	"github.com/naka-gawa/github-insights/internal/usecase"
	"github.com/naka-gawa/github-insights/internal/view"
)

var timeNow = time.Now

// app holds the dependencies shared by the subcommands.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	resolver   *usecase.Resolver
	aggregator *usecase.Aggregator
}

// newLogger discards all logs unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// loadConfig merges the config file, environment and flags bound to keys.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v := config.New()
	keys := map[string]string{config.KeyGitHubConcurrency: "concurrency"}
	maps.Copy(keys, bindings)
	for key, flag := range keys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", flag, err)
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Load(v, path)
}

// newApp builds the logger, config and GitHub-backed use cases for cmd.
func newApp(cmd *cobra.Command, bindings map[string]string) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, bindings)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, gateway.Options{
		FrequencyRetries: cfg.Frequency.MaxRetries,
		FrequencyDelay:   cfg.Frequency.RetryDelay,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return &app{
		cfg:        cfg,
		logger:     logger,
		resolver:   usecase.NewResolver(githubGateway, logger),
		aggregator: usecase.NewAggregator(githubGateway, cfg.GitHub.Concurrency, logger),
	}, nil
}

// submit loads one view and returns it, or the reason it failed.
func submit(ctx context.Context, o *view.Orchestrator, user string, year int) (view.Loaded, error) {
	switch state := o.Submit(ctx, user, year).(type) {
	case view.Loaded:
		return state, nil
	case view.Failed:
		return view.Loaded{}, state.Reason
	default:
		return view.Loaded{}, fmt.Errorf("unexpected view state %T", state)
	}
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// addUserYearFlags registers the --user and --year flags shared by the data commands.
func addUserYearFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "Target GitHub user name or profile URL (required)")
	cmd.Flags().IntP("year", "y", time.Now().Year(), "Year to collect activity for")
	_ = cmd.MarkFlagRequired("user")
}

func userYear(cmd *cobra.Command) (string, int) {
	user, _ := cmd.Flags().GetString("user")
	year, _ := cmd.Flags().GetInt("year")
	return user, year
}
