package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/naka-gawa/github-insights/internal/gateway"
)

var (
	// ErrInvalidProfile is returned when no username can be read from the submitted profile.
	ErrInvalidProfile = errors.New("could not parse username from profile")
	// ErrInvalidYear is returned for a year outside the range GitHub has data for.
	ErrInvalidYear = errors.New("invalid year")
)

// FirstYear is the year GitHub launched; nothing can be counted before it.
const FirstYear = 2008

// Profile is a resolved GitHub account and its repositories.
type Profile struct {
	Username string   `json:"username"`
	Repos    []string `json:"repos"`
}

// ParseUsername extracts the account name from a profile URL such as
// https://github.com/octocat or github.com/octocat/hello, or returns a bare name as is.
func ParseUsername(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidProfile
	}
	if !strings.Contains(input, "/") {
		return input, nil
	}
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", ErrInvalidProfile
	}
	return strings.Split(path, "/")[0], nil
}

// ValidateYear checks that year lies between FirstYear and the current year.
func ValidateYear(year int, now time.Time) error {
	if year < FirstYear || year > now.Year() {
		return fmt.Errorf("%w: %d is outside %d..%d", ErrInvalidYear, year, FirstYear, now.Year())
	}
	return nil
}

// Resolver turns a submitted profile into a username and its repository list.
type Resolver struct {
	fetcher gateway.Fetcher
	logger  *zap.Logger
}

// NewResolver creates a new Resolver instance.
func NewResolver(fetcher gateway.Fetcher, logger *zap.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logger}
}

// Resolve parses the profile and lists the account's repositories.
func (r *Resolver) Resolve(ctx context.Context, profile string) (Profile, error) {
	username, err := ParseUsername(profile)
	if err != nil {
		return Profile{}, err
	}
	repos, err := r.fetcher.ListRepositories(ctx, username)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	r.logger.Info("Usecase: Resolved profile", zap.String("username", username), zap.Int("repos", len(repos)))
	return Profile{Username: username, Repos: repos}, nil
}
