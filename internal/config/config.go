// Package config loads settings from defaults, an optional YAML file,
// environment variables and bound command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. INSIGHTS_SERVER_ADDR.
const EnvPrefix = "INSIGHTS"

// Keys.
const (
	KeyGitHubToken        = "github.token"
	KeyGitHubConcurrency  = "github.concurrency"
	KeyServerAddr         = "server.addr"
	KeyServerOrigins      = "server.allowed_origins"
	KeyFrequencyRetries   = "frequency.max_retries"
	KeyFrequencyRetryWait = "frequency.retry_delay"
)

// ErrMissingToken is returned when a GitHub token is required but not configured.
var ErrMissingToken = errors.New("GITHUB_TOKEN environment variable is not set")

type Config struct {
	GitHub    GitHub    `mapstructure:"github"`
	Server    Server    `mapstructure:"server"`
	Frequency Frequency `mapstructure:"frequency"`
}

type GitHub struct {
	Token       string `mapstructure:"token"`
	Concurrency int    `mapstructure:"concurrency"`
}

type Server struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Frequency struct {
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// New returns a viper instance with defaults and environment bindings set.
// The plain GITHUB_TOKEN variable is honored as well as INSIGHTS_GITHUB_TOKEN.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyGitHubToken, "")
	v.SetDefault(KeyGitHubConcurrency, 4)
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyServerOrigins, []string{})
	v.SetDefault(KeyFrequencyRetries, 5)
	v.SetDefault(KeyFrequencyRetryWait, 2*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyGitHubToken, EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")
	return v
}

// Load reads path into v when it is not empty and decodes the merged settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Server.AllowedOrigins = removeBlank(cfg.Server.AllowedOrigins)
	if cfg.GitHub.Concurrency <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyGitHubConcurrency, cfg.GitHub.Concurrency)
	}
	if cfg.Frequency.MaxRetries < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", KeyFrequencyRetries, cfg.Frequency.MaxRetries)
	}
	return &cfg, nil
}

// RequireToken fails with ErrMissingToken when no GitHub token is configured.
func (c *Config) RequireToken() error {
	if c.GitHub.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// removeBlank trims entries and drops empty ones. Comma separated values are split.
func removeBlank(values []string) []string {
	result := []string{}
	for _, val := range values {
		for _, part := range strings.Split(val, ",") {
			if trim := strings.TrimSpace(part); trim != "" {
				result = append(result, trim)
			}
		}
	}
	return result
}
