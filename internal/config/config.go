package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`

	SearchMaxResults      int    `envconfig:"SEARCH_MAX_RESULTS" default:"25"`
	SearchAdapterLimit    int    `envconfig:"SEARCH_ADAPTER_LIMIT" default:"50"`
	SearchHistoryLimit    int    `envconfig:"SEARCH_HISTORY_LIMIT" default:"10"`
	SearchSuggestionLimit int    `envconfig:"SEARCH_SUGGESTION_LIMIT" default:"8"`
	SearchTextConfig      string `envconfig:"SEARCH_TEXT_CONFIG" default:"english"`
	SearchForceFallback   bool   `envconfig:"SEARCH_FORCE_FALLBACK" default:"false"`
	SearchParallel        bool   `envconfig:"SEARCH_PARALLEL" default:"true"`
	SearchIsolateFailures bool   `envconfig:"SEARCH_ISOLATE_FAILURES" default:"false"`

	SuggestionAsync             bool          `envconfig:"SUGGESTION_ASYNC" default:"false"`
	SuggestionWorkers           int           `envconfig:"SUGGESTION_WORKERS" default:"4"`
	SuggestionReconcileInterval time.Duration `envconfig:"SUGGESTION_RECONCILE_INTERVAL" default:"0s"`

	// PrincipalHeader carries the account id set by the trusted upstream proxy
	PrincipalHeader string `envconfig:"PRINCIPAL_HEADER" default:"X-User-ID"`
	BaseURL         string `envconfig:"BASE_URL"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SIMS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q: want postgres or sqlite", c.DatabaseDriver)
	}
	if c.SearchMaxResults <= 0 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be positive, got %d", c.SearchMaxResults)
	}
	if c.SuggestionAsync && c.SuggestionWorkers <= 0 {
		return fmt.Errorf("SUGGESTION_WORKERS must be positive when SUGGESTION_ASYNC is set, got %d", c.SuggestionWorkers)
	}
	if c.SuggestionReconcileInterval < 0 {
		return fmt.Errorf("SUGGESTION_RECONCILE_INTERVAL must not be negative")
	}
	// X-Principal-ID is stripped from inbound requests and set only after auth
	if strings.EqualFold(c.PrincipalHeader, "X-Principal-ID") {
		return fmt.Errorf("PRINCIPAL_HEADER must not be X-Principal-ID, which is reserved for the resolved principal")
	}
	return nil
}

func (c *Config) IsSQLite() bool {
	return c.DatabaseDriver == "sqlite"
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

// EffectiveAdapterLimit never lets an adapter return fewer rows than the
// global result limit.
func (c *Config) EffectiveAdapterLimit() int {
	if c.SearchAdapterLimit < c.SearchMaxResults {
		return c.SearchMaxResults
	}
	return c.SearchAdapterLimit
}
