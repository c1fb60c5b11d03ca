package config

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/curillo/escritorio/internal/errors"
)

// Validation bounds.
const (
	maxHistoryLimit  = 10000
	maxFetchInterval = 24 * time.Hour
	minWatchDebounce = 10 * time.Millisecond
	maxWatchDebounce = 10 * time.Second
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateGitConfig(&cfg.Git); err != nil {
		return err
	}
	if err := validateFetchConfig(&cfg.Fetch); err != nil {
		return err
	}
	if err := validateLogConfig(&cfg.Log); err != nil {
		return err
	}
	return validateWatchConfig(&cfg.Watch)
}

// validateGitConfig checks git-specific values.
func validateGitConfig(cfg *GitConfig) error {
	if cfg.Binary == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "git.binary must not be empty")
	}
	if cfg.Remote == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "git.remote must not be empty")
	}
	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > maxHistoryLimit {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"git.history_limit must be between 1 and %d, got %d",
			maxHistoryLimit, cfg.HistoryLimit)
	}
	return nil
}

// validateFetchConfig checks background fetch values. A zero interval
// disables background fetching and is valid.
func validateFetchConfig(cfg *FetchConfig) error {
	if cfg.Interval < 0 || cfg.Interval > maxFetchInterval {
		return errors.Wrapf(errors.ErrConfigInvalidFetch,
			"fetch.interval must be between 0 and %s, got %s",
			maxFetchInterval, cfg.Interval)
	}
	return nil
}

// validateLogConfig checks that the level parses.
func validateLogConfig(cfg *LogConfig) error {
	if _, err := zerolog.ParseLevel(cfg.Level); err != nil {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"log.level %q is not a valid level", cfg.Level)
	}
	return nil
}

// validateWatchConfig checks watcher values.
func validateWatchConfig(cfg *WatchConfig) error {
	if cfg.Debounce < minWatchDebounce || cfg.Debounce > maxWatchDebounce {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"watch.debounce must be between %s and %s, got %s",
			minWatchDebounce, maxWatchDebounce, cfg.Debounce)
	}
	return nil
}
