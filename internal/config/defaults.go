package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values used as the base layer under config files and
// environment variables.
const (
	DefaultGitBinary     = "git"
	DefaultRemote        = "origin"
	DefaultHistoryLimit  = 250
	DefaultFetchInterval = 10 * time.Minute
	DefaultLogLevel      = "info"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			Binary:       DefaultGitBinary,
			Remote:       DefaultRemote,
			HistoryLimit: DefaultHistoryLimit,
		},
		Fetch: FetchConfig{
			Interval: DefaultFetchInterval,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Watch: WatchConfig{
			Debounce: DefaultWatchDebounce,
		},
	}
}

// setDefaults registers the built-in defaults on a viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("git.binary", DefaultGitBinary)
	v.SetDefault("git.remote", DefaultRemote)
	v.SetDefault("git.history_limit", DefaultHistoryLimit)
	v.SetDefault("fetch.interval", DefaultFetchInterval.String())
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("watch.debounce", DefaultWatchDebounce.String())
	v.SetDefault("settings_file", "")
}
