// Package config provides configuration management for escritorio with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest
// precedence first):
//  1. Environment variables (ESCRITORIO_* prefix)
//  2. Config file (~/.escritorio/config.yaml)
//  3. Built-in defaults
//
// This package may import internal/errors but MUST NOT import
// internal/domain or the store packages.
package config

import "time"

// Config is the root configuration structure for escritorio.
type Config struct {
	// Git contains settings for git operations.
	Git GitConfig `yaml:"git" mapstructure:"git"`

	// Fetch contains settings for background fetching.
	Fetch FetchConfig `yaml:"fetch" mapstructure:"fetch"`

	// Log contains logging settings.
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// Watch contains working-directory watcher settings.
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`

	// SettingsFile is where UI state (last repository, pane widths)
	// persists between sessions. Empty means ~/.escritorio/state.yaml.
	SettingsFile string `yaml:"settings_file" mapstructure:"settings_file"`
}

// GitConfig contains settings for git operations.
type GitConfig struct {
	// Binary is the git executable to invoke.
	// Default: "git" (resolved from PATH)
	Binary string `yaml:"binary" mapstructure:"binary"`

	// Remote is the remote name used for push, pull, and fetch.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote"`

	// HistoryLimit caps how many commits a history refresh loads.
	// Default: 250, valid range: 1-10000
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit"`
}

// FetchConfig contains settings for background fetching.
type FetchConfig struct {
	// Interval is how often the selected repository fetches in the
	// background. Zero disables background fetching.
	// Default: 10 minutes
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum level to emit (trace, debug, info, warn, error).
	// Default: "info"
	Level string `yaml:"level" mapstructure:"level"`

	// File is the rotating log file path. Empty logs to stderr only.
	File string `yaml:"file" mapstructure:"file"`
}

// WatchConfig contains working-directory watcher settings.
type WatchConfig struct {
	// Debounce is how long the worktree must stay quiet before a status
	// refresh triggers. Default: 200ms, valid range: 10ms-10s
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}
