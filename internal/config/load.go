package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/curillo/escritorio/internal/errors"
)

// configDirName is the dot-directory under the user home that holds the
// config file and, by default, persisted UI state.
const configDirName = ".escritorio"

// newViperInstance creates a viper instance with defaults, the
// ESCRITORIO_ environment prefix, and the key replacer wired.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ESCRITORIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError reports whether err is viper's missing-file error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// viperDecoderOption wires the mapstructure hooks the Config needs:
// duration strings decode into time.Duration fields.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Load reads configuration from all sources with proper precedence:
// environment variables over the user config file over built-in
// defaults. A missing config file is expected and not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if path, ok := userConfigPath(); ok {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("git.remote", cfg.Git.Remote).
		Dur("fetch.interval", cfg.Fetch.Interval).
		Dur("watch.debounce", cfg.Watch.Debounce).
		Msg("configuration loaded")

	return cfg, nil
}

// unmarshalAndValidate decodes a viper instance into a Config and
// validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// userConfigPath returns the config file path if the user home resolves.
func userConfigPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, configDirName, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// SettingsPath resolves the UI-state file path: the configured location,
// or state.yaml next to the config file.
func SettingsPath(cfg *Config) string {
	if cfg != nil && cfg.SettingsFile != "" {
		return cfg.SettingsFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", configDirName, "state.yaml")
	}
	return filepath.Join(home, configDirName, "state.yaml")
}
