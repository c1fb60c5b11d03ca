package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/curillo/escritorio/internal/config"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// GlobalFlags holds the persistent flags shared by every subcommand.
type GlobalFlags struct {
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet restricts logging to warnings and errors.
	Quiet bool
}

// globalLogger and globalConfig are initialized during PersistentPreRunE
// and read by subcommands via GetLogger / GetConfig.
var (
	globalLogger zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalConfig *config.Config //nolint:gochecknoglobals // Loaded once per invocation
	globalMu     sync.RWMutex   //nolint:gochecknoglobals // Protects the two above
)

// GetLogger returns the initialized logger. It must only be called after
// the root command's PersistentPreRunE has executed; before that it
// returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// GetConfig returns the loaded configuration, or the defaults if the
// root command has not initialized yet.
func GetConfig() *config.Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// newRootCmd creates the root command for the escritorio CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escritorio",
		Short: "escritorio - a desktop-style git client for the terminal",
		Long: `escritorio tracks a working directory the way a desktop git client does:
live status with per-line staging, branch management, history, and
background fetch, all from the terminal.

Run it with no subcommand to open the interactive interface on the
current repository.`,
		Version: formatVersion(info),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			globalMu.Lock()
			globalConfig = cfg
			globalLogger = InitLogger(cfg, flags.Verbose, flags.Quiet)
			globalMu.Unlock()

			return nil
		},
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"only log warnings and errors")

	AddStatusCommand(cmd)
	AddLogCommand(cmd)
	AddBranchCommand(cmd)
	AddUICommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// resolveRepoPath returns the absolute repository path from args, or the
// current working directory when no path argument was given.
func resolveRepoPath(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Abs(wd)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()
	return cmd.ExecuteContext(ctx)
}
