package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/curillo/escritorio/internal/config"
	"github.com/curillo/escritorio/internal/settings"
	"github.com/curillo/escritorio/internal/store"
	"github.com/curillo/escritorio/internal/tui"
	"github.com/curillo/escritorio/internal/watch"
)

// AddUICommand adds the ui command to the root command.
func AddUICommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui [path]",
		Short: "Open the interactive interface",
		Long: `Open the interactive two-pane interface on a repository: changed files
with per-line staging on the left, the selected file's diff on the
right. The working directory is watched so external changes appear
without manual refreshing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), args)
		},
	}
	parent.AddCommand(cmd)
}

// runUI builds the application store, the working-directory watcher, and
// the Bubble Tea program, then blocks until the interface exits.
func runUI(ctx context.Context, args []string) error {
	cfg := GetConfig()
	logger := GetLogger()

	repoPath, err := resolveRepoPath(args)
	if err != nil {
		return err
	}

	settingsStore, err := settings.NewFile(config.SettingsPath(cfg))
	if err != nil {
		return err
	}

	app := store.NewAppStore(settingsStore,
		store.WithAppLogger(logger),
		store.WithFetchInterval(cfg.Fetch.Interval),
		store.WithAppRemote(cfg.Git.Remote),
		store.WithAppHistoryLimit(cfg.Git.HistoryLimit),
		store.WithAppGitBinary(cfg.Git.Binary),
	)
	defer app.Shutdown()

	if app.AddRepository(ctx, repoPath) {
		app.SelectRepository(ctx, repoPath)
	} else if len(args) > 0 || !app.RestoreLastRepository(ctx) {
		// An explicit path that fails to open is a hard error; without
		// one, falling back to the previous session's repository was the
		// last resort.
		if errs := app.Snapshot().Errors; len(errs) > 0 {
			return errs[len(errs)-1].Err
		}
		return nil
	}

	// The selection may differ from repoPath after a restore fallback.
	if selected := app.Snapshot().SelectedRepository; selected != nil {
		repoPath = selected.Path
	}

	watcher, err := watch.New(repoPath,
		func() { app.RefreshStatus(context.WithoutCancel(ctx)) },
		watch.WithDebounce(cfg.Watch.Debounce))
	if err != nil {
		logger.Warn().Err(err).Msg("working directory watcher unavailable")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	model := tui.New(ctx, app)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
