// Package watch observes a repository working directory and triggers a
// status refresh once filesystem activity settles. Events are debounced
// so a burst of writes (a checkout, a build) produces one refresh.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// defaultDebounce is how long the worktree must stay quiet before the
// change callback fires.
const defaultDebounce = 200 * time.Millisecond

// Watcher reports settled changes in a repository working directory.
// The .git directory is ignored except for HEAD, whose changes signal a
// checkout or commit made outside the application.
type Watcher struct {
	repoPath string
	debounce time.Duration
	onChange func()
	logger   zerolog.Logger

	fsw *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// WithDebounce overrides the settle interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New starts watching repoPath. onChange runs on the watcher's goroutine
// after each settled burst of events; it must not block for long.
func New(repoPath string, onChange func(), opts ...Option) (*Watcher, error) {
	w := &Watcher{
		repoPath: repoPath,
		debounce: defaultDebounce,
		onChange: onChange,
		logger:   zerolog.Nop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw

	if err := w.addTree(repoPath); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	// HEAD changes flag external checkouts and commits.
	if err := fsw.Add(filepath.Join(repoPath, ".git")); err != nil {
		w.logger.Debug().Err(err).Msg("git dir not watchable")
	}

	go w.loop()
	return w, nil
}

// addTree registers repoPath and every subdirectory except .git.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish mid-walk; skip rather than fail.
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != root {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// loop drains filesystem events, debouncing the change callback.
func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-w.done:
			timer.Stop()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// New directories join the watch so nested writes are seen.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addTree(event.Name)
				}
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Debug().Err(err).Msg("watch error")

		case <-timer.C:
			pending = false
			w.onChange()
		}
	}
}

// relevant filters events inside .git, keeping only HEAD.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.repoPath, event.Name)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] != ".git" {
		return true
	}
	return rel == filepath.Join(".git", "HEAD")
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
