package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/curillo/escritorio/internal/clock"
	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
	"github.com/curillo/escritorio/internal/git"
)

// gitService is the facade surface the store drives. *git.Client satisfies
// it; tests substitute a fake to control timing and failures.
type gitService interface {
	Status(ctx context.Context) (domain.WorkingDirectoryStatus, error)
	DiffForFile(ctx context.Context, file domain.FileChange) (domain.Diff, error)
	CreateCommit(ctx context.Context, message string, files []domain.FileChange) (string, error)
	Branches(ctx context.Context) ([]domain.Branch, error)
	CurrentBranch(ctx context.Context) (string, error)
	DefaultBranch(ctx context.Context) (string, error)
	Log(ctx context.Context, limit int) ([]domain.Commit, error)
	Commit(ctx context.Context, sha string) (domain.Commit, error)
	AheadBehind(ctx context.Context, branch, upstream string) (domain.AheadBehind, error)
	CreateBranch(ctx context.Context, name, baseBranch string) error
	RenameBranch(ctx context.Context, oldName, newName string) error
	DeleteBranch(ctx context.Context, name, defaultBranch string) error
	Checkout(ctx context.Context, name string) error
	Push(ctx context.Context, remote, branch string, setUpstream bool) error
	Pull(ctx context.Context, remote, branch string) error
	Fetch(ctx context.Context, remote string) error
}

// Verify the facade satisfies the store's surface.
var _ gitService = (*git.Client)(nil)

// defaultHistoryLimit caps how many commits a history refresh loads.
const defaultHistoryLimit = 250

// State is the per-repository snapshot the UI renders. Values are
// replaced wholesale on every mutation, never edited in place, so a
// snapshot handed out remains valid after further store activity.
type State struct {
	Repository domain.Repository

	Status         domain.WorkingDirectoryStatus
	SelectedFileID string

	// Diff is the loaded diff for the selected file; HasDiff distinguishes
	// "no diff loaded" from an empty text diff.
	Diff    domain.Diff
	HasDiff bool

	Branches      []domain.Branch
	CurrentBranch string
	DefaultBranch string

	// HistoryOrder is the ordered SHA list; Commits maps SHA to detail and
	// fills lazily for commits outside the initial load window.
	HistoryOrder []string
	Commits      map[string]domain.Commit

	// AheadBehind is nil for branches without an upstream.
	AheadBehind *domain.AheadBehind

	LastFetched   time.Time
	RemotePending bool
}

// GitStore owns the authoritative in-memory model for one repository and
// emits a coalesced update notification when any of it changes. Mutating
// git operations on the same repository are serialized through an
// internal mutex; the working directory is a single shared resource and
// concurrent checkout-and-commit must not interleave.
type GitStore struct {
	repo    domain.Repository
	client  gitService
	logger  zerolog.Logger
	clk     clock.Clock
	notify  func()
	postErr func(error)

	historyLimit int
	remote       string

	// opMu serializes mutating git operations.
	opMu sync.Mutex

	// mu guards state and version.
	mu    sync.Mutex
	state State
	// version is the selection version: bumped whenever the selected file
	// or its selection context changes. Async loads capture it before
	// running and re-check it before committing results, discarding
	// superseded loads silently.
	version uint64

	statusGroup singleflight.Group

	fetchMu   sync.Mutex
	fetchStop chan struct{}
}

// GitStoreOption customizes a GitStore.
type GitStoreOption func(*GitStore)

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) GitStoreOption {
	return func(s *GitStore) { s.logger = logger }
}

// WithClock sets the clock used for timestamps and the fetch timer.
func WithClock(clk clock.Clock) GitStoreOption {
	return func(s *GitStore) { s.clk = clk }
}

// WithNotify sets the update-notification callback.
func WithNotify(fn func()) GitStoreOption {
	return func(s *GitStore) { s.notify = fn }
}

// WithErrorSink sets the destination for posted operation errors.
func WithErrorSink(fn func(error)) GitStoreOption {
	return func(s *GitStore) { s.postErr = fn }
}

// WithHistoryLimit caps the number of commits loaded per history refresh.
func WithHistoryLimit(n int) GitStoreOption {
	return func(s *GitStore) { s.historyLimit = n }
}

// WithRemote sets the remote name used for push, pull, and fetch.
func WithRemote(name string) GitStoreOption {
	return func(s *GitStore) { s.remote = name }
}

// NewGitStore creates a store for one repository.
func NewGitStore(repo domain.Repository, client gitService, opts ...GitStoreOption) *GitStore {
	s := &GitStore{
		repo:         repo,
		client:       client,
		logger:       zerolog.Nop(),
		clk:          clock.RealClock{},
		notify:       func() {},
		postErr:      func(error) {},
		historyLimit: defaultHistoryLimit,
		remote:       "origin",
		state:        State{Repository: repo},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. The returned value and everything
// reachable from it is treated as immutable by both sides.
func (s *GitStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// failable runs one operation, converting any failure into a posted
// application error instead of propagating it. The boolean result lets
// callers treat failure as "nothing happened".
func (s *GitStore) failable(op string, fn func() error) bool {
	if err := fn(); err != nil {
		s.logger.Error().
			Err(err).
			Str("op", op).
			Str("repo", s.repo.Path).
			Msg("git operation failed")
		s.postErr(err)
		return false
	}
	return true
}

// RefreshStatus reloads the working directory status, merges it against
// the previous one preserving selections, and reloads the selected
// file's diff. Concurrent refreshes for the same repository are deduped.
func (s *GitStore) RefreshStatus(ctx context.Context) bool {
	return s.refreshStatus(ctx, false)
}

func (s *GitStore) refreshStatus(ctx context.Context, clearSelections bool) bool {
	ok := s.failable("status", func() error {
		v, err, _ := s.statusGroup.Do("status", func() (any, error) {
			return s.client.Status(ctx)
		})
		if err != nil {
			return err
		}
		fresh, _ := v.(domain.WorkingDirectoryStatus)

		s.mu.Lock()
		merged := Reconcile(s.state.Status, fresh, clearSelections)
		s.state.Status = merged
		selected, _ := ResolveSelectedFile(merged, s.state.SelectedFileID)
		if selected != s.state.SelectedFileID {
			s.state.SelectedFileID = selected
		}
		s.version++
		version := s.version
		s.mu.Unlock()
		s.notify()

		s.loadDiff(ctx, version)
		return nil
	})
	return ok
}

// SelectFile changes the selected file and loads its diff.
func (s *GitStore) SelectFile(ctx context.Context, fileID string) bool {
	s.mu.Lock()
	if _, ok := s.state.Status.FindByID(fileID); !ok {
		s.mu.Unlock()
		s.postErr(fmt.Errorf("file %q: %w", fileID, escerrors.ErrFileNotInStatus))
		return false
	}
	s.state.SelectedFileID = fileID
	s.version++
	version := s.version
	s.mu.Unlock()
	s.notify()

	return s.loadDiff(ctx, version)
}

// SetFileSelection replaces the selection for one file, e.g. after the
// user toggles a line or an include checkbox.
func (s *GitStore) SetFileSelection(fileID string, selection domain.DiffSelection) bool {
	s.mu.Lock()
	file, ok := s.state.Status.FindByID(fileID)
	if !ok {
		s.mu.Unlock()
		s.postErr(fmt.Errorf("file %q: %w", fileID, escerrors.ErrFileNotInStatus))
		return false
	}
	file.Selection = selection
	s.state.Status = replaceFile(s.state.Status, file)
	s.mu.Unlock()
	s.notify()
	return true
}

// loadDiff loads the diff for the currently selected file. The version
// captured at scheduling time is re-checked before the result is applied;
// a mismatch means the load was superseded and the result is discarded.
func (s *GitStore) loadDiff(ctx context.Context, version uint64) bool {
	s.mu.Lock()
	file, ok := s.state.Status.FindByID(s.state.SelectedFileID)
	if !ok {
		s.state.Diff = domain.Diff{}
		s.state.HasDiff = false
		s.mu.Unlock()
		s.notify()
		return true
	}
	s.mu.Unlock()

	var diff domain.Diff
	loaded := s.failable("diff", func() error {
		var err error
		diff, err = s.client.DiffForFile(ctx, file)
		return err
	})
	if !loaded {
		return false
	}

	s.mu.Lock()
	if s.version != version {
		s.mu.Unlock()
		s.logger.Debug().
			Str("file", file.Path).
			Msg("discarding superseded diff load")
		return true
	}
	// Re-resolve the file: its selection may have changed while the diff
	// loaded, and the copy captured at scheduling time must not overwrite
	// that newer state.
	current, ok := s.state.Status.FindByID(file.ID())
	if !ok {
		s.mu.Unlock()
		s.logger.Debug().
			Str("file", file.Path).
			Msg("discarding diff load for vanished file")
		return true
	}
	// Constrain the selection to the lines that still exist.
	constrained := ConstrainSelection(current, diff)
	s.state.Status = replaceFile(s.state.Status, constrained)
	s.state.Diff = diff
	s.state.HasDiff = true
	s.mu.Unlock()
	s.notify()
	return true
}

// replaceFile returns a status with one file swapped by identity. The
// slice is copied; snapshots already handed out keep the old value.
func replaceFile(status domain.WorkingDirectoryStatus, file domain.FileChange) domain.WorkingDirectoryStatus {
	files := make([]domain.FileChange, len(status.Files))
	copy(files, status.Files)
	for i := range files {
		if files[i].ID() == file.ID() {
			files[i] = file
			break
		}
	}
	return domain.WorkingDirectoryStatus{Files: files}
}

// RefreshBranches reloads branches, current/default branch, history, and
// the current branch's ahead/behind counts. The independent reads run
// concurrently.
func (s *GitStore) RefreshBranches(ctx context.Context) bool {
	var (
		branches      []domain.Branch
		current       string
		defaultBranch string
		commits       []domain.Commit
	)

	ok := s.failable("branches", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			branches, err = s.client.Branches(gctx)
			return err
		})
		g.Go(func() error {
			name, err := s.client.CurrentBranch(gctx)
			if err != nil {
				// Detached HEAD has no current branch; everything else
				// still renders.
				if errors.Is(err, escerrors.ErrDetachedHead) {
					return nil
				}
				return err
			}
			current = name
			return nil
		})
		g.Go(func() error {
			var err error
			defaultBranch, err = s.client.DefaultBranch(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			commits, err = s.client.Log(gctx, s.historyLimit)
			return err
		})
		return g.Wait()
	})
	if !ok {
		return false
	}

	aheadBehind := s.loadAheadBehind(ctx, branches, current)

	order := make([]string, len(commits))
	detail := make(map[string]domain.Commit, len(commits))
	for i, c := range commits {
		order[i] = c.SHA
		detail[c.SHA] = c
	}

	s.mu.Lock()
	s.state.Branches = branches
	s.state.CurrentBranch = current
	s.state.DefaultBranch = defaultBranch
	s.state.HistoryOrder = order
	s.state.Commits = detail
	s.state.AheadBehind = aheadBehind
	s.mu.Unlock()
	s.notify()
	return true
}

// loadAheadBehind computes ahead/behind for the current branch, nil when
// it has no upstream.
func (s *GitStore) loadAheadBehind(ctx context.Context, branches []domain.Branch, current string) *domain.AheadBehind {
	if current == "" {
		return nil
	}
	for _, b := range branches {
		if b.Kind != domain.BranchLocal || b.Name != current {
			continue
		}
		if !b.HasUpstream() {
			return nil
		}
		ab, err := s.client.AheadBehind(ctx, b.Name, b.Upstream)
		if err != nil {
			s.logger.Debug().Err(err).Str("branch", b.Name).Msg("ahead/behind unavailable")
			return nil
		}
		return &ab
	}
	return nil
}

// CommitDetail returns the detail for one SHA, loading it lazily when the
// history window did not include it.
func (s *GitStore) CommitDetail(ctx context.Context, sha string) (domain.Commit, bool) {
	s.mu.Lock()
	if c, ok := s.state.Commits[sha]; ok {
		s.mu.Unlock()
		return c, true
	}
	s.mu.Unlock()

	var commit domain.Commit
	ok := s.failable("commit-detail", func() error {
		var err error
		commit, err = s.client.Commit(ctx, sha)
		return err
	})
	if !ok {
		return domain.Commit{}, false
	}

	s.mu.Lock()
	detail := make(map[string]domain.Commit, len(s.state.Commits)+1)
	for k, v := range s.state.Commits {
		detail[k] = v
	}
	detail[sha] = commit
	s.state.Commits = detail
	s.mu.Unlock()
	s.notify()
	return commit, true
}

// Commit creates a commit from the current status and its selections,
// then refreshes status (clearing selections) and history.
func (s *GitStore) Commit(ctx context.Context, message string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	files := s.state.Status.Files
	s.mu.Unlock()

	ok := s.failable("commit", func() error {
		_, err := s.client.CreateCommit(ctx, message, files)
		return err
	})
	if !ok {
		return false
	}

	s.refreshStatus(ctx, true)
	s.RefreshBranches(ctx)
	return true
}

// CreateBranch creates and checks out a branch.
func (s *GitStore) CreateBranch(ctx context.Context, name, baseBranch string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	ok := s.failable("create-branch", func() error {
		return s.client.CreateBranch(ctx, name, baseBranch)
	})
	if ok {
		s.RefreshBranches(ctx)
	}
	return ok
}

// RenameBranch renames a local branch.
func (s *GitStore) RenameBranch(ctx context.Context, oldName, newName string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	ok := s.failable("rename-branch", func() error {
		return s.client.RenameBranch(ctx, oldName, newName)
	})
	if ok {
		s.RefreshBranches(ctx)
	}
	return ok
}

// DeleteBranch deletes a local branch, checking out the default branch
// first when the target is currently checked out.
func (s *GitStore) DeleteBranch(ctx context.Context, name string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defaultBranch := s.state.DefaultBranch
	s.mu.Unlock()

	ok := s.failable("delete-branch", func() error {
		return s.client.DeleteBranch(ctx, name, defaultBranch)
	})
	if ok {
		s.RefreshBranches(ctx)
		s.RefreshStatus(ctx)
	}
	return ok
}

// Checkout switches to another branch and refreshes everything a
// checkout can change.
func (s *GitStore) Checkout(ctx context.Context, name string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	ok := s.failable("checkout", func() error {
		return s.client.Checkout(ctx, name)
	})
	if ok {
		s.RefreshBranches(ctx)
		s.RefreshStatus(ctx)
	}
	return ok
}

// Push publishes the current branch, setting the upstream when it has
// none yet.
func (s *GitStore) Push(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	current := s.state.CurrentBranch
	setUpstream := true
	for _, b := range s.state.Branches {
		if b.Kind == domain.BranchLocal && b.Name == current && b.HasUpstream() {
			setUpstream = false
		}
	}
	s.mu.Unlock()

	if current == "" {
		s.postErr(escerrors.ErrDetachedHead)
		return false
	}

	s.setRemotePending(true)
	ok := s.failable("push", func() error {
		return s.client.Push(ctx, s.remote, current, setUpstream)
	})
	s.setRemotePending(false)

	if ok {
		s.RefreshBranches(ctx)
	}
	return ok
}

// Pull integrates the current branch's upstream, then refreshes
// status and history.
func (s *GitStore) Pull(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	current := s.state.CurrentBranch
	s.mu.Unlock()

	s.setRemotePending(true)
	ok := s.failable("pull", func() error {
		return s.client.Pull(ctx, s.remote, current)
	})
	s.setRemotePending(false)

	if ok {
		s.RefreshStatus(ctx)
		s.RefreshBranches(ctx)
	}
	return ok
}

// Fetch downloads from the remote without integrating and stamps the
// last-fetch time.
func (s *GitStore) Fetch(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setRemotePending(true)
	ok := s.failable("fetch", func() error {
		return s.client.Fetch(ctx, s.remote)
	})
	s.setRemotePending(false)

	if ok {
		s.mu.Lock()
		s.state.LastFetched = s.clk.Now()
		s.mu.Unlock()
		s.RefreshBranches(ctx)
	}
	return ok
}

func (s *GitStore) setRemotePending(pending bool) {
	s.mu.Lock()
	s.state.RemotePending = pending
	s.mu.Unlock()
	s.notify()
}

// StartBackgroundFetch begins periodic fetching on the given interval.
// Starting an already-running timer is a no-op.
func (s *GitStore) StartBackgroundFetch(ctx context.Context, interval time.Duration) {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()
	if s.fetchStop != nil || interval <= 0 {
		return
	}

	stop := make(chan struct{})
	s.fetchStop = stop
	ticker := s.clk.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				s.Fetch(ctx)
			}
		}
	}()
}

// StopBackgroundFetch cancels the periodic fetch timer. Must be called
// when the repository is deselected or closed.
func (s *GitStore) StopBackgroundFetch() {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()
	if s.fetchStop != nil {
		close(s.fetchStop)
		s.fetchStop = nil
	}
}
