package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curillo/escritorio/internal/clock"
	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
	"github.com/curillo/escritorio/internal/git"
	"github.com/curillo/escritorio/internal/settings"
)

// AppError is one entry in the user-visible error queue.
type AppError struct {
	ID   uuid.UUID
	Time time.Time
	Err  error
}

// AppState is the immutable aggregate snapshot the UI renders.
type AppState struct {
	// Repositories lists open repositories in the order they were added.
	Repositories []domain.Repository
	// SelectedRepository is nil when no repository is selected.
	SelectedRepository *domain.Repository
	// RepositoryState is the selected repository's state, nil without a
	// selection.
	RepositoryState *State
	// Errors is the pending error queue, oldest first.
	Errors []AppError
}

// AppStore aggregates one GitStore per open repository and funnels every
// state transition through a single update-then-notify cycle. Action
// methods never propagate failures to the caller; they land on the error
// queue and report false.
type AppStore struct {
	logger        zerolog.Logger
	clk           clock.Clock
	settings      settings.Store
	fetchInterval time.Duration
	remote        string
	historyLimit  int
	gitBinary     string

	// openClient builds the facade for a repository path; tests swap it.
	openClient func(ctx context.Context, path string) (gitService, error)

	emitter *emitter

	mu       sync.Mutex
	stores   map[string]*GitStore
	order    []string
	selected string
	errors   []AppError
}

// AppStoreOption customizes an AppStore.
type AppStoreOption func(*AppStore)

// WithAppLogger sets the store's logger.
func WithAppLogger(logger zerolog.Logger) AppStoreOption {
	return func(a *AppStore) { a.logger = logger }
}

// WithAppClock sets the clock used for error timestamps and fetch timers.
func WithAppClock(clk clock.Clock) AppStoreOption {
	return func(a *AppStore) { a.clk = clk }
}

// WithFetchInterval sets the background fetch interval for the selected
// repository. Zero disables background fetching.
func WithFetchInterval(d time.Duration) AppStoreOption {
	return func(a *AppStore) { a.fetchInterval = d }
}

// WithAppRemote sets the remote name used for push, pull, and fetch.
func WithAppRemote(name string) AppStoreOption {
	return func(a *AppStore) { a.remote = name }
}

// WithAppHistoryLimit caps commits loaded per history refresh.
func WithAppHistoryLimit(n int) AppStoreOption {
	return func(a *AppStore) { a.historyLimit = n }
}

// WithAppGitBinary sets the git executable used by opened repositories.
func WithAppGitBinary(binary string) AppStoreOption {
	return func(a *AppStore) { a.gitBinary = binary }
}

// withOpenClient replaces the facade constructor, for tests.
func withOpenClient(fn func(ctx context.Context, path string) (gitService, error)) AppStoreOption {
	return func(a *AppStore) { a.openClient = fn }
}

// NewAppStore creates the process-wide application store. It is
// constructed once at startup and passed explicitly to consumers.
func NewAppStore(settingsStore settings.Store, opts ...AppStoreOption) *AppStore {
	a := &AppStore{
		logger:   zerolog.Nop(),
		clk:      clock.RealClock{},
		settings: settingsStore,
		emitter:  newEmitter(),
		stores:   make(map[string]*GitStore),
	}
	a.openClient = func(ctx context.Context, path string) (gitService, error) {
		return git.NewClient(ctx, path,
			git.WithLogger(a.logger),
			git.WithBinary(a.gitBinary))
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Subscribe registers an update listener. The channel receives at most
// one pending signal at a time; read it, then call Snapshot.
func (a *AppStore) Subscribe() (string, <-chan struct{}) {
	return a.emitter.subscribe()
}

// Unsubscribe removes a listener.
func (a *AppStore) Unsubscribe(token string) {
	a.emitter.unsubscribe(token)
}

// Snapshot returns the current aggregate state.
func (a *AppStore) Snapshot() AppState {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := AppState{
		Repositories: make([]domain.Repository, 0, len(a.order)),
		Errors:       a.errors,
	}
	for _, path := range a.order {
		state.Repositories = append(state.Repositories, a.stores[path].repo)
	}
	if s, ok := a.stores[a.selected]; ok {
		repo := s.repo
		repoState := s.Snapshot()
		state.SelectedRepository = &repo
		state.RepositoryState = &repoState
	}
	return state
}

// PostError appends an error to the user-visible queue.
func (a *AppStore) PostError(err error) {
	if err == nil {
		return
	}
	a.mu.Lock()
	a.errors = append(append([]AppError{}, a.errors...), AppError{
		ID:   uuid.New(),
		Time: a.clk.Now(),
		Err:  err,
	})
	a.mu.Unlock()
	a.emitter.notify()
}

// DismissError removes one error from the queue by ID.
func (a *AppStore) DismissError(id uuid.UUID) {
	a.mu.Lock()
	remaining := make([]AppError, 0, len(a.errors))
	for _, e := range a.errors {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	a.errors = remaining
	a.mu.Unlock()
	a.emitter.notify()
}

// AddRepository opens a repository and creates its store. Adding an
// already-open repository is a no-op reporting success.
func (a *AppStore) AddRepository(ctx context.Context, path string) bool {
	a.mu.Lock()
	if _, ok := a.stores[path]; ok {
		a.mu.Unlock()
		return true
	}
	a.mu.Unlock()

	client, err := a.openClient(ctx, path)
	if err != nil {
		a.PostError(fmt.Errorf("failed to open repository %s: %w", path, err))
		return false
	}

	repo := domain.Repository{Path: path}
	storeOpts := []GitStoreOption{
		WithLogger(a.logger),
		WithClock(a.clk),
		WithNotify(a.emitter.notify),
		WithErrorSink(a.PostError),
	}
	if a.remote != "" {
		storeOpts = append(storeOpts, WithRemote(a.remote))
	}
	if a.historyLimit > 0 {
		storeOpts = append(storeOpts, WithHistoryLimit(a.historyLimit))
	}
	s := NewGitStore(repo, client, storeOpts...)

	a.mu.Lock()
	a.stores[path] = s
	a.order = append(a.order, path)
	a.mu.Unlock()
	a.emitter.notify()
	return true
}

// SelectRepository makes a repository current, persists the choice, and
// starts its background fetch. The previous selection's fetch timer is
// stopped first so it cannot operate on a defunct context.
func (a *AppStore) SelectRepository(ctx context.Context, path string) bool {
	a.mu.Lock()
	next, ok := a.stores[path]
	if !ok {
		a.mu.Unlock()
		a.PostError(fmt.Errorf("repository %s: %w", path, escerrors.ErrRepositoryNotFound))
		return false
	}
	previous := a.stores[a.selected]
	a.selected = path
	a.mu.Unlock()

	if previous != nil && previous != next {
		previous.StopBackgroundFetch()
	}

	if err := a.settings.Set(settings.KeyLastRepository, path); err != nil {
		a.logger.Warn().Err(err).Msg("failed to persist last repository")
	}

	a.emitter.notify()

	next.RefreshStatus(ctx)
	next.RefreshBranches(ctx)
	next.StartBackgroundFetch(ctx, a.fetchInterval)
	return true
}

// RestoreLastRepository reopens and selects the repository remembered
// from the previous session, if any.
func (a *AppStore) RestoreLastRepository(ctx context.Context) bool {
	path, ok := a.settings.Get(settings.KeyLastRepository)
	if !ok || path == "" {
		return false
	}
	if !a.AddRepository(ctx, path) {
		return false
	}
	return a.SelectRepository(ctx, path)
}

// CloseRepository removes a repository and stops its background work.
func (a *AppStore) CloseRepository(path string) {
	a.mu.Lock()
	s, ok := a.stores[path]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.stores, path)
	order := make([]string, 0, len(a.order))
	for _, p := range a.order {
		if p != path {
			order = append(order, p)
		}
	}
	a.order = order
	if a.selected == path {
		a.selected = ""
	}
	a.mu.Unlock()

	s.StopBackgroundFetch()
	a.emitter.notify()
}

// selectedStore resolves the current repository's store, posting a
// precondition error when there is none.
func (a *AppStore) selectedStore() (*GitStore, bool) {
	a.mu.Lock()
	s, ok := a.stores[a.selected]
	a.mu.Unlock()
	if !ok {
		a.PostError(escerrors.ErrRepositoryNotFound)
		return nil, false
	}
	return s, true
}

// RefreshStatus reloads the selected repository's working directory.
func (a *AppStore) RefreshStatus(ctx context.Context) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.RefreshStatus(ctx)
}

// RefreshBranches reloads the selected repository's branches and history.
func (a *AppStore) RefreshBranches(ctx context.Context) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.RefreshBranches(ctx)
}

// SelectFile changes the selected file in the current repository.
func (a *AppStore) SelectFile(ctx context.Context, fileID string) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.SelectFile(ctx, fileID)
}

// SetFileSelection replaces one file's line selection.
func (a *AppStore) SetFileSelection(fileID string, selection domain.DiffSelection) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.SetFileSelection(fileID, selection)
}

// Commit commits the current selection with the given message.
func (a *AppStore) Commit(ctx context.Context, message string) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.Commit(ctx, message)
}

// CreateBranch creates and checks out a branch in the current repository.
func (a *AppStore) CreateBranch(ctx context.Context, name, baseBranch string) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.CreateBranch(ctx, name, baseBranch)
}

// RenameBranch renames a branch in the current repository.
func (a *AppStore) RenameBranch(ctx context.Context, oldName, newName string) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.RenameBranch(ctx, oldName, newName)
}

// DeleteBranch deletes a branch in the current repository.
func (a *AppStore) DeleteBranch(ctx context.Context, name string) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.DeleteBranch(ctx, name)
}

// Checkout switches branches in the current repository.
func (a *AppStore) Checkout(ctx context.Context, name string) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.Checkout(ctx, name)
}

// Push publishes the current branch of the current repository.
func (a *AppStore) Push(ctx context.Context) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.Push(ctx)
}

// Pull integrates upstream changes for the current repository.
func (a *AppStore) Pull(ctx context.Context) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.Pull(ctx)
}

// Fetch updates remote refs for the current repository.
func (a *AppStore) Fetch(ctx context.Context) bool {
	s, ok := a.selectedStore()
	if !ok {
		return false
	}
	return s.Fetch(ctx)
}

// CommitDetail returns commit detail from the current repository.
func (a *AppStore) CommitDetail(ctx context.Context, sha string) (domain.Commit, bool) {
	s, ok := a.selectedStore()
	if !ok {
		return domain.Commit{}, false
	}
	return s.CommitDetail(ctx, sha)
}

// Shutdown stops all background work. Call once when the process exits.
func (a *AppStore) Shutdown() {
	a.mu.Lock()
	stores := make([]*GitStore, 0, len(a.stores))
	for _, s := range a.stores {
		stores = append(stores, s)
	}
	a.mu.Unlock()

	for _, s := range stores {
		s.StopBackgroundFetch()
	}
}
