package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/curillo/escritorio/internal/domain"
	"github.com/curillo/escritorio/internal/store"
)

// pane identifies which half of the main view has keyboard focus.
type pane int

const (
	paneFiles pane = iota
	paneDiff
)

// mode identifies the interaction mode of the interface.
type mode int

const (
	modeNormal mode = iota
	modeCommit
	modeBranches
	modeBranchCreate
)

// storeUpdatedMsg signals that the application store emitted an update
// notification and the snapshot should be re-read.
type storeUpdatedMsg struct{}

// Model is the Bubble Tea model for the escritorio interface.
// It implements tea.Model (Init, Update, View).
type Model struct {
	app     *store.AppStore
	token   string
	updates <-chan struct{}

	state store.AppState

	focus pane
	mode  mode

	fileCursor   int
	diffCursor   int
	branchCursor int

	viewport    viewport.Model
	commitInput textinput.Model
	branchInput textinput.Model

	width, height int
	quitting      bool

	// baseCtx is stored for use in async Bubble Tea commands. Storing a
	// context in a struct is generally discouraged, but Bubble Tea's
	// command model requires it for proper propagation.
	baseCtx context.Context //nolint:containedctx // Required for Bubble Tea async commands
}

// New creates the interface model bound to an application store. The
// model subscribes to the store; Close releases the subscription.
func New(ctx context.Context, app *store.AppStore) *Model {
	token, updates := app.Subscribe()

	commitInput := textinput.New()
	commitInput.Placeholder = "commit message"
	commitInput.CharLimit = 200

	branchInput := textinput.New()
	branchInput.Placeholder = "branch name"
	branchInput.CharLimit = 100

	return &Model{
		app:         app,
		token:       token,
		updates:     updates,
		state:       app.Snapshot(),
		viewport:    viewport.New(80, 24),
		commitInput: commitInput,
		branchInput: branchInput,
		width:       80,
		height:      24,
		baseCtx:     ctx,
	}
}

// Close releases the store subscription.
func (m *Model) Close() {
	m.app.Unsubscribe(m.token)
}

// Init starts listening for store updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate blocks on the subscription channel and converts the
// wakeup into a message. It is re-issued after every receipt.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return storeUpdatedMsg{}
	}
}

// action wraps a store call into a command. Results surface through the
// store's snapshot and error queue, not through the returned message.
func (m *Model) action(fn func(ctx context.Context) bool) tea.Cmd {
	ctx := m.baseCtx
	return func() tea.Msg {
		fn(ctx)
		return nil
	}
}

// Update handles messages and returns the updated model and commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.diffPaneWidth()
		m.viewport.Height = m.paneHeight()
		m.refreshDiffContent()
		return m, nil

	case storeUpdatedMsg:
		m.state = m.app.Snapshot()
		m.syncCursors()
		m.refreshDiffContent()
		return m, m.waitForUpdate()

	case tea.KeyMsg:
		switch m.mode {
		case modeCommit:
			return m.updateCommit(msg)
		case modeBranches:
			return m.updateBranches(msg)
		case modeBranchCreate:
			return m.updateBranchCreate(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

// updateNormal handles keys in the main two-pane view.
func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case "tab":
		if m.focus == paneFiles {
			m.focus = paneDiff
		} else {
			m.focus = paneFiles
		}
		return m, nil

	case "j", "down":
		return m.moveCursor(1)

	case "k", "up":
		return m.moveCursor(-1)

	case "J":
		return m.jumpSelectable(1)

	case "K":
		return m.jumpSelectable(-1)

	case " ":
		return m.toggleSelection()

	case "c":
		m.mode = modeCommit
		m.commitInput.SetValue("")
		return m, m.commitInput.Focus()

	case "b":
		m.mode = modeBranches
		m.branchCursor = 0
		return m, nil

	case "r":
		return m, m.action(m.app.RefreshStatus)

	case "f":
		return m, m.action(m.app.Fetch)

	case "p":
		return m, m.action(m.app.Push)

	case "u":
		return m, m.action(m.app.Pull)

	case "x":
		if len(m.state.Errors) > 0 {
			m.app.DismissError(m.state.Errors[0].ID)
		}
		return m, nil
	}
	return m, nil
}

// moveCursor moves the cursor of the focused pane by delta.
func (m *Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	repo := m.state.RepositoryState
	if repo == nil {
		return m, nil
	}

	if m.focus == paneFiles {
		next := clampCursor(m.fileCursor+delta, len(repo.Status.Files))
		if next == m.fileCursor {
			return m, nil
		}
		m.fileCursor = next
		id := repo.Status.Files[next].ID()
		return m, m.action(func(ctx context.Context) bool {
			return m.app.SelectFile(ctx, id)
		})
	}

	lines := m.diffLines()
	m.diffCursor = clampCursor(m.diffCursor+delta, len(lines))
	m.scrollToCursor()
	m.refreshDiffContent()
	return m, nil
}

// jumpSelectable moves the diff cursor to the nearest selectable line in
// the given direction.
func (m *Model) jumpSelectable(dir int) (tea.Model, tea.Cmd) {
	lines := m.diffLines()
	if len(lines) == 0 {
		return m, nil
	}
	m.focus = paneDiff
	m.diffCursor = nextSelectable(lines, m.diffCursor, dir)
	m.scrollToCursor()
	m.refreshDiffContent()
	return m, nil
}

// toggleSelection toggles the focused item's inclusion: the whole file
// in the files pane, one line in the diff pane.
func (m *Model) toggleSelection() (tea.Model, tea.Cmd) {
	repo := m.state.RepositoryState
	if repo == nil || len(repo.Status.Files) == 0 {
		return m, nil
	}

	file := repo.Status.Files[clampCursor(m.fileCursor, len(repo.Status.Files))]

	if m.focus == paneFiles {
		next := domain.SelectAll()
		if file.Selection.Kind() != domain.SelectionNone {
			next = domain.SelectNone()
		}
		m.app.SetFileSelection(file.ID(), next)
		return m, nil
	}

	if !repo.HasDiff || repo.Diff.Kind != domain.DiffText {
		return m, nil
	}
	lines := repo.Diff.Lines()
	if m.diffCursor >= len(lines) || !lines[m.diffCursor].Selectable() {
		return m, nil
	}

	included := file.Selection.IsSelected(m.diffCursor)
	next := file.Selection.WithLineSelection(
		m.diffCursor, !included, repo.Diff.SelectableIndices())
	m.app.SetFileSelection(file.ID(), next)
	return m, nil
}

// updateCommit handles keys while the commit message prompt is open.
func (m *Model) updateCommit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.commitInput.Blur()
		return m, nil
	case "enter":
		message := strings.TrimSpace(m.commitInput.Value())
		m.mode = modeNormal
		m.commitInput.Blur()
		if message == "" {
			return m, nil
		}
		return m, m.action(func(ctx context.Context) bool {
			return m.app.Commit(ctx, message)
		})
	}

	var cmd tea.Cmd
	m.commitInput, cmd = m.commitInput.Update(msg)
	return m, cmd
}

// updateBranches handles keys in the branch picker.
func (m *Model) updateBranches(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	locals := m.localBranches()

	switch msg.String() {
	case "esc", "b":
		m.mode = modeNormal
		return m, nil
	case "j", "down":
		m.branchCursor = clampCursor(m.branchCursor+1, len(locals))
		return m, nil
	case "k", "up":
		m.branchCursor = clampCursor(m.branchCursor-1, len(locals))
		return m, nil
	case "n":
		m.mode = modeBranchCreate
		m.branchInput.SetValue("")
		return m, m.branchInput.Focus()
	case "enter":
		if len(locals) == 0 {
			return m, nil
		}
		name := locals[clampCursor(m.branchCursor, len(locals))].Name
		m.mode = modeNormal
		return m, m.action(func(ctx context.Context) bool {
			return m.app.Checkout(ctx, name)
		})
	}
	return m, nil
}

// updateBranchCreate handles keys while the new-branch prompt is open.
func (m *Model) updateBranchCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBranches
		m.branchInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.branchInput.Value())
		m.mode = modeNormal
		m.branchInput.Blur()
		if name == "" {
			return m, nil
		}
		base := ""
		if repo := m.state.RepositoryState; repo != nil {
			base = repo.CurrentBranch
		}
		return m, m.action(func(ctx context.Context) bool {
			return m.app.CreateBranch(ctx, name, base)
		})
	}

	var cmd tea.Cmd
	m.branchInput, cmd = m.branchInput.Update(msg)
	return m, cmd
}

// syncCursors clamps cursors after a snapshot change and follows the
// store's selected file.
func (m *Model) syncCursors() {
	repo := m.state.RepositoryState
	if repo == nil {
		m.fileCursor, m.diffCursor = 0, 0
		return
	}

	for i, f := range repo.Status.Files {
		if f.ID() == repo.SelectedFileID {
			m.fileCursor = i
			break
		}
	}
	m.fileCursor = clampCursor(m.fileCursor, len(repo.Status.Files))
	m.diffCursor = clampCursor(m.diffCursor, len(m.diffLines()))
}

// diffLines returns the flattened lines of the loaded diff, nil when no
// text diff is loaded.
func (m *Model) diffLines() []domain.DiffLine {
	repo := m.state.RepositoryState
	if repo == nil || !repo.HasDiff || repo.Diff.Kind != domain.DiffText {
		return nil
	}
	return repo.Diff.Lines()
}

// localBranches filters the snapshot's branches down to local ones.
func (m *Model) localBranches() []domain.Branch {
	repo := m.state.RepositoryState
	if repo == nil {
		return nil
	}
	var out []domain.Branch
	for _, b := range repo.Branches {
		if b.Kind == domain.BranchLocal {
			out = append(out, b)
		}
	}
	return out
}

// refreshDiffContent re-renders the diff pane into the viewport.
func (m *Model) refreshDiffContent() {
	repo := m.state.RepositoryState
	if repo == nil || !repo.HasDiff {
		m.viewport.SetContent(footerStyle.Render("no diff loaded"))
		return
	}

	var sel domain.DiffSelection
	if f, ok := repo.Status.FindByID(repo.SelectedFileID); ok {
		sel = f.Selection
	}

	lines := renderDiff(repo.Diff, sel, m.diffCursor,
		m.diffPaneWidth(), m.focus == paneDiff)
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// scrollToCursor keeps the diff cursor visible in the viewport.
func (m *Model) scrollToCursor() {
	if m.diffCursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.diffCursor)
	} else if m.diffCursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.diffCursor - m.viewport.Height + 1)
	}
}

// Pane geometry. The files pane takes a third of the width, the diff
// pane the rest; borders cost two cells each way.
func (m *Model) filePaneWidth() int {
	w := m.width/3 - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) diffPaneWidth() int {
	w := m.width - m.filePaneWidth() - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) paneHeight() int {
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

// View renders the interface.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeCommit:
		return m.viewPrompt("Commit", m.commitInput.View())
	case modeBranchCreate:
		return m.viewPrompt("New branch", m.branchInput.View())
	case modeBranches:
		return m.viewBranches()
	}
	return m.viewMain()
}

// viewMain renders the two-pane layout with header and footer.
func (m *Model) viewMain() string {
	repo := m.state.RepositoryState
	if repo == nil {
		return headerStyle.Render("escritorio") + "\n\n" +
			footerStyle.Render("no repository open")
	}

	files := paneStyle(m.focus == paneFiles).
		Width(m.filePaneWidth()).
		Height(m.paneHeight()).
		Render(renderFileList(repo.Status, m.fileCursor,
			m.filePaneWidth(), m.paneHeight(), m.focus == paneFiles))

	diff := paneStyle(m.focus == paneDiff).
		Width(m.diffPaneWidth()).
		Height(m.paneHeight()).
		Render(m.viewport.View())

	return m.viewHeader() + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, files, diff) + "\n" +
		m.viewFooter()
}

// viewHeader renders the repository name, branch, and remote position.
func (m *Model) viewHeader() string {
	repo := m.state.RepositoryState

	parts := []string{headerStyle.Render(m.state.SelectedRepository.Path)}
	if repo.CurrentBranch != "" {
		parts = append(parts, repo.CurrentBranch)
	} else {
		parts = append(parts, "detached HEAD")
	}
	if repo.AheadBehind != nil {
		parts = append(parts, fmt.Sprintf("↑%d ↓%d",
			repo.AheadBehind.Ahead, repo.AheadBehind.Behind))
	}
	if repo.RemotePending {
		parts = append(parts, pendingStyle.Render("syncing…"))
	} else if !repo.LastFetched.IsZero() {
		parts = append(parts, footerStyle.Render(
			"fetched "+repo.LastFetched.Format("15:04")))
	}
	return strings.Join(parts, "  ")
}

// viewFooter renders key help and the oldest pending error.
func (m *Model) viewFooter() string {
	help := footerStyle.Render(
		"tab:pane  space:include  c:commit  b:branches  r:refresh  f:fetch  p:push  u:pull  q:quit")
	if len(m.state.Errors) == 0 {
		return help
	}
	e := m.state.Errors[0]
	return errorStyle.Render("error: "+e.Err.Error()+"  (x to dismiss)") + "\n" + help
}

// viewBranches renders the branch picker.
func (m *Model) viewBranches() string {
	locals := m.localBranches()
	repo := m.state.RepositoryState

	var b strings.Builder
	b.WriteString(headerStyle.Render("Branches") + "\n\n")
	for i, br := range locals {
		marker := "  "
		if repo != nil && br.Name == repo.CurrentBranch {
			marker = "* "
		}
		row := marker + br.Name
		if br.HasUpstream() {
			row += "  " + footerStyle.Render("-> "+br.Upstream)
		}
		if i == m.branchCursor {
			row = cursorRowStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	if len(locals) == 0 {
		b.WriteString(footerStyle.Render("no local branches") + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("enter:checkout  n:new  esc:back"))
	return b.String()
}

// viewPrompt renders a single-input overlay.
func (m *Model) viewPrompt(title, input string) string {
	return headerStyle.Render(title) + "\n\n" + input + "\n\n" +
		footerStyle.Render("enter:confirm  esc:cancel")
}
