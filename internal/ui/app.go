package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewLogs
)

// pane identifies which half of the catalog view receives keys.
type pane int

const (
	paneAuthors pane = iota
	paneBooks
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	Logger  *slog.Logger

	// APIBase is shown in the header.
	APIBase string
	// LogPath is tailed by the diagnostics view. Empty disables it.
	LogPath string
	// RefreshEvery reloads the catalog on a timer. Zero turns it off.
	RefreshEvery time.Duration

	// PrefsPath is where theme and selection changes are saved. Empty
	// disables saving.
	PrefsPath string
	Prefs     prefs.Prefs

	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	logger    *slog.Logger
	apiBase   string
	logPath   string
	refresh   time.Duration
	prefsPath string
	prefs     prefs.Prefs
	now       func() time.Time

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	view     View
	focus    pane
	showHelp bool
	modal    Modal

	// Catalog state
	snapshot       state.Snapshot
	authorsLoaded  bool
	restorePending bool
	authorCursor   int // 0 is the add row
	bookCursor     int // 0 is the add card
	detailViewport viewport.Model
	detailKey      detailKey

	// Diagnostics state
	logViewport   viewport.Model
	logLines      []string
	logErr        error
	logWarnOnly   bool
	logTicking    bool
	logJumpBottom bool
}

// detailKey identifies what the detail pane shows so scrolling resets when
// it changes.
type detailKey struct {
	authorID int64
	bookID   int64
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	theme := GetTheme(opts.Prefs.Theme)
	p := opts.Prefs
	p.Theme = theme.Name

	return Model{
		ctx:            ctx,
		store:          opts.Store,
		logger:         logger,
		apiBase:        opts.APIBase,
		logPath:        opts.LogPath,
		refresh:        opts.RefreshEvery,
		prefsPath:      opts.PrefsPath,
		prefs:          p,
		now:            now,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		theme:          theme,
		view:           ViewCatalog,
		snapshot:       opts.Store.Snapshot(),
		restorePending: p.LastAuthorID > 0,
		detailViewport: viewport.New(0, 0),
		logViewport:    viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadAuthorsCmd(m.ctx, m.store),
		loadGenresCmd(m.ctx, m.store),
		loadPublishersCmd(m.ctx, m.store),
	}
	if m.refresh > 0 {
		cmds = append(cmds, refreshTickCmd(m.refresh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncDetail()
		m.syncLogViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case storeMsg:
		return m.handleStoreMsg(msg)

	case saveAuthorMsg:
		return m, saveAuthorCmd(m.ctx, m.store, msg.author)

	case saveBookMsg:
		return m, saveBookCmd(m.ctx, m.store, msg.book)

	case confirmedMsg:
		switch msg.op {
		case opDeleteAuthor:
			return m, deleteAuthorCmd(m.ctx, m.store)
		case opDeleteBook:
			return m, deleteBookCmd(m.ctx, m.store)
		}
		return m, nil

	case refreshTickMsg:
		next := refreshBackoff(m.snapshot.ConsecutiveFailures, m.refresh)
		return m, tea.Batch(m.timedRefresh(), refreshTickCmd(next))

	case logTickMsg:
		if m.view != ViewLogs {
			m.logTicking = false
			return m, nil
		}
		return m, tea.Batch(readLogCmd(m.logPath), logTickCmd(LogRefreshInterval))

	case logLinesMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.syncLogViewport()
		return m, nil
	}

	// Cursor blinks and similar belong to the open form.
	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.closeModal()
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		// Save failures leave the form open; keep the banner visible above it.
		if m.snapshot.HasError() {
			return m.renderBanner() + "\n" + m.modal.View(m.theme, m.width, m.height-1)
		}
		return m.modal.View(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.snapshot.HasError() {
		b.WriteString(m.renderBanner())
		b.WriteString("\n")
	}
	if m.view == ViewLogs {
		b.WriteString(m.renderLogs())
	} else {
		b.WriteString(m.renderCatalog())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleStoreMsg picks up the state a finished coordinator call left behind.
func (m Model) handleStoreMsg(msg storeMsg) (tea.Model, tea.Cmd) {
	m.snapshot = m.store.Snapshot()
	if msg.err != nil {
		m.logger.Debug("catalog operation failed", "op", msg.op.String(), "error", msg.err)
	}

	switch m.modal.(type) {
	case authorFormModal:
		if !m.snapshot.AuthorForm.Open {
			m.modal = nil
		}
	case bookFormModal:
		if !m.snapshot.BookForm.Open {
			m.modal = nil
		}
	}
	if m.modal != nil {
		m.modal, _, _ = m.modal.Update(msg, m.keys)
	}

	var cmd tea.Cmd
	switch msg.op {
	case opLoadAuthors, opReload:
		m.authorsLoaded = true
		if m.restorePending && msg.err == nil {
			m.restorePending = false
			cmd = m.restoreSelection()
		}
	case opSaveAuthor:
		if msg.err == nil {
			m.rememberAuthor(m.snapshot.SelectedAuthorID)
			m.syncAuthorCursor()
		}
	case opDeleteAuthor:
		if msg.err == nil {
			m.rememberAuthor(m.snapshot.SelectedAuthorID)
		}
	}

	m.clampCursors()
	m.syncDetail()
	return m, cmd
}

// timedRefresh reloads the catalog unless a form or confirmation is open.
func (m Model) timedRefresh() tea.Cmd {
	if m.modal != nil {
		return nil
	}
	return reloadCmd(m.ctx, m.store)
}

// reloadAll refreshes everything on screen. The reload keeps an open book,
// which is fetched again alongside it.
func (m Model) reloadAll() tea.Cmd {
	if id := m.snapshot.SelectedBookID; id > 0 {
		return tea.Batch(reloadCmd(m.ctx, m.store), loadBookCmd(m.ctx, m.store, id))
	}
	return reloadCmd(m.ctx, m.store)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.closeModal()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.syncDetail()
		m.syncLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.view == ViewLogs {
			return m, m.readLogs()
		}
		return m, m.reloadAll()

	case key.Matches(msg, m.keys.Logs):
		if m.view == ViewLogs {
			m.view = ViewCatalog
			return m, nil
		}
		return m.openLogs()
	}

	if m.view == ViewLogs {
		return m.handleLogKey(msg)
	}

	if key.Matches(msg, m.keys.NextPane) || key.Matches(msg, m.keys.PrevPane) {
		m.toggleFocus()
		return m, nil
	}

	if m.focus == paneAuthors {
		return m.handleAuthorKey(msg)
	}
	return m.handleBookKey(msg)
}

// toggleFocus switches between the sidebar and the detail pane. There are
// only two panes, so forward and reverse land in the same place.
func (m *Model) toggleFocus() {
	if m.focus == paneAuthors {
		m.focus = paneBooks
	} else {
		m.focus = paneAuthors
	}
	m.syncDetail()
}

func (m Model) handleAuthorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.authorCursor > 0 {
			m.authorCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.authorCursor < len(m.snapshot.Authors) {
			m.authorCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.authorCursor == 0 {
			return m.openAuthorForm(false)
		}
		return m, m.selectAuthor(m.snapshot.Authors[m.authorCursor-1].ID)
	case key.Matches(msg, m.keys.Add):
		return m.openAuthorForm(false)
	case key.Matches(msg, m.keys.Edit):
		return m.openAuthorForm(true)
	case key.Matches(msg, m.keys.Delete):
		return m.confirmDeleteAuthor()
	}
	return m, nil
}

func (m Model) handleBookKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Nothing in the pane belongs to the selected author until its detail
	// has loaded.
	author := m.snapshot.Author
	if author == nil || author.ID != m.snapshot.SelectedAuthorID {
		return m, nil
	}

	if m.showingBook() {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.store.CloseBook()
			m.snapshot = m.store.Snapshot()
			m.syncDetail()
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			return m.openBookForm(true)
		case key.Matches(msg, m.keys.Delete):
			return m.confirmDeleteBook()
		}
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}

	cards := len(author.Books) + 1
	cols := m.gridColumns()
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.bookCursor > 0 {
			m.bookCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.bookCursor < cards-1 {
			m.bookCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.bookCursor-cols >= 0 {
			m.bookCursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.bookCursor+cols < cards {
			m.bookCursor += cols
		}
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Select):
		if m.bookCursor == 0 {
			return m.openBookForm(false)
		}
		return m, m.selectBook(author.Books[m.bookCursor-1].ID)
	case key.Matches(msg, m.keys.Add):
		return m.openBookForm(false)
	case key.Matches(msg, m.keys.Edit):
		return m.openAuthorForm(true)
	case key.Matches(msg, m.keys.Delete):
		return m.confirmDeleteAuthor()
	}
	m.syncDetail()
	return m, nil
}

func (m *Model) selectAuthor(id int64) tea.Cmd {
	if !m.store.SelectAuthor(id) {
		return nil
	}
	m.snapshot = m.store.Snapshot()
	m.syncAuthorCursor()
	m.bookCursor = 0
	m.rememberAuthor(id)
	m.syncDetail()
	return loadAuthorCmd(m.ctx, m.store, id)
}

func (m *Model) selectBook(id int64) tea.Cmd {
	if !m.store.SelectBook(id) {
		return nil
	}
	m.snapshot = m.store.Snapshot()
	m.syncDetail()
	return loadBookCmd(m.ctx, m.store, id)
}

// restoreSelection reselects the author from the previous session if it
// still exists.
func (m *Model) restoreSelection() tea.Cmd {
	if m.snapshot.SelectedAuthorID != 0 {
		return nil
	}
	for _, a := range m.snapshot.Authors {
		if a.ID == m.prefs.LastAuthorID {
			return m.selectAuthor(a.ID)
		}
	}
	return nil
}

func (m Model) openAuthorForm(edit bool) (tea.Model, tea.Cmd) {
	if edit {
		if !m.store.OpenEditAuthorForm() {
			return m, nil
		}
	} else {
		m.store.OpenAuthorForm()
	}
	m.snapshot = m.store.Snapshot()
	m.modal = newAuthorFormModal(m.snapshot.AuthorForm, m.now())
	return m, textinput.Blink
}

func (m Model) openBookForm(edit bool) (tea.Model, tea.Cmd) {
	var opened bool
	if edit {
		opened = m.store.OpenEditBookForm()
	} else {
		opened = m.store.OpenBookForm()
	}
	if !opened {
		return m, nil
	}
	m.snapshot = m.store.Snapshot()
	m.modal = newBookFormModal(m.snapshot.BookForm, m.snapshot)
	return m, textinput.Blink
}

func (m Model) confirmDeleteAuthor() (tea.Model, tea.Cmd) {
	prompt, ok := m.snapshot.DeleteAuthorPrompt()
	if !ok {
		return m, nil
	}
	m.modal = newConfirmModal(sanitize(prompt), opDeleteAuthor)
	return m, nil
}

func (m Model) confirmDeleteBook() (tea.Model, tea.Cmd) {
	prompt, ok := m.snapshot.DeleteBookPrompt()
	if !ok {
		return m, nil
	}
	m.modal = newConfirmModal(sanitize(prompt), opDeleteBook)
	return m, nil
}

// closeModal dismisses the open dialog and tells the store about forms that
// were cancelled.
func (m *Model) closeModal() {
	switch m.modal.(type) {
	case authorFormModal:
		m.store.CloseAuthorForm()
	case bookFormModal:
		m.store.CloseBookForm()
	}
	m.modal = nil
	m.snapshot = m.store.Snapshot()
}

func (m *Model) rememberAuthor(id int64) {
	if m.prefs.LastAuthorID == id {
		return
	}
	m.prefs.LastAuthorID = id
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

// syncAuthorCursor moves the sidebar cursor onto the selected author.
func (m *Model) syncAuthorCursor() {
	for i, a := range m.snapshot.Authors {
		if a.ID == m.snapshot.SelectedAuthorID {
			m.authorCursor = i + 1
			return
		}
	}
}

func (m *Model) clampCursors() {
	m.authorCursor = min(max(m.authorCursor, 0), len(m.snapshot.Authors))
	books := 0
	if m.snapshot.Author != nil {
		books = len(m.snapshot.Author.Books)
	}
	m.bookCursor = min(max(m.bookCursor, 0), books)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Cancelled from outside, usually by a signal.
		return nil
	}
	return err
}
