package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/catalog"
	"github.com/five82/folio/internal/logtail"
	"github.com/five82/folio/internal/state"
)

// operation names a coordinator call issued by the UI.
type operation int

const (
	opLoadAuthors operation = iota
	opLoadGenres
	opLoadPublishers
	opLoadAuthor
	opLoadBook
	opReload
	opSaveAuthor
	opDeleteAuthor
	opSaveBook
	opDeleteBook
)

func (o operation) String() string {
	switch o {
	case opLoadAuthors:
		return "load authors"
	case opLoadGenres:
		return "load genres"
	case opLoadPublishers:
		return "load publishers"
	case opLoadAuthor:
		return "load author"
	case opLoadBook:
		return "load book"
	case opReload:
		return "reload"
	case opSaveAuthor:
		return "save author"
	case opDeleteAuthor:
		return "delete author"
	case opSaveBook:
		return "save book"
	case opDeleteBook:
		return "delete book"
	default:
		return "unknown"
	}
}

// Messages

// storeMsg reports that a coordinator call returned. The model re-reads the
// snapshot on receipt; err is informational since the store already recorded
// the outcome.
type storeMsg struct {
	op  operation
	err error
}

type saveAuthorMsg struct {
	author catalog.AuthorCreate
}

type saveBookMsg struct {
	book catalog.BookCreate
}

type confirmedMsg struct {
	op operation
}

type refreshTickMsg time.Time

type logTickMsg time.Time

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

// storeCmd runs fn against the store off the update loop. The catalog client
// bounds each request with the configured timeout, so ctx only carries
// shutdown.
func storeCmd(ctx context.Context, op operation, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return storeMsg{op: op, err: fn(ctx)}
	}
}

func loadAuthorsCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return storeCmd(ctx, opLoadAuthors, store.LoadAuthors)
}

func loadGenresCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return storeCmd(ctx, opLoadGenres, store.LoadGenres)
}

func loadPublishersCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return storeCmd(ctx, opLoadPublishers, store.LoadPublishers)
}

func loadAuthorCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return storeCmd(ctx, opLoadAuthor, func(ctx context.Context) error {
		return store.LoadAuthorDetail(ctx, id)
	})
}

func loadBookCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return storeCmd(ctx, opLoadBook, func(ctx context.Context) error {
		return store.LoadBookDetail(ctx, id)
	})
}

func reloadCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return storeCmd(ctx, opReload, store.Reload)
}

func saveAuthorCmd(ctx context.Context, store *state.Store, author catalog.AuthorCreate) tea.Cmd {
	return storeCmd(ctx, opSaveAuthor, func(ctx context.Context) error {
		return store.SaveAuthor(ctx, author)
	})
}

func saveBookCmd(ctx context.Context, store *state.Store, book catalog.BookCreate) tea.Cmd {
	return storeCmd(ctx, opSaveBook, func(ctx context.Context) error {
		return store.SaveBook(ctx, book)
	})
}

func deleteAuthorCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return storeCmd(ctx, opDeleteAuthor, store.DeleteAuthor)
}

func deleteBookCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return storeCmd(ctx, opDeleteBook, store.DeleteBook)
}

// maxRefreshBackoff caps how far the timed refresh slows down while the API
// is unreachable.
const maxRefreshBackoff = 5 * time.Minute

// refreshBackoff doubles the refresh interval for each consecutive transport
// failure, capped at maxRefreshBackoff. Intervals already above the cap are
// left alone.
func refreshBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxRefreshBackoff {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxRefreshBackoff {
			return maxRefreshBackoff
		}
	}
	return d
}

func refreshTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func logTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}
