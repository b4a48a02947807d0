package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/folio/internal/catalog"
)

// Fallback banner messages used when a failure carries no text of its own.
const (
	msgLoadAuthors  = "Failed to load authors"
	msgLoadAuthor   = "Failed to load author details"
	msgLoadBook     = "Failed to load book details"
	msgSaveAuthor   = "Failed to save author"
	msgDeleteAuthor = "Failed to delete author"
	msgSaveBook     = "Failed to save book"
	msgDeleteBook   = "Failed to delete book"
)

// slot identifies a piece of state that is filled by a fetch.
type slot int

const (
	slotAuthors slot = iota
	slotAuthorDetail
	slotBookDetail
	slotGenres
	slotPublishers
	slotCount
)

// Store owns the catalog state shown by the UI and runs the API calls that
// keep it current. Methods that talk to the API block; call them off the UI
// goroutine. The lock is never held across a network call.
type Store struct {
	api    catalog.API
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	gens     [slotCount]uint64
}

// NewStore builds a Store backed by api.
func NewStore(api catalog.API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.clone()
}

// LoadAuthors fetches the author list, raising the loading flag meanwhile.
func (s *Store) LoadAuthors(ctx context.Context) error {
	s.mu.Lock()
	token := s.beginLocked(slotAuthors)
	s.snapshot.Loading = true
	s.mu.Unlock()

	authors, err := s.api.ListAuthors(ctx, catalog.ListParams{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(slotAuthors, token) {
		s.logger.Debug("discarding stale author list")
		return nil
	}
	s.snapshot.Loading = false
	if err != nil {
		s.failLocked(err, msgLoadAuthors)
		return err
	}
	s.snapshot.Authors = authors
	s.succeedLocked()
	return nil
}

// LoadGenres fetches the genre reference list. Failures are logged only and
// leave the list as it was.
func (s *Store) LoadGenres(ctx context.Context) error {
	s.mu.Lock()
	token := s.beginLocked(slotGenres)
	s.mu.Unlock()

	genres, err := s.api.ListGenres(ctx)
	if err != nil {
		s.logger.Error("failed to load genres", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentLocked(slotGenres, token) {
		s.snapshot.Genres = genres
	}
	return nil
}

// LoadPublishers fetches the publisher reference list. Failures are logged
// only and leave the list as it was.
func (s *Store) LoadPublishers(ctx context.Context) error {
	s.mu.Lock()
	token := s.beginLocked(slotPublishers)
	s.mu.Unlock()

	publishers, err := s.api.ListPublishers(ctx)
	if err != nil {
		s.logger.Error("failed to load publishers", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentLocked(slotPublishers, token) {
		s.snapshot.Publishers = publishers
	}
	return nil
}

// SelectAuthor records id as the selected author. It reports whether the
// selection changed, in which case the caller should LoadAuthorDetail.
func (s *Store) SelectAuthor(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= 0 || id == s.snapshot.SelectedAuthorID {
		return false
	}
	s.snapshot.SelectedAuthorID = id
	return true
}

// LoadAuthorDetail fetches the detail of author id. A successful load
// collapses any selected book. Results for an author that is no longer
// selected, or for a request superseded by a newer one, are dropped.
func (s *Store) LoadAuthorDetail(ctx context.Context, id int64) error {
	return s.loadAuthorDetail(ctx, id, false)
}

// refreshAuthorDetail re-fetches the detail of author id without closing an
// open book, unless the book is gone from the author's list.
func (s *Store) refreshAuthorDetail(ctx context.Context, id int64) error {
	return s.loadAuthorDetail(ctx, id, true)
}

func (s *Store) loadAuthorDetail(ctx context.Context, id int64, keepBook bool) error {
	if id <= 0 {
		return nil
	}
	s.mu.Lock()
	token := s.beginLocked(slotAuthorDetail)
	s.mu.Unlock()

	detail, err := s.api.GetAuthor(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(slotAuthorDetail, token) || s.snapshot.SelectedAuthorID != id {
		s.logger.Debug("discarding stale author detail", "author_id", id)
		return nil
	}
	if err != nil {
		s.failLocked(err, msgLoadAuthor)
		return err
	}
	s.snapshot.Author = detail
	if !keepBook || !hasBook(detail.Books, s.snapshot.SelectedBookID) {
		s.clearBookLocked()
	}
	s.succeedLocked()
	return nil
}

// SelectBook records id as the selected book. It reports whether the
// selection changed, in which case the caller should LoadBookDetail.
func (s *Store) SelectBook(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= 0 || id == s.snapshot.SelectedBookID {
		return false
	}
	s.snapshot.SelectedBookID = id
	return true
}

// CloseBook deselects the current book and drops any in-flight book fetch.
func (s *Store) CloseBook() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearBookLocked()
}

// LoadBookDetail fetches the detail of book id.
func (s *Store) LoadBookDetail(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	s.mu.Lock()
	token := s.beginLocked(slotBookDetail)
	s.mu.Unlock()

	detail, err := s.api.GetBook(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(slotBookDetail, token) || s.snapshot.SelectedBookID != id {
		s.logger.Debug("discarding stale book detail", "book_id", id)
		return nil
	}
	if err != nil {
		s.failLocked(err, msgLoadBook)
		return err
	}
	s.snapshot.Book = detail
	s.succeedLocked()
	return nil
}

// Reload refreshes the author list and the selected author's detail. An open
// book stays open while it is still listed under the author.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.LoadAuthors(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	selected := s.snapshot.SelectedAuthorID
	s.mu.RUnlock()
	return s.refreshAuthorDetail(ctx, selected)
}

// OpenAuthorForm opens the author form in create mode.
func (s *Store) OpenAuthorForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.AuthorForm = AuthorForm{Open: true}
}

// OpenEditAuthorForm opens the author form pre-filled from the loaded author.
// It reports false when no author detail is loaded.
func (s *Store) OpenEditAuthorForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	author := s.snapshot.Author
	if author == nil {
		return false
	}
	s.snapshot.AuthorForm = AuthorForm{
		Open:   true,
		EditID: author.ID,
		Seed: &catalog.AuthorCreate{
			Name:      author.Name,
			Surname:   author.Surname,
			BirthYear: author.BirthYear,
		},
	}
	return true
}

// CloseAuthorForm discards the author form.
func (s *Store) CloseAuthorForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.AuthorForm = AuthorForm{}
}

// SaveAuthor updates the author being edited, or creates a new one and
// selects it. The author list and the selected author's detail are reloaded
// afterwards. On failure the form stays open and the banner shows the error.
func (s *Store) SaveAuthor(ctx context.Context, author catalog.AuthorCreate) error {
	s.mu.RLock()
	form := s.snapshot.AuthorForm
	s.mu.RUnlock()

	var (
		created *catalog.AuthorDetail
		err     error
	)
	if form.Editing() {
		_, err = s.api.UpdateAuthor(ctx, form.EditID, author)
	} else {
		created, err = s.api.CreateAuthor(ctx, author)
	}

	s.mu.Lock()
	if err != nil {
		s.failLocked(err, msgSaveAuthor)
		s.mu.Unlock()
		return err
	}
	if created != nil && created.ID > 0 {
		s.snapshot.SelectedAuthorID = created.ID
	}
	selected := s.snapshot.SelectedAuthorID
	s.snapshot.AuthorForm = AuthorForm{}
	s.succeedLocked()
	s.mu.Unlock()

	s.logger.Info("author saved", "author_id", selected, "created", created != nil)

	_ = s.LoadAuthors(ctx)
	_ = s.LoadAuthorDetail(ctx, selected)
	return nil
}

// DeleteAuthor deletes the loaded author, clears the author and book
// selection and reloads the author list.
func (s *Store) DeleteAuthor(ctx context.Context) error {
	s.mu.RLock()
	author := s.snapshot.Author
	s.mu.RUnlock()
	if author == nil {
		return errors.New("no author selected")
	}

	if err := s.api.DeleteAuthor(ctx, author.ID); err != nil {
		s.mu.Lock()
		s.failLocked(err, msgDeleteAuthor)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.snapshot.Authors = removeAuthor(s.snapshot.Authors, author.ID)
	if s.snapshot.SelectedAuthorID == author.ID {
		s.snapshot.SelectedAuthorID = 0
		s.snapshot.Author = nil
		s.beginLocked(slotAuthorDetail)
		s.clearBookLocked()
	}
	s.succeedLocked()
	s.mu.Unlock()

	s.logger.Info("author deleted", "author_id", author.ID)

	_ = s.LoadAuthors(ctx)
	return nil
}

// OpenBookForm opens the book form in create mode. It reports false when no
// author is selected, since new books default to the selected author.
func (s *Store) OpenBookForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.SelectedAuthorID == 0 {
		return false
	}
	s.snapshot.BookForm = BookForm{Open: true}
	return true
}

// OpenEditBookForm opens the book form pre-filled from the loaded book,
// including all of its author ids. It requires a selected author and book.
func (s *Store) OpenEditBookForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	book := s.snapshot.Book
	if book == nil || s.snapshot.SelectedAuthorID == 0 {
		return false
	}
	s.snapshot.BookForm = BookForm{
		Open:   true,
		EditID: book.ID,
		Seed: &catalog.BookCreate{
			BookBase:  book.BookBase,
			AuthorIDs: book.AuthorIDs(),
		},
	}
	return true
}

// CloseBookForm discards the book form.
func (s *Store) CloseBookForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.BookForm = BookForm{}
}

// SaveBook creates or updates a book, then reloads the selected author's
// detail and clears the selected book so it is picked again from the
// refreshed list.
func (s *Store) SaveBook(ctx context.Context, book catalog.BookCreate) error {
	s.mu.RLock()
	form := s.snapshot.BookForm
	s.mu.RUnlock()

	var err error
	if form.Editing() {
		_, err = s.api.UpdateBook(ctx, form.EditID, book)
	} else {
		_, err = s.api.CreateBook(ctx, book)
	}

	s.mu.Lock()
	if err != nil {
		s.failLocked(err, msgSaveBook)
		s.mu.Unlock()
		return err
	}
	s.snapshot.BookForm = BookForm{}
	s.clearBookLocked()
	selected := s.snapshot.SelectedAuthorID
	s.succeedLocked()
	s.mu.Unlock()

	s.logger.Info("book saved", "book_id", form.EditID, "created", !form.Editing())

	_ = s.LoadAuthorDetail(ctx, selected)
	return nil
}

// DeleteBook deletes the loaded book, clears the book selection and reloads
// the selected author's detail.
func (s *Store) DeleteBook(ctx context.Context) error {
	s.mu.RLock()
	book := s.snapshot.Book
	s.mu.RUnlock()
	if book == nil {
		return errors.New("no book selected")
	}

	if err := s.api.DeleteBook(ctx, book.ID); err != nil {
		s.mu.Lock()
		s.failLocked(err, msgDeleteBook)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.snapshot.SelectedBookID == book.ID {
		s.clearBookLocked()
	}
	selected := s.snapshot.SelectedAuthorID
	s.succeedLocked()
	s.mu.Unlock()

	s.logger.Info("book deleted", "book_id", book.ID)

	_ = s.LoadAuthorDetail(ctx, selected)
	return nil
}

// beginLocked starts a new generation for sl and returns its token. Any
// fetch holding an older token loses the right to write the slot.
func (s *Store) beginLocked(sl slot) uint64 {
	s.gens[sl]++
	return s.gens[sl]
}

func (s *Store) currentLocked(sl slot, token uint64) bool {
	return s.gens[sl] == token
}

func (s *Store) clearBookLocked() {
	s.snapshot.SelectedBookID = 0
	s.snapshot.Book = nil
	s.beginLocked(slotBookDetail)
}

func (s *Store) succeedLocked() {
	s.snapshot.Error = ""
	s.snapshot.LastUpdated = s.now()
	s.snapshot.ConsecutiveFailures = 0
}

func (s *Store) failLocked(err error, fallback string) {
	s.snapshot.Error = errorMessage(err, fallback)
	s.snapshot.LastUpdated = s.now()
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		s.snapshot.ConsecutiveFailures = 0
	} else {
		s.snapshot.ConsecutiveFailures++
	}
	s.logger.Warn(strings.ToLower(fallback), "error", err)
}

// errorMessage returns the text shown in the banner for err.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func hasBook(books []catalog.BookSummary, id int64) bool {
	if id <= 0 {
		return false
	}
	for _, b := range books {
		if b.ID == id {
			return true
		}
	}
	return false
}

func removeAuthor(authors []catalog.Author, id int64) []catalog.Author {
	out := make([]catalog.Author, 0, len(authors))
	for _, a := range authors {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
