package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/folio/internal/catalog"
	"github.com/five82/folio/internal/catalog/catalogtest"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *catalogtest.Fake) {
	t.Helper()
	api := catalogtest.New()
	api.SetGenres(catalog.Genre{ID: 1, Name: "Fiction"}, catalog.Genre{ID: 2, Name: "Poetry"})
	api.SetPublishers(catalog.Publisher{ID: 1, Name: "Penguin"})
	ada := api.AddAuthor(catalog.Author{ID: 1, Name: "Ada", Surname: "Lovelace", BirthYear: 1815})
	grace := api.AddAuthor(catalog.Author{ID: 2, Name: "Grace", Surname: "Hopper", BirthYear: 1906})
	api.AddBook(catalog.BookDetail{
		ID:       10,
		BookBase: catalog.BookBase{Title: "Notes", PublisherID: 1, GenreID: 1},
		Authors:  []catalog.Author{ada},
	})
	api.AddBook(catalog.BookDetail{
		ID:       11,
		BookBase: catalog.BookBase{Title: "Compilers", Edition: "2nd", PublisherID: 1, GenreID: 2},
		Authors:  []catalog.Author{grace, ada},
	})

	s := NewStore(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return fixedNow }
	return s, api
}

// selectAuthor mirrors what the UI does on enter in the sidebar.
func selectAuthor(t *testing.T, s *Store, id int64) {
	t.Helper()
	if s.SelectAuthor(id) {
		if err := s.LoadAuthorDetail(context.Background(), id); err != nil {
			t.Fatalf("LoadAuthorDetail(%d): %v", id, err)
		}
	}
}

func selectBook(t *testing.T, s *Store, id int64) {
	t.Helper()
	if s.SelectBook(id) {
		if err := s.LoadBookDetail(context.Background(), id); err != nil {
			t.Fatalf("LoadBookDetail(%d): %v", id, err)
		}
	}
}

func TestStore_LoadAuthors(t *testing.T) {
	s, api := newTestStore(t)

	var during Snapshot
	api.Hook = func(_ context.Context, method string, _ int64) {
		if method == "ListAuthors" {
			during = s.Snapshot()
		}
	}

	if err := s.LoadAuthors(context.Background()); err != nil {
		t.Fatalf("LoadAuthors: %v", err)
	}
	if !during.Loading {
		t.Fatalf("Loading = false while the request was in flight")
	}

	snap := s.Snapshot()
	if snap.Loading {
		t.Fatalf("Loading = true after load finished")
	}
	if len(snap.Authors) != 2 || snap.Authors[0].Name != "Ada" {
		t.Fatalf("Authors = %#v, want Ada and Grace", snap.Authors)
	}
	if !snap.LastUpdated.Equal(fixedNow) {
		t.Fatalf("LastUpdated = %v, want %v", snap.LastUpdated, fixedNow)
	}
}

func TestStore_LoadAuthorsFailure(t *testing.T) {
	s, api := newTestStore(t)
	if err := s.LoadAuthors(context.Background()); err != nil {
		t.Fatalf("LoadAuthors: %v", err)
	}

	api.FailWith("ListAuthors", &catalog.APIError{Status: http.StatusInternalServerError, Message: "database unavailable"})
	if err := s.LoadAuthors(context.Background()); err == nil {
		t.Fatalf("LoadAuthors succeeded, want error")
	}
	snap := s.Snapshot()
	if snap.Error != "database unavailable" {
		t.Fatalf("Error = %q, want server message", snap.Error)
	}
	if snap.Loading {
		t.Fatalf("Loading = true after failure")
	}
	if len(snap.Authors) != 2 {
		t.Fatalf("Authors = %d entries, want previous list kept", len(snap.Authors))
	}

	api.FailWith("ListAuthors", errors.New(""))
	_ = s.LoadAuthors(context.Background())
	if got := s.Snapshot().Error; got != "Failed to load authors" {
		t.Fatalf("Error = %q, want fallback", got)
	}
}

func TestStore_ReferenceListFailuresAreSilent(t *testing.T) {
	s, api := newTestStore(t)
	api.FailWith("ListGenres", errors.New("boom"))
	api.FailWith("ListPublishers", errors.New("boom"))

	if err := s.LoadGenres(context.Background()); err == nil {
		t.Fatalf("LoadGenres succeeded, want error")
	}
	if err := s.LoadPublishers(context.Background()); err == nil {
		t.Fatalf("LoadPublishers succeeded, want error")
	}
	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("Error = %q, want empty for reference list failures", snap.Error)
	}
	if snap.Genres != nil || snap.Publishers != nil {
		t.Fatalf("reference lists = %#v %#v, want nil", snap.Genres, snap.Publishers)
	}

	api.FailWith("ListGenres", nil)
	if err := s.LoadGenres(context.Background()); err != nil {
		t.Fatalf("LoadGenres: %v", err)
	}
	if got := len(s.Snapshot().Genres); got != 2 {
		t.Fatalf("Genres = %d, want 2", got)
	}
}

func TestStore_SelectSameAuthorDoesNotRefetch(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	api.ResetCalls()

	if s.SelectAuthor(1) {
		t.Fatalf("SelectAuthor(1) = true for already selected author")
	}
	if s.SelectAuthor(0) {
		t.Fatalf("SelectAuthor(0) = true, want false")
	}
	if calls := api.Calls(); len(calls) != 0 {
		t.Fatalf("calls = %v, want none", calls)
	}
}

func TestStore_LoadAuthorDetailResetsBook(t *testing.T) {
	s, _ := newTestStore(t)
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)
	if s.Snapshot().Book == nil {
		t.Fatalf("Book = nil after selecting book 10")
	}

	selectAuthor(t, s, 2)
	snap := s.Snapshot()
	if snap.Author == nil || snap.Author.ID != 2 {
		t.Fatalf("Author = %#v, want Grace", snap.Author)
	}
	if snap.SelectedBookID != 0 || snap.Book != nil {
		t.Fatalf("book selection = %d %#v, want cleared", snap.SelectedBookID, snap.Book)
	}
	if len(snap.Author.Books) != 1 || snap.Author.Books[0].Title != "Compilers" {
		t.Fatalf("Books = %#v, want Compilers", snap.Author.Books)
	}
}

func TestStore_LoadAuthorDetailFailure(t *testing.T) {
	s, api := newTestStore(t)
	api.FailWith("GetAuthor", errors.New(" "))

	s.SelectAuthor(1)
	if err := s.LoadAuthorDetail(context.Background(), 1); err == nil {
		t.Fatalf("LoadAuthorDetail succeeded, want error")
	}
	if got := s.Snapshot().Error; got != "Failed to load author details" {
		t.Fatalf("Error = %q, want fallback", got)
	}
}

func TestStore_StaleAuthorDetailIsDiscarded(t *testing.T) {
	s, api := newTestStore(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.Hook = func(_ context.Context, method string, id int64) {
		if method == "GetAuthor" && id == 1 {
			close(entered)
			<-release
		}
	}

	s.SelectAuthor(1)
	done := make(chan error, 1)
	go func() { done <- s.LoadAuthorDetail(context.Background(), 1) }()
	<-entered

	selectAuthor(t, s, 2)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale LoadAuthorDetail: %v", err)
	}

	snap := s.Snapshot()
	if snap.SelectedAuthorID != 2 || snap.Author == nil || snap.Author.ID != 2 {
		t.Fatalf("selected = %d author = %#v, want Grace to win", snap.SelectedAuthorID, snap.Author)
	}
}

func TestStore_StaleBookDetailIsDiscarded(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.Hook = func(_ context.Context, method string, id int64) {
		if method == "GetBook" && id == 10 {
			close(entered)
			<-release
		}
	}

	s.SelectBook(10)
	done := make(chan error, 1)
	go func() { done <- s.LoadBookDetail(context.Background(), 10) }()
	<-entered

	selectBook(t, s, 11)
	close(release)
	<-done

	snap := s.Snapshot()
	if snap.Book == nil || snap.Book.ID != 11 {
		t.Fatalf("Book = %#v, want Compilers to win", snap.Book)
	}
}

func TestStore_CloseBook(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)

	s.CloseBook()
	snap := s.Snapshot()
	if snap.SelectedBookID != 0 || snap.Book != nil {
		t.Fatalf("book state = %d %#v, want cleared", snap.SelectedBookID, snap.Book)
	}
	if snap.Author == nil || snap.Author.ID != 1 {
		t.Fatalf("Author = %#v, want Ada kept", snap.Author)
	}

	// A fetch issued before the close must not reopen the book.
	entered := make(chan struct{})
	release := make(chan struct{})
	api.Hook = func(_ context.Context, method string, _ int64) {
		if method == "GetBook" {
			close(entered)
			<-release
		}
	}
	s.SelectBook(11)
	done := make(chan error, 1)
	go func() { done <- s.LoadBookDetail(context.Background(), 11) }()
	<-entered
	s.CloseBook()
	close(release)
	<-done

	if got := s.Snapshot().Book; got != nil {
		t.Fatalf("Book = %#v after close, want nil", got)
	}
}

func TestStore_SaveAuthorCreateSelectsNewAuthor(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	s.OpenAuthorForm()
	api.ResetCalls()

	err := s.SaveAuthor(context.Background(), catalog.AuthorCreate{Name: "Alan", Surname: "Turing", BirthYear: 1912})
	if err != nil {
		t.Fatalf("SaveAuthor: %v", err)
	}

	snap := s.Snapshot()
	if snap.AuthorForm.Open {
		t.Fatalf("author form still open after save")
	}
	if snap.Author == nil || snap.Author.Name != "Alan" {
		t.Fatalf("Author = %#v, want the new author loaded", snap.Author)
	}
	if snap.SelectedAuthorID != snap.Author.ID {
		t.Fatalf("SelectedAuthorID = %d, want %d", snap.SelectedAuthorID, snap.Author.ID)
	}
	if len(snap.Authors) != 3 {
		t.Fatalf("Authors = %d, want reloaded list of 3", len(snap.Authors))
	}

	want := []string{"CreateAuthor", "ListAuthors", "GetAuthor 101"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveAuthorEditKeepsSelection(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	if !s.OpenEditAuthorForm() {
		t.Fatalf("OpenEditAuthorForm = false with author loaded")
	}

	form := s.Snapshot().AuthorForm
	wantSeed := &catalog.AuthorCreate{Name: "Ada", Surname: "Lovelace", BirthYear: 1815}
	if form.EditID != 1 || !cmp.Equal(wantSeed, form.Seed) {
		t.Fatalf("form = %#v, want edit of Ada", form)
	}

	if err := s.SaveAuthor(context.Background(), catalog.AuthorCreate{Name: "Augusta Ada", Surname: "King", BirthYear: 1815}); err != nil {
		t.Fatalf("SaveAuthor: %v", err)
	}
	snap := s.Snapshot()
	if snap.SelectedAuthorID != 1 || snap.Author.Surname != "King" {
		t.Fatalf("selected = %d author = %#v, want edited Ada", snap.SelectedAuthorID, snap.Author)
	}
	if a, _ := api.Author(1); a.Name != "Augusta Ada" {
		t.Fatalf("stored author = %#v, want update sent", a)
	}
}

func TestStore_SaveAuthorFailureKeepsForm(t *testing.T) {
	s, api := newTestStore(t)
	s.OpenAuthorForm()
	api.FailWith("CreateAuthor", &catalog.APIError{Status: http.StatusUnprocessableEntity, Message: "birth_year: too old"})

	if err := s.SaveAuthor(context.Background(), catalog.AuthorCreate{Name: "Al", Surname: "Bo", BirthYear: 1900}); err == nil {
		t.Fatalf("SaveAuthor succeeded, want error")
	}
	snap := s.Snapshot()
	if !snap.AuthorForm.Open {
		t.Fatalf("author form closed after failed save")
	}
	if snap.Error != "birth_year: too old" {
		t.Fatalf("Error = %q, want server message", snap.Error)
	}

	api.FailWith("CreateAuthor", nil)
	if err := s.SaveAuthor(context.Background(), catalog.AuthorCreate{Name: "Al", Surname: "Bo", BirthYear: 1900}); err != nil {
		t.Fatalf("SaveAuthor retry: %v", err)
	}
	if got := s.Snapshot().Error; got != "" {
		t.Fatalf("Error = %q, want cleared after success", got)
	}
}

func TestStore_DeleteAuthorClearsSelection(t *testing.T) {
	s, api := newTestStore(t)
	if err := s.LoadAuthors(context.Background()); err != nil {
		t.Fatalf("LoadAuthors: %v", err)
	}
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)

	prompt, ok := s.Snapshot().DeleteAuthorPrompt()
	if !ok || prompt != "Are you sure you want to delete Ada Lovelace?" {
		t.Fatalf("prompt = %q ok=%v", prompt, ok)
	}

	api.ResetCalls()
	if err := s.DeleteAuthor(context.Background()); err != nil {
		t.Fatalf("DeleteAuthor: %v", err)
	}

	snap := s.Snapshot()
	if snap.SelectedAuthorID != 0 || snap.Author != nil || snap.SelectedBookID != 0 || snap.Book != nil {
		t.Fatalf("selection not cleared: %#v", snap)
	}
	for _, a := range snap.Authors {
		if a.ID == 1 {
			t.Fatalf("deleted author still listed: %#v", snap.Authors)
		}
	}
	want := []string{"DeleteAuthor 1", "ListAuthors"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_DeleteAuthorFailureKeepsState(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	api.FailWith("DeleteAuthor", errors.New(""))

	if err := s.DeleteAuthor(context.Background()); err == nil {
		t.Fatalf("DeleteAuthor succeeded, want error")
	}
	snap := s.Snapshot()
	if snap.Author == nil || snap.SelectedAuthorID != 1 {
		t.Fatalf("selection changed after failed delete")
	}
	if snap.Error != "Failed to delete author" {
		t.Fatalf("Error = %q, want fallback", snap.Error)
	}
}

func TestStore_DeleteWithoutSelection(t *testing.T) {
	s, api := newTestStore(t)
	if err := s.DeleteAuthor(context.Background()); err == nil {
		t.Fatalf("DeleteAuthor without author succeeded")
	}
	if err := s.DeleteBook(context.Background()); err == nil {
		t.Fatalf("DeleteBook without book succeeded")
	}
	if calls := api.Calls(); len(calls) != 0 {
		t.Fatalf("calls = %v, want none", calls)
	}
}

func TestStore_BookFormRequiresAuthor(t *testing.T) {
	s, _ := newTestStore(t)
	if s.OpenBookForm() {
		t.Fatalf("OpenBookForm = true without selected author")
	}
	if s.OpenEditBookForm() {
		t.Fatalf("OpenEditBookForm = true without book")
	}

	selectAuthor(t, s, 2)
	if !s.OpenBookForm() {
		t.Fatalf("OpenBookForm = false with author selected")
	}
	if form := s.Snapshot().BookForm; !form.Open || form.Editing() {
		t.Fatalf("BookForm = %#v, want open create form", form)
	}
	s.CloseBookForm()
	if s.Snapshot().BookForm.Open {
		t.Fatalf("BookForm still open after close")
	}
}

func TestStore_OpenEditBookFormSeedsAllAuthors(t *testing.T) {
	s, _ := newTestStore(t)
	selectAuthor(t, s, 2)
	selectBook(t, s, 11)

	if !s.OpenEditBookForm() {
		t.Fatalf("OpenEditBookForm = false with book loaded")
	}
	form := s.Snapshot().BookForm
	want := &catalog.BookCreate{
		BookBase:  catalog.BookBase{Title: "Compilers", Edition: "2nd", PublisherID: 1, GenreID: 2},
		AuthorIDs: []int64{2, 1},
	}
	if form.EditID != 11 {
		t.Fatalf("EditID = %d, want 11", form.EditID)
	}
	if diff := cmp.Diff(want, form.Seed); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveBookReloadsAuthor(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)
	s.OpenBookForm()
	api.ResetCalls()

	book := catalog.BookCreate{
		BookBase:  catalog.BookBase{Title: "Sketch of the Analytical Engine", PublisherID: 1, GenreID: 1},
		AuthorIDs: []int64{1},
	}
	if err := s.SaveBook(context.Background(), book); err != nil {
		t.Fatalf("SaveBook: %v", err)
	}

	snap := s.Snapshot()
	if snap.BookForm.Open {
		t.Fatalf("book form still open after save")
	}
	if snap.SelectedBookID != 0 || snap.Book != nil {
		t.Fatalf("book selection = %d %#v, want cleared", snap.SelectedBookID, snap.Book)
	}
	if snap.Author == nil || len(snap.Author.Books) != 3 {
		t.Fatalf("Author.Books = %#v, want reloaded list of 3", snap.Author)
	}
	want := []string{"CreateBook", "GetAuthor 1"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveBookEditSendsUpdate(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 2)
	selectBook(t, s, 11)
	s.OpenEditBookForm()

	seed := *s.Snapshot().BookForm.Seed
	seed.Title = "Compilers, Revised"
	if err := s.SaveBook(context.Background(), seed); err != nil {
		t.Fatalf("SaveBook: %v", err)
	}
	got, _ := api.Book(11)
	if got.Title != "Compilers, Revised" || len(got.Authors) != 2 {
		t.Fatalf("stored book = %#v, want update keeping both authors", got)
	}
}

func TestStore_SaveBookFailureKeepsForm(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	s.OpenBookForm()
	api.FailWith("CreateBook", errors.New(""))

	if err := s.SaveBook(context.Background(), catalog.BookCreate{}); err == nil {
		t.Fatalf("SaveBook succeeded, want error")
	}
	snap := s.Snapshot()
	if !snap.BookForm.Open || snap.Error != "Failed to save book" {
		t.Fatalf("form open=%v error=%q, want open form and fallback", snap.BookForm.Open, snap.Error)
	}
}

func TestSnapshot_DeleteBookPromptKeepsTitleAsIs(t *testing.T) {
	snap := Snapshot{Book: &catalog.BookDetail{BookBase: catalog.BookBase{Title: `The "Best" Book`}}}
	prompt, ok := snap.DeleteBookPrompt()
	if !ok || prompt != `Are you sure you want to delete "The "Best" Book"?` {
		t.Fatalf("prompt = %s ok=%v", prompt, ok)
	}
}

func TestStore_DeleteBook(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)

	prompt, ok := s.Snapshot().DeleteBookPrompt()
	if !ok || prompt != `Are you sure you want to delete "Notes"?` {
		t.Fatalf("prompt = %q ok=%v", prompt, ok)
	}

	api.ResetCalls()
	if err := s.DeleteBook(context.Background()); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	snap := s.Snapshot()
	if snap.Book != nil || snap.SelectedBookID != 0 {
		t.Fatalf("book selection not cleared")
	}
	if snap.SelectedAuthorID != 1 || len(snap.Author.Books) != 1 {
		t.Fatalf("author = %#v, want Ada with one remaining book", snap.Author)
	}
	want := []string{"DeleteBook 10", "GetAuthor 1"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_DeleteBookFailure(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)
	api.FailWith("DeleteBook", &catalog.APIError{Status: http.StatusNotFound, Message: "Book not found"})

	if err := s.DeleteBook(context.Background()); err == nil {
		t.Fatalf("DeleteBook succeeded, want error")
	}
	snap := s.Snapshot()
	if snap.Book == nil || snap.Error != "Book not found" {
		t.Fatalf("book=%#v error=%q, want book kept and server message", snap.Book, snap.Error)
	}
}

func TestStore_Reload(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 2)
	api.ResetCalls()

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	want := []string{"ListAuthors", "GetAuthor 2"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ReloadKeepsBookOpenedWhileInFlight(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	api.Hook = func(_ context.Context, method string, id int64) {
		if method == "GetAuthor" && id == 1 {
			close(entered)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background()) }()
	<-entered

	selectBook(t, s, 10)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Reload: %v", err)
	}

	snap := s.Snapshot()
	if snap.SelectedBookID != 10 || snap.Book == nil || snap.Book.ID != 10 {
		t.Fatalf("book selection = %d %#v, want book 10 kept", snap.SelectedBookID, snap.Book)
	}
	if snap.Author == nil || snap.Author.ID != 1 {
		t.Fatalf("Author = %#v, want Ada refreshed", snap.Author)
	}
}

func TestStore_ReloadClosesRemovedBook(t *testing.T) {
	s, api := newTestStore(t)
	selectAuthor(t, s, 1)
	selectBook(t, s, 10)

	if err := api.DeleteBook(context.Background(), 10); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	snap := s.Snapshot()
	if snap.SelectedBookID != 0 || snap.Book != nil {
		t.Fatalf("book selection = %d %#v, want cleared", snap.SelectedBookID, snap.Book)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s, api := newTestStore(t)

	api.FailWith("ListAuthors", errors.New("connection refused"))
	_ = s.LoadAuthors(context.Background())
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("failures = %d offline=%v, want 1 and online", snap.ConsecutiveFailures, snap.IsOffline())
	}

	_ = s.LoadAuthors(context.Background())
	if snap := s.Snapshot(); !snap.IsOffline() {
		t.Fatalf("IsOffline = false after 2 transport failures")
	}

	// A response from the server, even an error, means it is reachable.
	api.FailWith("ListAuthors", &catalog.APIError{Status: http.StatusInternalServerError, Message: "boom"})
	_ = s.LoadAuthors(context.Background())
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after API error", snap.ConsecutiveFailures)
	}

	api.FailWith("ListAuthors", errors.New("connection refused"))
	_ = s.LoadAuthors(context.Background())
	api.FailWith("ListAuthors", nil)
	_ = s.LoadAuthors(context.Background())
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.Error != "" {
		t.Fatalf("failures=%d error=%q, want reset after success", snap.ConsecutiveFailures, snap.Error)
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.LoadAuthors(context.Background()); err != nil {
		t.Fatalf("LoadAuthors: %v", err)
	}
	selectAuthor(t, s, 1)

	snap := s.Snapshot()
	snap.Authors[0].Name = "changed"
	snap.Author.Books[0].Title = "changed"
	snap.Author.Name = "changed"

	again := s.Snapshot()
	if again.Authors[0].Name != "Ada" || again.Author.Books[0].Title != "Notes" || again.Author.Name != "Ada" {
		t.Fatalf("Snapshot shares memory with the store")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "fallback"},
		{errors.New(""), "fallback"},
		{errors.New("  "), "fallback"},
		{errors.New("Author not found"), "Author not found"},
	}
	for _, tt := range tests {
		if got := errorMessage(tt.err, "fallback"); got != tt.want {
			t.Fatalf("errorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
