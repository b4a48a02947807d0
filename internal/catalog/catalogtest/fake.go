// Package catalogtest provides an in-memory catalog.API for tests.
package catalogtest

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/five82/folio/internal/catalog"
)

// Fake is an in-memory catalog.API. The zero value is not usable; call New.
type Fake struct {
	mu         sync.Mutex
	authors    map[int64]catalog.Author
	books      map[int64]catalog.BookDetail
	genres     []catalog.Genre
	publishers []catalog.Publisher
	nextID     int64
	errs       map[string]error
	calls      []string

	// Hook runs before every call, outside the lock. Tests use it to block a
	// call or reorder responses.
	Hook func(ctx context.Context, method string, id int64)
}

var _ catalog.API = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		authors: make(map[int64]catalog.Author),
		books:   make(map[int64]catalog.BookDetail),
		errs:    make(map[string]error),
		nextID:  100,
	}
}

// AddAuthor stores a and returns it.
func (f *Fake) AddAuthor(a catalog.Author) catalog.Author {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authors[a.ID] = a
	return a
}

// AddBook stores b. Its Genre and Publisher are resolved from the reference
// lists when present.
func (f *Fake) AddBook(b catalog.BookDetail) catalog.BookDetail {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books[b.ID] = f.resolveLocked(b)
	return f.books[b.ID]
}

// SetGenres replaces the genre list.
func (f *Fake) SetGenres(genres ...catalog.Genre) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genres = genres
}

// SetPublishers replaces the publisher list.
func (f *Fake) SetPublishers(publishers ...catalog.Publisher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishers = publishers
}

// FailWith makes every later call to method return err. A nil err clears it.
func (f *Fake) FailWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// Calls returns the calls made so far, formatted as "Method id".
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// ResetCalls forgets recorded calls.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Book returns the stored book with id.
func (f *Fake) Book(id int64) (catalog.BookDetail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	return b, ok
}

// Author returns the stored author with id.
func (f *Fake) Author(id int64) (catalog.Author, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	return a, ok
}

func (f *Fake) enter(ctx context.Context, method string, id int64) error {
	if f.Hook != nil {
		f.Hook(ctx, method, id)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != 0 {
		f.calls = append(f.calls, fmt.Sprintf("%s %d", method, id))
	} else {
		f.calls = append(f.calls, method)
	}
	return f.errs[method]
}

func notFound(method, path, what string) error {
	return &catalog.APIError{Status: http.StatusNotFound, Method: method, Path: path, Message: what + " not found"}
}

func (f *Fake) ListAuthors(ctx context.Context, _ catalog.ListParams) ([]catalog.Author, error) {
	if err := f.enter(ctx, "ListAuthors", 0); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Author, 0, len(f.authors))
	for _, a := range f.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) GetAuthor(ctx context.Context, id int64) (*catalog.AuthorDetail, error) {
	if err := f.enter(ctx, "GetAuthor", id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	if !ok {
		return nil, notFound(http.MethodGet, "/authors", "Author")
	}
	detail := &catalog.AuthorDetail{Author: a, Books: []catalog.BookSummary{}}
	for _, b := range f.sortedBooksLocked() {
		for _, ba := range b.Authors {
			if ba.ID == id {
				detail.Books = append(detail.Books, catalog.BookSummary{
					BookBase:  b.BookBase,
					ID:        b.ID,
					Genre:     b.Genre,
					Publisher: b.Publisher,
				})
				break
			}
		}
	}
	return detail, nil
}

func (f *Fake) CreateAuthor(ctx context.Context, in catalog.AuthorCreate) (*catalog.AuthorDetail, error) {
	if err := f.enter(ctx, "CreateAuthor", 0); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a := catalog.Author{ID: f.nextID, Name: in.Name, Surname: in.Surname, BirthYear: in.BirthYear}
	f.authors[a.ID] = a
	return &catalog.AuthorDetail{Author: a, Books: []catalog.BookSummary{}}, nil
}

func (f *Fake) UpdateAuthor(ctx context.Context, id int64, in catalog.AuthorCreate) (*catalog.AuthorDetail, error) {
	if err := f.enter(ctx, "UpdateAuthor", id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.authors[id]; !ok {
		return nil, notFound(http.MethodPut, "/authors", "Author")
	}
	a := catalog.Author{ID: id, Name: in.Name, Surname: in.Surname, BirthYear: in.BirthYear}
	f.authors[id] = a
	return &catalog.AuthorDetail{Author: a}, nil
}

func (f *Fake) DeleteAuthor(ctx context.Context, id int64) error {
	if err := f.enter(ctx, "DeleteAuthor", id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.authors[id]; !ok {
		return notFound(http.MethodDelete, "/authors", "Author")
	}
	delete(f.authors, id)
	return nil
}

func (f *Fake) ListBooks(ctx context.Context, params catalog.BookListParams) ([]catalog.BookSummary, error) {
	if err := f.enter(ctx, "ListBooks", 0); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.BookSummary
	for _, b := range f.sortedBooksLocked() {
		if params.GenreID != nil && b.GenreID != *params.GenreID {
			continue
		}
		if params.PublisherID != nil && b.PublisherID != *params.PublisherID {
			continue
		}
		if params.AuthorID != nil && !hasAuthor(b, *params.AuthorID) {
			continue
		}
		out = append(out, catalog.BookSummary{BookBase: b.BookBase, ID: b.ID, Genre: b.Genre, Publisher: b.Publisher})
	}
	return out, nil
}

func (f *Fake) GetBook(ctx context.Context, id int64) (*catalog.BookDetail, error) {
	if err := f.enter(ctx, "GetBook", id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, notFound(http.MethodGet, "/books", "Book")
	}
	b.Authors = append([]catalog.Author(nil), b.Authors...)
	return &b, nil
}

func (f *Fake) CreateBook(ctx context.Context, in catalog.BookCreate) (*catalog.BookDetail, error) {
	if err := f.enter(ctx, "CreateBook", 0); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b := f.buildBookLocked(f.nextID, in)
	f.books[b.ID] = b
	return &b, nil
}

func (f *Fake) UpdateBook(ctx context.Context, id int64, in catalog.BookCreate) (*catalog.BookDetail, error) {
	if err := f.enter(ctx, "UpdateBook", id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return nil, notFound(http.MethodPut, "/books", "Book")
	}
	b := f.buildBookLocked(id, in)
	f.books[id] = b
	return &b, nil
}

func (f *Fake) DeleteBook(ctx context.Context, id int64) error {
	if err := f.enter(ctx, "DeleteBook", id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return notFound(http.MethodDelete, "/books", "Book")
	}
	delete(f.books, id)
	return nil
}

func (f *Fake) ListGenres(ctx context.Context) ([]catalog.Genre, error) {
	if err := f.enter(ctx, "ListGenres", 0); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Genre(nil), f.genres...), nil
}

func (f *Fake) GetGenre(ctx context.Context, id int64) (*catalog.Genre, error) {
	if err := f.enter(ctx, "GetGenre", id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.genres {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, notFound(http.MethodGet, "/genres", "Genre")
}

func (f *Fake) ListPublishers(ctx context.Context) ([]catalog.Publisher, error) {
	if err := f.enter(ctx, "ListPublishers", 0); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Publisher(nil), f.publishers...), nil
}

func (f *Fake) GetPublisher(ctx context.Context, id int64) (*catalog.Publisher, error) {
	if err := f.enter(ctx, "GetPublisher", id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.publishers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, notFound(http.MethodGet, "/publishers", "Publisher")
}

func (f *Fake) buildBookLocked(id int64, in catalog.BookCreate) catalog.BookDetail {
	b := catalog.BookDetail{BookBase: in.BookBase, ID: id}
	for _, aid := range in.AuthorIDs {
		if a, ok := f.authors[aid]; ok {
			b.Authors = append(b.Authors, a)
		}
	}
	return f.resolveLocked(b)
}

func (f *Fake) resolveLocked(b catalog.BookDetail) catalog.BookDetail {
	for _, g := range f.genres {
		if g.ID == b.GenreID {
			b.Genre = g
		}
	}
	for _, p := range f.publishers {
		if p.ID == b.PublisherID {
			b.Publisher = p
		}
	}
	return b
}

func (f *Fake) sortedBooksLocked() []catalog.BookDetail {
	out := make([]catalog.BookDetail, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasAuthor(b catalog.BookDetail, id int64) bool {
	for _, a := range b.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}
