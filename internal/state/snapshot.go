package state

import (
	"fmt"
	"time"

	"github.com/five82/folio/internal/catalog"
)

// Snapshot is a point-in-time copy of the catalog state.
type Snapshot struct {
	Authors          []catalog.Author
	Loading          bool
	SelectedAuthorID int64
	Author           *catalog.AuthorDetail
	SelectedBookID   int64
	Book             *catalog.BookDetail
	Genres           []catalog.Genre
	Publishers       []catalog.Publisher
	Error            string
	AuthorForm       AuthorForm
	BookForm         BookForm
	LastUpdated      time.Time

	ConsecutiveFailures int // transport failures since the last response
}

// AuthorForm describes the author dialog. EditID is zero in create mode.
type AuthorForm struct {
	Open   bool
	EditID int64
	Seed   *catalog.AuthorCreate
}

// Editing reports whether the form updates an existing author.
func (f AuthorForm) Editing() bool { return f.EditID > 0 }

// BookForm describes the book dialog. EditID is zero in create mode.
type BookForm struct {
	Open   bool
	EditID int64
	Seed   *catalog.BookCreate
}

// Editing reports whether the form updates an existing book.
func (f BookForm) Editing() bool { return f.EditID > 0 }

// IsOffline reports whether the API has been unreachable for several calls
// in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// HasError reports whether the banner has something to show.
func (s Snapshot) HasError() bool { return s.Error != "" }

// DeleteAuthorPrompt returns the confirmation text for deleting the loaded
// author. ok is false when no author is loaded.
func (s Snapshot) DeleteAuthorPrompt() (string, bool) {
	if s.Author == nil {
		return "", false
	}
	return fmt.Sprintf("Are you sure you want to delete %s %s?", s.Author.Name, s.Author.Surname), true
}

// DeleteBookPrompt returns the confirmation text for deleting the loaded
// book. ok is false when no book is loaded.
func (s Snapshot) DeleteBookPrompt() (string, bool) {
	if s.Book == nil {
		return "", false
	}
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", s.Book.Title), true
}

// SelectedAuthor returns the list entry for the selected author.
func (s Snapshot) SelectedAuthor() (catalog.Author, bool) {
	for _, a := range s.Authors {
		if a.ID == s.SelectedAuthorID {
			return a, true
		}
	}
	return catalog.Author{}, false
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Authors = cloneSlice(s.Authors)
	out.Genres = cloneSlice(s.Genres)
	out.Publishers = cloneSlice(s.Publishers)
	if s.Author != nil {
		author := *s.Author
		author.Books = cloneSlice(s.Author.Books)
		out.Author = &author
	}
	if s.Book != nil {
		book := *s.Book
		book.Authors = cloneSlice(s.Book.Authors)
		out.Book = &book
	}
	if s.AuthorForm.Seed != nil {
		seed := *s.AuthorForm.Seed
		out.AuthorForm.Seed = &seed
	}
	if s.BookForm.Seed != nil {
		seed := *s.BookForm.Seed
		seed.AuthorIDs = cloneSlice(s.BookForm.Seed.AuthorIDs)
		out.BookForm.Seed = &seed
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
