package catalog

import "strings"

// Author mirrors an author record as returned by /authors.
type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	BirthYear int    `json:"birth_year"`
}

// FullName joins name and surname the way every panel displays them.
func (a Author) FullName() string {
	return strings.TrimSpace(a.Name + " " + a.Surname)
}

// AuthorCreate is the write-time shape for POST/PUT /authors.
type AuthorCreate struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	BirthYear int    `json:"birth_year"`
}

// AuthorDetail is an author together with its books, as returned by /authors/{id}.
type AuthorDetail struct {
	Author
	Books []BookSummary `json:"books"`
}

// Genre is a read-only reference entity.
type Genre struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Publisher is a read-only reference entity.
type Publisher struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website,omitempty"`
	Description  string `json:"description,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
}

// BookBase holds the fields shared by every book shape.
type BookBase struct {
	Title         string `json:"title"`
	Edition       string `json:"edition,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	PublisherID   int64  `json:"publisher_id"`
	GenreID       int64  `json:"genre_id"`
}

// BookSummary is a book with embedded genre and publisher objects.
type BookSummary struct {
	BookBase
	ID        int64     `json:"id"`
	Genre     Genre     `json:"genre"`
	Publisher Publisher `json:"publisher"`
}

// BookDetail additionally embeds the full author objects.
type BookDetail struct {
	BookBase
	ID        int64     `json:"id"`
	Genre     Genre     `json:"genre"`
	Publisher Publisher `json:"publisher"`
	Authors   []Author  `json:"authors"`
}

// AuthorIDs returns the ids of the book's authors in display order.
func (b BookDetail) AuthorIDs() []int64 {
	if len(b.Authors) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}

// BookCreate is the write-time shape for POST/PUT /books. Related entities are
// referenced by id only.
type BookCreate struct {
	BookBase
	AuthorIDs []int64 `json:"author_ids"`
}
