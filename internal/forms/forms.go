// Package forms holds the editable drafts behind the author and book dialogs.
//
// A draft is seeded from an existing entity (edit mode) or from defaults
// (create mode) and is discarded on cancel. Only the author draft validates
// locally; book submissions go straight to the API, which stays the
// authority on every business rule.
package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/five82/folio/internal/catalog"
)

// Field names a form input that can carry a validation message.
type Field string

const (
	FieldName      Field = "name"
	FieldSurname   Field = "surname"
	FieldBirthYear Field = "birth_year"
)

// Errors maps fields to their validation message.
type Errors map[Field]string

const (
	minNameLength    = 2
	minBirthYear     = 1800
	defaultAuthorAge = 30
)

// AuthorDraft is the in-progress author as typed by the user.
type AuthorDraft struct {
	Name      string
	Surname   string
	BirthYear string
}

// NewAuthorDraft seeds a draft from seed, or from defaults when seed is nil.
// The default birth year is thirty years before now.
func NewAuthorDraft(seed *catalog.AuthorCreate, now time.Time) AuthorDraft {
	draft := AuthorDraft{BirthYear: strconv.Itoa(now.Year() - defaultAuthorAge)}
	if seed == nil {
		return draft
	}
	draft.Name = seed.Name
	draft.Surname = seed.Surname
	if seed.BirthYear != 0 {
		draft.BirthYear = strconv.Itoa(seed.BirthYear)
	}
	return draft
}

// Validate checks the draft and returns the request to send. When the
// returned Errors is non-empty the draft must not be submitted.
func (d AuthorDraft) Validate(now time.Time) (catalog.AuthorCreate, Errors) {
	errs := Errors{}

	name := strings.TrimSpace(d.Name)
	if len([]rune(name)) < minNameLength {
		errs[FieldName] = "Name must be at least 2 characters"
	}
	surname := strings.TrimSpace(d.Surname)
	if len([]rune(surname)) < minNameLength {
		errs[FieldSurname] = "Surname must be at least 2 characters"
	}

	year, err := strconv.Atoi(strings.TrimSpace(d.BirthYear))
	switch {
	case err != nil:
		errs[FieldBirthYear] = "Birth year must be a number"
	case year < minBirthYear || year > now.Year():
		errs[FieldBirthYear] = "Birth year must be between " + strconv.Itoa(minBirthYear) + " and " + strconv.Itoa(now.Year())
	}

	if len(errs) > 0 {
		return catalog.AuthorCreate{}, errs
	}
	return catalog.AuthorCreate{Name: name, Surname: surname, BirthYear: year}, nil
}

// BookDraft is the in-progress book. Publisher and genre are chosen from the
// loaded reference lists; author ids are carried over from the seed.
type BookDraft struct {
	Title         string
	Edition       string
	PublishedDate string
	PublisherID   int64
	GenreID       int64
	AuthorIDs     []int64
}

// NewBookDraft seeds a draft from seed, or from defaults when seed is nil:
// the first publisher, the first genre, and currentAuthorID as sole author.
// Missing reference ids fall back to the first list entry, or 0 when the
// list is empty.
func NewBookDraft(seed *catalog.BookCreate, genres []catalog.Genre, publishers []catalog.Publisher, currentAuthorID int64) BookDraft {
	var draft BookDraft
	if seed != nil {
		draft.Title = seed.Title
		draft.Edition = seed.Edition
		draft.PublishedDate = seed.PublishedDate
		draft.PublisherID = seed.PublisherID
		draft.GenreID = seed.GenreID
		draft.AuthorIDs = append([]int64(nil), seed.AuthorIDs...)
	}
	if draft.PublisherID == 0 && len(publishers) > 0 {
		draft.PublisherID = publishers[0].ID
	}
	if draft.GenreID == 0 && len(genres) > 0 {
		draft.GenreID = genres[0].ID
	}
	if len(draft.AuthorIDs) == 0 && currentAuthorID > 0 {
		draft.AuthorIDs = []int64{currentAuthorID}
	}
	return draft
}

// Request converts the draft into the API write shape. Blank optional fields
// are left out of the payload.
func (d BookDraft) Request() catalog.BookCreate {
	return catalog.BookCreate{
		BookBase: catalog.BookBase{
			Title:         d.Title,
			Edition:       strings.TrimSpace(d.Edition),
			PublishedDate: strings.TrimSpace(d.PublishedDate),
			PublisherID:   d.PublisherID,
			GenreID:       d.GenreID,
		},
		AuthorIDs: append([]int64(nil), d.AuthorIDs...),
	}
}

// CyclePublisher moves the publisher choice by delta, wrapping around.
func (d *BookDraft) CyclePublisher(publishers []catalog.Publisher, delta int) {
	ids := make([]int64, len(publishers))
	for i, p := range publishers {
		ids[i] = p.ID
	}
	d.PublisherID = cycleID(ids, d.PublisherID, delta)
}

// CycleGenre moves the genre choice by delta, wrapping around.
func (d *BookDraft) CycleGenre(genres []catalog.Genre, delta int) {
	ids := make([]int64, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	d.GenreID = cycleID(ids, d.GenreID, delta)
}

func cycleID(ids []int64, current int64, delta int) int64 {
	if len(ids) == 0 {
		return current
	}
	idx := -1
	for i, id := range ids {
		if id == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ids[0]
	}
	n := len(ids)
	return ids[((idx+delta)%n+n)%n]
}
