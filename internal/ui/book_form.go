package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/catalog"
	"github.com/five82/folio/internal/forms"
	"github.com/five82/folio/internal/state"
)

// Book form focus positions. The text inputs come first.
const (
	bookFieldTitle = iota
	bookFieldEdition
	bookFieldPublished
	bookFieldPublisher
	bookFieldGenre
	bookFieldCount
)

const bookTextFields = bookFieldPublisher

// bookFormModal edits a book draft. Publisher and genre are picked from the
// loaded reference lists.
type bookFormModal struct {
	editing     bool
	inputs      [bookTextFields]textinput.Model
	focus       int
	draft       forms.BookDraft
	genres      []catalog.Genre
	publishers  []catalog.Publisher
	authorNames []string
	saving      bool
}

func newBookFormModal(form state.BookForm, snap state.Snapshot) bookFormModal {
	draft := forms.NewBookDraft(form.Seed, snap.Genres, snap.Publishers, snap.SelectedAuthorID)

	f := bookFormModal{
		editing:     form.Editing(),
		draft:       draft,
		genres:      snap.Genres,
		publishers:  snap.Publishers,
		authorNames: authorNames(draft.AuthorIDs, snap),
	}
	values := [bookTextFields]string{draft.Title, draft.Edition, draft.PublishedDate}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		in.Width = ModalWidth - 8
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[bookFieldEdition].Placeholder = "optional"
	f.inputs[bookFieldPublished].Placeholder = "YYYY-MM-DD"
	f.inputs[bookFieldPublished].CharLimit = 10
	f.inputs[bookFieldTitle].Focus()
	return f
}

// authorNames resolves author ids against what the UI has loaded.
func authorNames(ids []int64, snap state.Snapshot) []string {
	known := make(map[int64]string, len(snap.Authors)+1)
	for _, a := range snap.Authors {
		known[a.ID] = a.FullName()
	}
	if snap.Author != nil {
		known[snap.Author.ID] = snap.Author.FullName()
	}
	if snap.Book != nil {
		for _, a := range snap.Book.Authors {
			known[a.ID] = a.FullName()
		}
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := known[id]; ok {
			names = append(names, sanitize(name))
		}
	}
	return names
}

func (f bookFormModal) title() string {
	if f.editing {
		return "Edit Book"
	}
	return "Add New Book"
}

// request merges the text inputs into the draft.
func (f bookFormModal) request() catalog.BookCreate {
	d := f.draft
	d.Title = f.inputs[bookFieldTitle].Value()
	d.Edition = f.inputs[bookFieldEdition].Value()
	d.PublishedDate = f.inputs[bookFieldPublished].Value()
	return d.Request()
}

func (f bookFormModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case storeMsg:
		if msg.op == opSaveBook {
			f.saving = false
		}
		return f, nil, false
	case tea.KeyMsg:
		return f.handleKey(msg, keys)
	}

	if f.focus < bookTextFields {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd, false
	}
	return f, nil, false
}

func (f bookFormModal) handleKey(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return f, nil, true
	case key.Matches(msg, keys.Submit):
		if f.saving {
			return f, nil, false
		}
		f.saving = true
		book := f.request()
		return f, func() tea.Msg { return saveBookMsg{book: book} }, false
	case key.Matches(msg, keys.NextField):
		return f.moveFocus(1), nil, false
	case key.Matches(msg, keys.PrevField):
		return f.moveFocus(-1), nil, false
	}

	switch f.focus {
	case bookFieldPublisher:
		if delta := cycleDelta(msg, keys); delta != 0 {
			f.draft.CyclePublisher(f.publishers, delta)
		}
		return f, nil, false
	case bookFieldGenre:
		if delta := cycleDelta(msg, keys); delta != 0 {
			f.draft.CycleGenre(f.genres, delta)
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func cycleDelta(msg tea.KeyMsg, keys keyMap) int {
	switch {
	case key.Matches(msg, keys.Right):
		return 1
	case key.Matches(msg, keys.Left):
		return -1
	}
	return 0
}

func (f bookFormModal) moveFocus(delta int) bookFormModal {
	if f.focus < bookTextFields {
		f.inputs[f.focus].Blur()
	}
	f.focus = ((f.focus+delta)%bookFieldCount + bookFieldCount) % bookFieldCount
	if f.focus < bookTextFields {
		f.inputs[f.focus].Focus()
	}
	return f
}

func (f bookFormModal) publisherName() string {
	for _, p := range f.publishers {
		if p.ID == f.draft.PublisherID {
			return sanitize(p.Name)
		}
	}
	return "None available"
}

func (f bookFormModal) genreName() string {
	for _, g := range f.genres {
		if g.ID == f.draft.GenreID {
			return sanitize(g.Name)
		}
	}
	return "None available"
}

func (f bookFormModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	label := func(i int, text string) string {
		if i == f.focus {
			return styles.AccentText.Render(text)
		}
		return styles.MutedText.Render(text)
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.title()))
	b.WriteString("\n\n")

	textLabels := [bookTextFields]string{"Title", "Edition", "Published Date"}
	for i := range f.inputs {
		b.WriteString(label(i, textLabels[i]))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(label(bookFieldPublisher, "Publisher"))
	b.WriteString("\n")
	b.WriteString(f.selector(styles, bookFieldPublisher, f.publisherName()))
	b.WriteString("\n\n")
	b.WriteString(label(bookFieldGenre, "Genre"))
	b.WriteString("\n")
	b.WriteString(f.selector(styles, bookFieldGenre, f.genreName()))
	b.WriteString("\n\n")

	if len(f.authorNames) > 0 {
		b.WriteString(styles.MutedText.Render("Authors: "))
		b.WriteString(styles.Text.Render(strings.Join(f.authorNames, ", ")))
		b.WriteString("\n\n")
	}

	if f.saving {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.WarningText.Render("enter") + styles.MutedText.Render(" save   "))
		b.WriteString(styles.WarningText.Render("esc") + styles.MutedText.Render(" cancel"))
	}
	return placeModal(theme, b.String(), ModalWidth, width, height)
}

func (f bookFormModal) selector(styles Styles, field int, value string) string {
	if f.focus == field {
		return styles.AccentText.Render("< ") + styles.Text.Render(value) + styles.AccentText.Render(" >")
	}
	return styles.Text.Render("  " + value)
}
