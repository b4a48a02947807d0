package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/forms"
	"github.com/five82/folio/internal/state"
)

// authorFields lists the inputs of the author form in tab order.
var authorFields = [...]forms.Field{forms.FieldName, forms.FieldSurname, forms.FieldBirthYear}

var authorLabels = map[forms.Field]string{
	forms.FieldName:      "Name",
	forms.FieldSurname:   "Surname",
	forms.FieldBirthYear: "Birth Year",
}

// authorFormModal edits an author draft.
type authorFormModal struct {
	editing bool
	inputs  [len(authorFields)]textinput.Model
	focus   int
	errs    forms.Errors
	saving  bool
	now     time.Time
}

func newAuthorFormModal(form state.AuthorForm, now time.Time) authorFormModal {
	draft := forms.NewAuthorDraft(form.Seed, now)
	values := [len(authorFields)]string{draft.Name, draft.Surname, draft.BirthYear}

	f := authorFormModal{editing: form.Editing(), errs: forms.Errors{}, now: now}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 100
		in.Width = ModalWidth - 8
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[2].CharLimit = 4
	f.inputs[2].Placeholder = "YYYY"
	f.inputs[0].Focus()
	return f
}

func (f authorFormModal) title() string {
	if f.editing {
		return "Edit Author"
	}
	return "Add New Author"
}

func (f authorFormModal) draft() forms.AuthorDraft {
	return forms.AuthorDraft{
		Name:      f.inputs[0].Value(),
		Surname:   f.inputs[1].Value(),
		BirthYear: f.inputs[2].Value(),
	}
}

func (f authorFormModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case storeMsg:
		if msg.op == opSaveAuthor {
			f.saving = false
		}
		return f, nil, false
	case tea.KeyMsg:
		return f.handleKey(msg, keys)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f authorFormModal) handleKey(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return f, nil, true
	case key.Matches(msg, keys.Submit):
		if f.saving {
			return f, nil, false
		}
		author, errs := f.draft().Validate(f.now)
		if len(errs) > 0 {
			f.errs = errs
			return f, nil, false
		}
		f.errs = forms.Errors{}
		f.saving = true
		return f, func() tea.Msg { return saveAuthorMsg{author: author} }, false
	case key.Matches(msg, keys.NextField):
		return f.moveFocus(1), nil, false
	case key.Matches(msg, keys.PrevField):
		return f.moveFocus(-1), nil, false
	}

	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.inputs[f.focus].Value() != before {
		delete(f.errs, authorFields[f.focus])
	}
	return f, cmd, false
}

func (f authorFormModal) moveFocus(delta int) authorFormModal {
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = ((f.focus+delta)%n + n) % n
	f.inputs[f.focus].Focus()
	return f
}

func (f authorFormModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.title()))
	b.WriteString("\n\n")

	for i, field := range authorFields {
		label := styles.MutedText
		if i == f.focus {
			label = styles.AccentText
		}
		b.WriteString(label.Render(authorLabels[field]))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
		if msg := f.errs[field]; msg != "" {
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if f.saving {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.WarningText.Render("enter") + styles.MutedText.Render(" save   "))
		b.WriteString(styles.WarningText.Render("esc") + styles.MutedText.Render(" cancel"))
	}
	return placeModal(theme, b.String(), ModalWidth, width, height)
}
