package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Navigation",
		items: []helpItem{
			{"tab", "Next pane"},
			{"shift+tab", "Previous pane"},
			{"j/k", "Move down/up"},
			{"arrows", "Move in book grid"},
			{"ctrl+d/u", "Scroll details"},
			{"esc", "Back"},
		},
	},
	{
		title: "Catalog",
		items: []helpItem{
			{"enter", "Select author or book"},
			{"a", "Add author or book"},
			{"e", "Edit selected"},
			{"d", "Delete selected"},
			{"r", "Reload"},
		},
	},
	{
		title: "Forms",
		items: []helpItem{
			{"tab", "Next field"},
			{"left/right", "Change publisher/genre"},
			{"enter", "Save"},
			{"esc", "Cancel"},
		},
	},
	{
		title: "General",
		items: []helpItem{
			{"l", "Diagnostic log"},
			{"w", "Warnings only (log)"},
			{"T", "Cycle theme"},
			{"h/?", "Toggle help"},
			{"Q/ctrl+c", "Quit"},
		},
	},
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range helpSections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(helpSections)-1 {
			b.WriteString("\n")
		}
	}

	return placeModal(m.theme, b.String(), 44, m.width, m.height)
}

// renderFooter renders the context-sensitive key hints.
func (m Model) renderFooter() string {
	var bindings []key.Binding
	switch {
	case m.modal != nil:
		if _, ok := m.modal.(confirmModal); ok {
			bindings = []key.Binding{m.keys.Yes, m.keys.No}
		} else {
			bindings = m.keys.formHelp()
		}
	case m.view == ViewLogs:
		bindings = m.keys.logHelp()
	default:
		bindings = m.keys.ShortHelp()
	}

	h := m.help
	h.Width = m.width - 2
	styles := m.theme.Styles()
	h.Styles.ShortKey = styles.WarningText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	return styles.Footer.Width(m.width).Render(h.ShortHelpView(bindings))
}
