package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModal asks for a yes/no answer before a destructive operation.
type confirmModal struct {
	prompt string
	op     operation
}

func newConfirmModal(prompt string, op operation) confirmModal {
	return confirmModal{prompt: prompt, op: op}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		op := c.op
		return c, func() tea.Msg { return confirmedMsg{op: op} }, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Confirm"))
	b.WriteString("\n\n")
	for _, line := range wrap(c.prompt, ModalWidth-6) {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.WarningText.Render("y") + styles.MutedText.Render(" delete   "))
	b.WriteString(styles.WarningText.Render("n") + styles.MutedText.Render(" cancel"))

	return placeModal(theme, b.String(), ModalWidth, width, height)
}
