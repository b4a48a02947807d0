package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/logtail"
)

// openLogs switches to the diagnostics view and starts polling the log file.
func (m Model) openLogs() (tea.Model, tea.Cmd) {
	m.view = ViewLogs
	m.logJumpBottom = true
	m.syncLogViewport()

	if m.logPath == "" {
		return m, nil
	}
	cmds := []tea.Cmd{m.readLogs()}
	if !m.logTicking {
		m.logTicking = true
		cmds = append(cmds, logTickCmd(LogRefreshInterval))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) readLogs() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	return readLogCmd(m.logPath)
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.view = ViewCatalog
		return m, nil
	case key.Matches(msg, m.keys.WarnOnly):
		m.logWarnOnly = !m.logWarnOnly
		m.logJumpBottom = true
		m.syncLogViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// syncLogViewport re-renders the log lines. The view follows new lines while
// it is scrolled to the bottom.
func (m *Model) syncLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Width = max(m.width-2, 0)
	m.logViewport.Height = max(m.contentHeight()-2, 0)

	follow := m.logJumpBottom || m.logViewport.AtBottom()
	m.logViewport.SetContent(m.renderLogLines(m.logViewport.Width - 1))
	if follow {
		m.logViewport.GotoBottom()
		m.logJumpBottom = false
	}
}

func (m Model) renderLogLines(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)

	switch {
	case m.logPath == "":
		return styles.MutedText.Render(" Logging to a file is disabled")
	case m.logErr != nil:
		return styles.DangerText.Render(" " + truncate(m.logErr.Error(), width))
	}

	lines := m.logLines
	if m.logWarnOnly {
		lines = logtail.Filter(lines, slog.LevelWarn)
	}
	if len(lines) == 0 {
		return styles.MutedText.Render(" No log entries yet")
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		entry := logtail.Parse(line)
		out[i] = styles.LevelStyle(entry.Level).Render(" " + truncate(line, width))
	}
	return strings.Join(out, "\n")
}

// renderLogs renders the diagnostics view.
func (m Model) renderLogs() string {
	title := "Diagnostic Log"
	if m.logWarnOnly {
		title += " (warnings)"
	}
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}
