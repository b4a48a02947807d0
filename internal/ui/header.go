package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("folio", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render("● CONNECTING", styles.WarningText))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	maxBase := 40
	if compact {
		maxBase = 24
	}
	parts = append(parts,
		bg.Render("API", styles.MutedText)+bg.Space()+
			bg.Render(truncateMiddle(m.apiBase, maxBase), styles.Text),
	)

	if m.authorsLoaded {
		parts = append(parts,
			bg.Render("Authors:", styles.MutedText)+bg.Space()+
				bg.Render(strconv.Itoa(len(m.snapshot.Authors)), styles.Text),
		)
	}

	if m.snapshot.Loading {
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if !compact {
		parts = append(parts,
			bg.Render("T", styles.AccentText)+bg.Render(":", styles.FaintText)+
				bg.Render(m.theme.Name, styles.FaintText),
		)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderBanner renders the current error message across the full width.
func (m Model) renderBanner() string {
	styles := m.theme.Styles()
	text := truncate(sanitize(m.snapshot.Error), m.width-2)
	return styles.Banner.Width(m.width).Render(text)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}

	since := m.now().Sub(last)
	ts := last.Local().Format("15:04:05")
	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}
