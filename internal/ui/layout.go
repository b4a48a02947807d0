package ui

import "time"

// Pane sizing.
const (
	// SidebarWidth is the width of the author list including borders.
	SidebarWidth = 34

	// LayoutCompactWidth is the threshold below which the sidebar narrows.
	LayoutCompactWidth = 90

	// BookCardWidth is the outer width of one card in the book grid.
	BookCardWidth = 30

	// ModalWidth is the width of form and confirmation dialogs.
	ModalWidth = 56
)

// Diagnostics view limits.
const (
	// LogTailLines is how many lines of the log file the view keeps.
	LogTailLines = 1000

	// LogRefreshInterval is how often an open diagnostics view re-reads the file.
	LogRefreshInterval = 2 * time.Second
)
