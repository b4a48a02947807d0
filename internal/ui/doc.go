// Package ui provides the Bubble Tea terminal interface for Folio.
//
// # Layout
//
// The catalog view is split in two panes. The sidebar lists authors with an
// add row on top; the detail pane shows the selected author with a grid of
// book cards, or the details of the selected book. A header line carries the
// connection state and last update time, a banner line shows the current
// error, and the footer lists the keys that apply right now.
//
// The diagnostics view (l) tails the log file written by the app and
// refreshes while it is open.
//
// # Data Flow
//
// The Model never talks to the API directly. Key handlers ask the
// state.Store for a transition and return a tea.Cmd that runs the matching
// network call on its own goroutine. When the call returns, a storeMsg
// arrives and the Model re-reads Store.Snapshot. Forms and confirmations are
// Modal values that report back through messages (saveAuthorMsg,
// saveBookMsg, confirmedMsg).
//
// # Text Handling
//
// Every string that comes from the server passes through sanitize before it
// is rendered, which strips markup and terminal control characters.
//
// # Themes
//
// Dracula, Slate and Nightfox are built in. T cycles them and the choice is
// saved in the preferences file along with the last selected author.
package ui
