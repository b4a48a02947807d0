// Package state coordinates the catalog data shown by Folio's UI.
//
// # Overview
//
// Store holds the author list, the selected author and book, the reference
// lists, the open dialogs and the error banner. Its methods run the API calls
// that fill those slots and apply the selection and reload rules around
// writes. The UI calls them from tea.Cmd goroutines and re-renders from
// Snapshot when they return.
//
// # Concurrency Model
//
// All state sits behind a sync.RWMutex that is never held across network
// I/O. Each fetch follows the same shape:
//
//	lock → take generation token → unlock
//	call the API
//	lock → token still current? apply : discard → unlock
//
// Every slot that a fetch fills (authors, author detail, book detail,
// genres, publishers) has its own generation counter. Starting a fetch bumps
// the counter, so the most recently issued request wins even when an older
// one answers later. Clearing a selection bumps the counter too, which keeps
// a late answer from resurrecting it.
//
// # Error Banner
//
// Failures of user-visible operations replace the banner text with the
// server's message or a fixed fallback such as "Failed to load authors".
// Successful ones clear it. Reference list failures are only logged.
//
// # Defensive Copying
//
// Snapshot copies slices and detail records so the UI can hold on to a
// snapshot while fetches keep running.
package state
