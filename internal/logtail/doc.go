// Package logtail reads the end of Folio's log file for the diagnostics view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded however large the file grows. Lines come back oldest first.
//
// Parse recognises slog text and JSON records and extracts the level and
// message, which the view uses for coloring. Filter drops records below a
// level. Lines that are not slog records (a panic trace, for instance) are
// treated as INFO.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.Filter(lines, slog.LevelWarn) {
//		entry := logtail.Parse(line)
//		...
//	}
package logtail
