// Package logtail reads the tail of stockpile's own log file for the
// Activity view.
//
// Read keeps the last N lines with a ring buffer, so memory stays bounded by
// N regardless of file size. ReadEntries decodes those lines as the JSON
// records written by the logging package (timestamp, level, logger, msg and
// any extra fields such as op or request_id). Lines that are not JSON are
// kept as plain messages.
//
//	entries, err := logtail.ReadEntries(cfg.LogPath, 500)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Level, e.Logger, e.Message, e.FieldList())
//	}
package logtail
