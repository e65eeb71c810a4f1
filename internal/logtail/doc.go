// Package logtail reads the tail of tripbar's own log file for the UI log
// pane.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries and scans the file once, so
// memory stays bounded by the requested tail rather than the file size. The
// returned lines are in file order. A missing file reads as empty and a
// non-positive maxLines reads nothing.
//
//	lines, err := logtail.Read(logPath, 200)
//
// # Levels
//
// The standard logger does not write levels, so Level guesses one from the
// words in the message: failures are "error", skipped ticks and retries are
// "warn", everything else is "info". The UI uses it to pick a color.
package logtail
