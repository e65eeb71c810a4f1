// Package config loads, validates and saves tripbar's settings file.
//
// # Overview
//
// tripbar keeps every user setting in one file, by default
// ~/.config/tripbar/config.toml. The file is re-read on every refresh so edits
// take effect on the next poll without restarting the program.
//
// # Backends
//
// The backend key selects the transit source:
//
//   - gtfs: a GTFS-Realtime trip-updates feed. Requires feed_url and trip_id.
//   - departures: a JSON departure board with station lookup. Requires train
//     and origin; api_url defaults to https://v6.db.transport.rest.
//
// Missing reports which required keys are absent. Callers must not issue any
// network request while Missing is non-empty.
//
// # File Formats
//
// Files ending in .yaml or .yml are parsed as YAML; anything else is TOML.
//
//	backend = "departures"
//	train = "ICE 123"
//	origin = "Berlin Hbf"
//	poll_seconds = 60
//	notify = true
//
// Values are trimmed and then validated: backend must be known and URLs must
// parse. poll_seconds and duration_minutes of zero or less mean the default.
// A missing file is not an error; defaults are returned instead.
//
// # Change Detection
//
// File wraps a path as a Source. Watch reports edits through fsnotify on the
// parent directory, so editors that save by rename are seen. Each burst of
// events is checked against a size and mtime fingerprint (Changed); writes
// made through File.Save update the fingerprint and are not reported.
package config
