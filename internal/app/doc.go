// Package app is the composition root for tripbar and owns the polling
// session.
//
// # Overview
//
// Run loads the config file, builds a Session that writes into a shared
// state.Store, optionally starts the local status API and then hands the
// terminal to the Bubble Tea UI. With Options.Once it instead performs a
// single refresh, prints the resolution and returns ErrUnresolved when the
// result was an api-error or config-missing.
//
// # Session
//
// A Session is the poller. Each Refresh runs the same pipeline:
//
//	Load config ──> Missing? ──yes──> config-missing (no network I/O)
//	     │
//	     ├─ gtfs:       FetchRecords(feed_url) ──> Match(ExactID, trip_id)
//	     └─ departures: checking ──> ResolveStation(origin)
//	                    ──> Departures(window) ──> Match(LineContains, train)
//	     │
//	Resolve ──> Render + Show ──> Transition(last, new)? ──> Notify
//
// Failures in the fetch stage become api-error. The cause is logged and shown
// in the tooltip; the last observed state is left as it was so recovering to
// the same state does not notify.
//
// # Timer
//
// Start and Restart stop any running timer and wait for its goroutine, forget
// the last observed state, refresh immediately and arm a new ticker only when
// the config is complete. There is never more than one live timer. Timer ticks
// are dropped while another refresh is in flight; manual refreshes wait.
//
// WatchConfig subscribes to config file events and restarts the session when
// an edit is seen. A refresh cancelled mid-flight puts back the resolution that
// was on screen before its checking placeholder. ChangeTarget saves new target values and restarts.
//
// # Logging
//
// Under the UI the standard logger writes to the log file opened with
// tea.LogToFile; one-shot runs log to stderr.
package app
