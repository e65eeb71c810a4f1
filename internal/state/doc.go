// Package state holds the indicator contents shared by the poller, the UI and
// the status API.
//
// Store implements both the Indicator and the Notifier the poller writes to:
//
//	Session.Refresh ──Render/Show/Notify──> Store ──Snapshot()──> ui, statusapi
//	                                          │
//	                                          └─OnChange──> ui program
//
// Snapshot returns a copy, so readers never hold the lock while rendering.
// Transient checking renders do not count as refreshes. Consecutive api-errors
// are counted and the snapshot reports itself stale after two in a row. The
// last twenty notifications are kept for the toast and the API.
package state
