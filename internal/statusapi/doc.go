// Package statusapi serves the current trip status over local HTTP for
// editor and bar plugins that draw the indicator themselves.
//
// Routes:
//
//	GET  /api/status   current snapshot as JSON
//	POST /api/refresh  refresh now, then return the new snapshot
//	GET  /healthz      liveness
//
// Requests are logged through the standard logger with unrolled/logger.
package statusapi
