// Package status turns a matched transit record into a display Resolution and
// decides when a change between two resolutions deserves a notification.
package status
