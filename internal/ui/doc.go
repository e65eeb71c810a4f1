// Package ui is the Bubble Tea front end for tripbar.
//
// # Layout
//
//	tripbar  [🚆 5 min late]  Trip T1  08:30:12 (now)
//	 Trip T1 is running 5 min late. Departure 08:42.
//	 [Trip T1: On time → 5 min late]           toast or change-trip prompt
//	 Log ~/.local/state/tripbar/tripbar.log    only with l
//	 ╭──────────────────────────────────────╮
//	 ╰──────────────────────────────────────╯
//	 r Refresh now  c Change trip  l Toggle logs  h/? Toggle help  q Quit
//
// The badge color follows the resolution severity for the active theme.
// After two consecutive api-errors the bar shows a STALE marker.
//
// # Updates
//
// The UI never polls the network. The session writes into state.Store and
// the store's change hook sends a snapshot message to the program. A one
// second tick keeps relative times current, expires the toast and re-reads
// the log tail while the log pane is open.
//
// # Change target
//
// c opens a two-step prompt pre-filled from the config: trip id then feed URL
// for the gtfs backend, train then origin station for departures. esc at
// either step closes the prompt with no side effects. enter on the second
// step hands both values to Session.ChangeTarget, which saves the config and
// restarts polling.
//
// # Themes
//
// Nightfox, Kanagawa and Slate. T cycles them and saves the choice to the
// config theme key.
package ui
