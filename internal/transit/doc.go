// Package transit fetches real-time transit data and normalizes it into a flat
// list of Records.
//
// Two backends are supported. FeedClient decodes GTFS-Realtime protobuf feeds
// with the MobilityData bindings. BoardClient talks to a transport.rest style
// JSON API: it resolves a station name to an id, then lists departures.
// Departure boards come back in several top-level shapes; NormalizeBoard tags
// which one was seen and always yields the same records.
//
// Failures are reported as *ResolutionError, *FetchError, *DecodeError or
// *FormatError so callers can tell them apart with errors.As.
package transit
