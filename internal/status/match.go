package status

import (
	"strings"

	"github.com/five82/tripbar/internal/transit"
)

// Matcher decides whether a record is the configured target.
type Matcher func(rec transit.Record, target string) bool

// ExactID matches on trip id.
func ExactID(rec transit.Record, target string) bool {
	return rec.ID == target
}

// LineContains matches when the line name contains target, ignoring case.
func LineContains(rec transit.Record, target string) bool {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rec.Line), target)
}

// Match returns the first record accepted by match, or nil.
func Match(records []transit.Record, target string, match Matcher) *transit.Record {
	for i := range records {
		if match(records[i], target) {
			return &records[i]
		}
	}
	return nil
}
