package status

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/five82/tripbar/internal/transit"
)

func TestDelayMinutes_RoundsToNearest(t *testing.T) {
	cases := []struct {
		seconds int32
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{125, 2},
		{-40, -1},
		{-29, 0},
		{90, 2},
		{-90, -1},
		{-150, -2},
		{3600, 60},
	}
	for _, tc := range cases {
		if got := DelayMinutes(tc.seconds); got != tc.want {
			t.Errorf("DelayMinutes(%d) = %d, want %d", tc.seconds, got, tc.want)
		}
	}
}

func TestResolve_Classification(t *testing.T) {
	departAt := time.Date(2026, 1, 15, 8, 30, 0, 0, time.Local)
	cases := []struct {
		name    string
		rec     *transit.Record
		state   State
		key     string
		minutes int
	}{
		{"not found", nil, StateNotFound, "not-found", 0},
		{"late 125s", &transit.Record{DepartureDelay: transit.Some[int32](125)}, StateLate, "late-by-2", 2},
		{"early -40s", &transit.Record{DepartureDelay: transit.Some[int32](-40)}, StateEarly, "early-by-1", -1},
		{"zero delay", &transit.Record{DepartureDelay: transit.Some[int32](0)}, StateOnTime, "on-time", 0},
		{"rounds to zero", &transit.Record{DepartureDelay: transit.Some[int32](20)}, StateOnTime, "on-time", 0},
		{"no delay fields", &transit.Record{}, StateOnTime, "on-time", 0},
		{"arrival fallback", &transit.Record{ArrivalDelay: transit.Some[int32](300)}, StateLate, "late-by-5", 5},
		{"departure wins over arrival", &transit.Record{DepartureDelay: transit.Some[int32](0), ArrivalDelay: transit.Some[int32](600)}, StateOnTime, "on-time", 0},
		{"cancelled ignores delay", &transit.Record{Cancelled: true, DepartureDelay: transit.Some[int32](900)}, StateCancelled, "cancelled", 0},
		{"with departure time", &transit.Record{DepartureDelay: transit.Some[int32](60), When: transit.Some(departAt)}, StateLate, "late-by-1", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve("Trip T1", tc.rec)
			if res.State != tc.state {
				t.Fatalf("State = %q, want %q", res.State, tc.state)
			}
			if res.Key() != tc.key {
				t.Fatalf("Key = %q, want %q", res.Key(), tc.key)
			}
			if res.DelayMinutes != tc.minutes {
				t.Fatalf("DelayMinutes = %d, want %d", res.DelayMinutes, tc.minutes)
			}
			if res.Text == "" || res.Tooltip == "" {
				t.Fatalf("Text/Tooltip empty: %+v", res)
			}
			if res.Target != "Trip T1" {
				t.Fatalf("Target = %q, want Trip T1", res.Target)
			}
			if !res.Final() {
				t.Fatalf("Final = false for %q", res.State)
			}
		})
	}
}

func TestResolve_TooltipMentionsDepartureTime(t *testing.T) {
	departAt := time.Date(2026, 1, 15, 8, 30, 0, 0, time.Local)
	res := Resolve("ICE 123", &transit.Record{When: transit.Some(departAt)})
	if !strings.Contains(res.Tooltip, "08:30") {
		t.Fatalf("Tooltip = %q, want it to mention 08:30", res.Tooltip)
	}
	if when, ok := res.Departure.Get(); !ok || !when.Equal(departAt) {
		t.Fatalf("Departure = %v,%v, want %v", when, ok, departAt)
	}
}

func TestResolve_LateSeverityEscalates(t *testing.T) {
	minor := Resolve("x", &transit.Record{DepartureDelay: transit.Some[int32](120)})
	major := Resolve("x", &transit.Record{DepartureDelay: transit.Some[int32](20 * 60)})
	if minor.Severity != SeverityWarn || major.Severity != SeverityDanger {
		t.Fatalf("severities = %q/%q, want warn/danger", minor.Severity, major.Severity)
	}
}

func TestAPIError_KeepsCauseOutOfText(t *testing.T) {
	res := APIError("Trip T1", errors.New("fetch https://example.com: status 503"))
	if res.State != StateAPIError || res.Final() {
		t.Fatalf("res = %+v, want non-final api-error", res)
	}
	if strings.Contains(res.Text, "503") {
		t.Fatalf("Text = %q, must not carry the diagnostic", res.Text)
	}
	if !strings.Contains(res.Tooltip, "503") {
		t.Fatalf("Tooltip = %q, want the diagnostic", res.Tooltip)
	}
}

func TestConfigMissing_ListsFields(t *testing.T) {
	res := ConfigMissing([]string{"feed_url", "trip_id"})
	if res.State != StateConfigMissing {
		t.Fatalf("State = %q", res.State)
	}
	if !strings.Contains(res.Tooltip, "feed_url and trip_id") {
		t.Fatalf("Tooltip = %q, want both fields named", res.Tooltip)
	}
	if Checking("x").Final() || res.Final() {
		t.Fatalf("checking/config-missing must not be final")
	}

	bad := ConfigInvalid(errors.New("parse config: line 3"))
	if bad.State != StateConfigMissing || !strings.Contains(bad.Tooltip, "line 3") {
		t.Fatalf("ConfigInvalid = %+v", bad)
	}
}

func TestTransition(t *testing.T) {
	onTime := Resolve("Trip T1", &transit.Record{})
	late2 := Resolve("Trip T1", &transit.Record{DepartureDelay: transit.Some[int32](125)})
	late5 := Resolve("Trip T1", &transit.Record{DepartureDelay: transit.Some[int32](300)})
	notFound := Resolve("Trip T1", nil)

	if _, ok := Transition(Resolution{}, late2); ok {
		t.Fatalf("first resolution must not notify")
	}
	if _, ok := Transition(late2, late2); ok {
		t.Fatalf("unchanged key must not notify")
	}

	msg, ok := Transition(onTime, late2)
	if !ok {
		t.Fatalf("on-time → late-by-2 did not notify")
	}
	if !strings.Contains(msg, "On time") || !strings.Contains(msg, "2 min late") || !strings.Contains(msg, "Trip T1") {
		t.Fatalf("message = %q, want old and new state with target", msg)
	}

	if _, ok := Transition(late2, late5); !ok {
		t.Fatalf("late-by-2 → late-by-5 did not notify")
	}
	if _, ok := Transition(late5, notFound); !ok {
		t.Fatalf("late → not-found did not notify")
	}
}

func TestMatch_FirstMatchWins(t *testing.T) {
	records := []transit.Record{
		{ID: "a", Line: "RE 1"},
		{ID: "b", Line: "ICE 123"},
		{ID: "c", Line: "ICE 1234"},
		{ID: "b", Line: "dup"},
	}

	if got := Match(records, "b", ExactID); got == nil || got.Line != "ICE 123" {
		t.Fatalf("Match ExactID = %+v, want first b", got)
	}
	if got := Match(records, "ice 123", LineContains); got == nil || got.ID != "b" {
		t.Fatalf("Match LineContains = %+v, want b", got)
	}
	if got := Match(records, "missing", ExactID); got != nil {
		t.Fatalf("Match missing = %+v, want nil", got)
	}
	if got := Match(records, "  ", LineContains); got != nil {
		t.Fatalf("Match blank = %+v, want nil", got)
	}
	if got := Match(nil, "a", ExactID); got != nil {
		t.Fatalf("Match nil = %+v, want nil", got)
	}
}
