package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/five82/tripbar/internal/transit"
)

// State is the display classification of a refresh.
type State string

const (
	StateConfigMissing State = "config-missing"
	StateChecking      State = "checking"
	StateNotFound      State = "not-found"
	StateCancelled     State = "cancelled"
	StateOnTime        State = "on-time"
	StateEarly         State = "early"
	StateLate          State = "late"
	StateAPIError      State = "api-error"
)

// Severity hints how prominently the indicator should be colored.
type Severity string

const (
	SeverityOK     Severity = "ok"
	SeverityWarn   Severity = "warn"
	SeverityDanger Severity = "danger"
	SeverityMuted  Severity = "muted"
)

const glyph = "🚆"

// Resolution is the outcome of one refresh, ready for an indicator.
type Resolution struct {
	State        State
	Text         string
	Tooltip      string
	Severity     Severity
	Target       string
	Departure    transit.Optional[time.Time]
	DelayMinutes int // signed; only meaningful for early and late
}

// Key identifies the resolution for change detection. Early and late carry
// their magnitude so a delay growing from 2 to 5 minutes counts as a change.
func (r Resolution) Key() string {
	switch r.State {
	case StateLate:
		return fmt.Sprintf("late-by-%d", r.DelayMinutes)
	case StateEarly:
		return fmt.Sprintf("early-by-%d", -r.DelayMinutes)
	default:
		return string(r.State)
	}
}

// Final reports whether r is the result of a completed resolution, as opposed
// to a transient, configuration or transport state.
func (r Resolution) Final() bool {
	switch r.State {
	case StateNotFound, StateCancelled, StateOnTime, StateEarly, StateLate:
		return true
	}
	return false
}

// DelayMinutes converts seconds to whole minutes, rounding halves up.
func DelayMinutes(seconds int32) int {
	return int(math.Floor(float64(seconds)/60 + 0.5))
}

// Resolve classifies the matched record. A nil record means the target was
// not in the response.
func Resolve(target string, rec *transit.Record) Resolution {
	if rec == nil {
		return Resolution{
			State:    StateNotFound,
			Text:     glyph + " Not found",
			Tooltip:  fmt.Sprintf("%s was not found in the live data. It may have already finished or not started yet.", target),
			Severity: SeverityMuted,
			Target:   target,
		}
	}

	res := Resolution{Target: target, Departure: rec.When}
	if rec.Cancelled {
		res.State = StateCancelled
		res.Text = glyph + " CANCELLED"
		res.Tooltip = fmt.Sprintf("%s has been cancelled.", target)
		res.Severity = SeverityDanger
		return res
	}

	seconds, ok := rec.Delay().Get()
	if !ok {
		res.State = StateOnTime
		res.Text = glyph + " On time"
		res.Tooltip = withDeparture(fmt.Sprintf("%s is running as scheduled.", target), rec.When)
		res.Severity = SeverityOK
		return res
	}

	minutes := DelayMinutes(seconds)
	res.DelayMinutes = minutes
	switch {
	case minutes > 0:
		res.State = StateLate
		res.Text = fmt.Sprintf("%s %s late", glyph, minutesLabel(minutes))
		res.Tooltip = fmt.Sprintf("%s is running %s late.", target, minutesLabel(minutes))
		res.Severity = SeverityWarn
		if minutes >= 15 {
			res.Severity = SeverityDanger
		}
	case minutes < 0:
		res.State = StateEarly
		res.Text = fmt.Sprintf("%s %s early", glyph, minutesLabel(-minutes))
		res.Tooltip = fmt.Sprintf("%s is running %s early.", target, minutesLabel(-minutes))
		res.Severity = SeverityOK
	default:
		res.State = StateOnTime
		res.Text = glyph + " On time"
		res.Tooltip = fmt.Sprintf("%s is on time.", target)
		res.Severity = SeverityOK
	}
	res.Tooltip = withDeparture(res.Tooltip, rec.When)
	return res
}

// ConfigMissing prompts the user to fill in the listed settings.
func ConfigMissing(missing []string) Resolution {
	return Resolution{
		State:    StateConfigMissing,
		Text:     "Transit: config missing",
		Tooltip:  "Set " + strings.Join(missing, " and ") + " in the tripbar config, or press c to enter them.",
		Severity: SeverityMuted,
	}
}

// ConfigInvalid is shown when the config cannot be read. It shares the
// config-missing state so no lookup is attempted.
func ConfigInvalid(err error) Resolution {
	return Resolution{
		State:    StateConfigMissing,
		Text:     "Transit: config error",
		Tooltip:  "Fix the tripbar config: " + err.Error(),
		Severity: SeverityDanger,
	}
}

// Checking is shown while a lookup is in flight.
func Checking(target string) Resolution {
	return Resolution{
		State:    StateChecking,
		Text:     glyph + " Checking…",
		Tooltip:  "Looking up " + target + "…",
		Severity: SeverityMuted,
		Target:   target,
	}
}

// APIError keeps the display short and moves the cause into the tooltip.
func APIError(target string, err error) Resolution {
	return Resolution{
		State:    StateAPIError,
		Text:     glyph + " Transit error",
		Tooltip:  "Could not fetch or parse live data: " + err.Error(),
		Severity: SeverityDanger,
		Target:   target,
	}
}

// Transition returns the notification for moving from prev to next. No
// notification fires when prev is the zero Resolution (nothing observed yet)
// or when the keys match.
func Transition(prev, next Resolution) (string, bool) {
	if prev.Key() == "" || prev.Key() == next.Key() {
		return "", false
	}
	return fmt.Sprintf("%s: %s → %s", next.Target, label(prev), label(next)), true
}

func label(r Resolution) string {
	return strings.TrimSpace(strings.TrimPrefix(r.Text, glyph))
}

func minutesLabel(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

func withDeparture(tooltip string, when transit.Optional[time.Time]) string {
	if ts, ok := when.Get(); ok {
		return tooltip + " Departure " + ts.Local().Format("15:04") + "."
	}
	return tooltip
}
