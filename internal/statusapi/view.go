package statusapi

import (
	"time"

	"github.com/five82/tripbar/internal/state"
)

type statusView struct {
	State             string             `json:"state"`
	Text              string             `json:"text"`
	Tooltip           string             `json:"tooltip"`
	Severity          string             `json:"severity"`
	Target            string             `json:"target,omitempty"`
	DelayMinutes      int                `json:"delayMinutes"`
	Departure         *time.Time         `json:"departure,omitempty"`
	Visible           bool               `json:"visible"`
	Stale             bool               `json:"stale"`
	LastUpdated       *time.Time         `json:"lastUpdated,omitempty"`
	Refreshes         int                `json:"refreshes"`
	ConsecutiveErrors int                `json:"consecutiveErrors"`
	Notifications     []notificationView `json:"notifications"`
}

type notificationView struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func newStatusView(snap state.Snapshot) statusView {
	res := snap.Resolution
	view := statusView{
		State:             string(res.State),
		Text:              res.Text,
		Tooltip:           res.Tooltip,
		Severity:          string(res.Severity),
		Target:            res.Target,
		DelayMinutes:      res.DelayMinutes,
		Visible:           snap.Visible,
		Stale:             snap.IsStale(),
		Refreshes:         snap.Refreshes,
		ConsecutiveErrors: snap.ConsecutiveErrors,
		Notifications:     make([]notificationView, 0, len(snap.Notifications)),
	}
	if when, ok := res.Departure.Get(); ok {
		view.Departure = &when
	}
	if !snap.LastUpdated.IsZero() {
		updated := snap.LastUpdated
		view.LastUpdated = &updated
	}
	for _, n := range snap.Notifications {
		view.Notifications = append(view.Notifications, notificationView{Message: n.Message, At: n.At})
	}
	return view
}
