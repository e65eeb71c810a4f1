package state

import (
	"sync"
	"time"

	"github.com/five82/tripbar/internal/status"
)

const notificationLimit = 20

// Notification is one transition message.
type Notification struct {
	Message string
	At      time.Time
}

// Snapshot represents the latest indicator contents available to the UI.
type Snapshot struct {
	Resolution        status.Resolution
	Visible           bool
	LastUpdated       time.Time
	Refreshes         int
	ConsecutiveErrors int
	Notifications     []Notification // oldest first
}

// IsStale returns true when the source has failed for multiple refreshes.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveErrors >= 2
}

// LatestNotification returns the most recent notification, if any.
func (s Snapshot) LatestNotification() (Notification, bool) {
	if len(s.Notifications) == 0 {
		return Notification{}, false
	}
	return s.Notifications[len(s.Notifications)-1], true
}

// Store is the indicator and notification sink shared by the poller, the UI
// and the status endpoint. The zero value is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	onChange func()
}

// OnChange registers fn to be called after every write. fn must not block.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Render replaces the displayed resolution.
func (s *Store) Render(res status.Resolution) {
	s.mu.Lock()
	s.snapshot.Resolution = res
	s.snapshot.LastUpdated = time.Now()
	switch res.State {
	case status.StateChecking:
	case status.StateAPIError:
		s.snapshot.Refreshes++
		s.snapshot.ConsecutiveErrors++
	default:
		s.snapshot.Refreshes++
		s.snapshot.ConsecutiveErrors = 0
	}
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// Show makes the indicator visible.
func (s *Store) Show() {
	s.mu.Lock()
	changed := !s.snapshot.Visible
	s.snapshot.Visible = true
	fn := s.onChange
	s.mu.Unlock()
	if changed {
		notify(fn)
	}
}

// Notify records a transition message, keeping the most recent few.
func (s *Store) Notify(message string) {
	s.mu.Lock()
	s.snapshot.Notifications = append(s.snapshot.Notifications, Notification{Message: message, At: time.Now()})
	if over := len(s.snapshot.Notifications) - notificationLimit; over > 0 {
		s.snapshot.Notifications = append([]Notification(nil), s.snapshot.Notifications[over:]...)
	}
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Notifications = cloneNotifications(s.snapshot.Notifications)
	return snap
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}

func cloneNotifications(items []Notification) []Notification {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Notification, len(items))
	copy(dup, items)
	return dup
}
