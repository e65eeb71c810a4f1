package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/five82/tripbar/internal/config"
	"github.com/five82/tripbar/internal/status"
	"github.com/five82/tripbar/internal/transit"
)

// Indicator is the persistent status element a refresh writes to.
type Indicator interface {
	Render(res status.Resolution)
	Show()
}

// Notifier shows a one-shot message to the user.
type Notifier interface {
	Notify(message string)
}

// changeWatcher is implemented by sources that can report edits.
type changeWatcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// saver is implemented by sources that can persist a new config.
type saver interface {
	Save(cfg config.Config) error
}

// SessionOptions wires a Session to its collaborators.
type SessionOptions struct {
	Source    config.Source
	Feed      transit.FeedFetcher
	Board     transit.BoardFetcher
	Indicator Indicator
	Notifier  Notifier
	// PollEvery overrides the configured interval when positive.
	PollEvery time.Duration
}

// Session owns the polling timer and the last observed resolution.
type Session struct {
	source    config.Source
	feed      transit.FeedFetcher
	board     transit.BoardFetcher
	indicator Indicator
	notifier  Notifier
	pollEvery time.Duration

	// refreshMu serializes refreshes and guards last, shown and checking.
	refreshMu sync.Mutex
	last      status.Resolution
	// shown is the last non-transient resolution handed to the indicator.
	shown    status.Resolution
	checking bool

	// timerMu guards the timer handle; at most one timer goroutine is live.
	timerMu   sync.Mutex
	stopTimer context.CancelFunc
	timerDone chan struct{}
	closed    bool
}

// NewSession builds a Session. Nil clients fall back to the default HTTP
// clients; a nil notifier drops notifications.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Source == nil {
		return nil, errors.New("config source is required")
	}
	if opts.Indicator == nil {
		return nil, errors.New("indicator is required")
	}
	s := &Session{
		source:    opts.Source,
		feed:      opts.Feed,
		board:     opts.Board,
		indicator: opts.Indicator,
		notifier:  opts.Notifier,
		pollEvery: opts.PollEvery,
	}
	if s.feed == nil {
		s.feed = transit.NewFeedClient()
	}
	if s.board == nil {
		s.board = transit.NewBoardClient()
	}
	return s, nil
}

// Refresh fetches, resolves and publishes the current status once.
func (s *Session) Refresh(ctx context.Context) status.Resolution {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	res, _ := s.refreshLocked(ctx)
	return res
}

// Start begins polling. It is equivalent to Restart.
func (s *Session) Start(ctx context.Context) {
	s.Restart(ctx)
}

// Restart cancels any running timer, forgets the last observed state,
// refreshes immediately and arms a new timer when the config is complete.
func (s *Session) Restart(ctx context.Context) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.closed {
		return
	}
	s.stopLocked()

	s.refreshMu.Lock()
	s.last = status.Resolution{}
	_, cfg := s.refreshLocked(ctx)
	s.refreshMu.Unlock()

	if !cfg.Complete() {
		return
	}
	s.startLocked(ctx, s.interval(cfg))
}

// Close stops the timer and waits for it to exit. No refresh is started by
// the session afterwards.
func (s *Session) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.closed = true
	s.stopLocked()
}

// Polling reports whether a timer is armed.
func (s *Session) Polling() bool {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	return s.stopTimer != nil
}

// ChangeTarget persists a new target and restarts polling. For the gtfs
// backend target is the trip id and second the feed URL; for departures they
// are the train and the origin station.
func (s *Session) ChangeTarget(ctx context.Context, target, second string) error {
	store, ok := s.source.(saver)
	if !ok {
		return errors.New("config source is read-only")
	}
	cfg, err := s.source.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Backend == config.BackendDepartures {
		cfg.Train, cfg.Origin = target, second
	} else {
		cfg.TripID, cfg.FeedURL = target, second
	}
	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	log.Printf("target changed to %q", cfg.Target())
	s.Restart(ctx)
	return nil
}

// WatchConfig restarts polling whenever the config source reports a change.
// It returns when ctx is done. Sources that cannot detect changes are ignored.
func (s *Session) WatchConfig(ctx context.Context) error {
	watcher, ok := s.source.(changeWatcher)
	if !ok {
		return nil
	}
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			log.Printf("config changed; restarting poller")
			s.Restart(ctx)
		}
	}
}

func (s *Session) interval(cfg config.Config) time.Duration {
	if s.pollEvery > 0 {
		return s.pollEvery
	}
	return cfg.Interval()
}

func (s *Session) startLocked(ctx context.Context, every time.Duration) {
	timerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.stopTimer, s.timerDone = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-timerCtx.Done():
				return
			case <-ticker.C:
				s.tick(timerCtx)
			}
		}
	}()
}

func (s *Session) stopLocked() {
	if s.stopTimer == nil {
		return
	}
	s.stopTimer()
	<-s.timerDone
	s.stopTimer, s.timerDone = nil, nil
}

// tick drops the refresh when one is already in flight.
func (s *Session) tick(ctx context.Context) {
	if !s.refreshMu.TryLock() {
		log.Printf("refresh still in flight; skipping tick")
		return
	}
	defer s.refreshMu.Unlock()
	s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) (status.Resolution, config.Config) {
	cfg, err := s.source.Load()
	if err != nil {
		log.Printf("config load failed: %v", err)
		res := status.ConfigInvalid(err)
		s.publish(res)
		return res, config.Config{}
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		res := status.ConfigMissing(missing)
		s.publish(res)
		return res, cfg
	}

	target := cfg.Target()
	records, key, match, err := s.fetch(ctx, cfg, target)
	if err != nil {
		if ctx.Err() != nil {
			return s.abandon(target, err), cfg
		}
		log.Printf("refresh %s failed: %v", target, err)
		res := status.APIError(target, err)
		s.publish(res)
		return res, cfg
	}

	res := status.Resolve(target, status.Match(records, key, match))
	s.publish(res)
	if cfg.Notify && s.notifier != nil {
		if msg, ok := status.Transition(s.last, res); ok {
			s.notifier.Notify(msg)
		}
	}
	s.last = res
	return res, cfg
}

func (s *Session) fetch(ctx context.Context, cfg config.Config, target string) ([]transit.Record, string, status.Matcher, error) {
	switch cfg.Backend {
	case config.BackendDepartures:
		s.publish(status.Checking(target))
		station, err := s.board.ResolveStation(ctx, cfg.APIURL, cfg.Origin)
		if err != nil {
			return nil, "", nil, err
		}
		records, err := s.board.Departures(ctx, cfg.APIURL, station.ID, cfg.Duration())
		if err != nil {
			return nil, "", nil, err
		}
		return records, cfg.Train, status.LineContains, nil
	default:
		records, err := s.feed.FetchRecords(ctx, cfg.FeedURL)
		if err != nil {
			return nil, "", nil, err
		}
		return records, cfg.TripID, status.ExactID, nil
	}
}

// abandon ends a cancelled refresh. A checking placeholder is replaced by
// whatever was on screen before it; with nothing to restore the cause is shown
// as an api-error.
func (s *Session) abandon(target string, cause error) status.Resolution {
	if s.shown.State == "" {
		res := status.APIError(target, cause)
		s.publish(res)
		return res
	}
	if s.checking {
		s.publish(s.shown)
	}
	return s.shown
}

func (s *Session) publish(res status.Resolution) {
	s.indicator.Render(res)
	s.indicator.Show()
	s.checking = res.State == status.StateChecking
	if !s.checking {
		s.shown = res
	}
}
