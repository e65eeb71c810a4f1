package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tripbar/internal/config"
	"github.com/five82/tripbar/internal/state"
	"github.com/five82/tripbar/internal/status"
	"github.com/five82/tripbar/internal/transit"
)

type fakeSession struct {
	mu        sync.Mutex
	refreshes int
	changes   [][2]string
}

func (f *fakeSession) Refresh(context.Context) status.Resolution {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return status.Resolve("Trip T1", nil)
}

func (f *fakeSession) ChangeTarget(_ context.Context, target, second string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, [2]string{target, second})
	return nil
}

type memConfig struct {
	cfg   config.Config
	saves int
}

func (m *memConfig) Load() (config.Config, error) { return m.cfg, nil }

func (m *memConfig) Save(cfg config.Config) error {
	m.cfg = cfg
	m.saves++
	return nil
}

func newTestModel(t *testing.T, cfg config.Config) (Model, *fakeSession, *memConfig, *state.Store) {
	t.Helper()
	session := &fakeSession{}
	store := &state.Store{}
	cfgStore := &memConfig{cfg: cfg}
	m := New(context.Background(), Options{
		Store:     store,
		Session:   session,
		Config:    cfgStore,
		ThemeName: cfg.Theme,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), session, cfgStore, store
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func gtfsConfig() config.Config {
	cfg := config.Default()
	cfg.FeedURL = "https://example.com/feed.pb"
	cfg.TripID = "T1"
	return cfg
}

func TestCycleTheme_PersistsChoice(t *testing.T) {
	m, _, cfgStore, _ := newTestModel(t, gtfsConfig())
	if m.theme.Name != "Nightfox" {
		t.Fatalf("initial theme = %q, want Nightfox", m.theme.Name)
	}

	m, cmd := press(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if cmd == nil {
		t.Fatalf("no save command")
	}
	if msg, ok := cmd().(themeSavedMsg); !ok || msg.err != nil {
		t.Fatalf("save msg = %#v", msg)
	}
	if cfgStore.cfg.Theme != "Kanagawa" || cfgStore.saves != 1 {
		t.Fatalf("saved theme = %q (saves=%d)", cfgStore.cfg.Theme, cfgStore.saves)
	}
	if cfgStore.cfg.TripID != "T1" {
		t.Fatalf("theme save clobbered other settings: %+v", cfgStore.cfg)
	}
}

func TestChangeTarget_EscapeCancelsWithoutSideEffects(t *testing.T) {
	for _, step := range []int{1, 2} {
		m, session, cfgStore, _ := newTestModel(t, gtfsConfig())

		m, _ = press(t, m, runes("c"))
		if !m.prompt.active() || m.prompt.input.Value() != "T1" {
			t.Fatalf("prompt = %+v, want first step pre-filled with T1", m.prompt)
		}
		if step == 2 {
			m, _ = press(t, m, enter)
			if m.prompt.step != promptSource || m.prompt.input.Value() != "https://example.com/feed.pb" {
				t.Fatalf("second step = %v %q", m.prompt.step, m.prompt.input.Value())
			}
		}

		m, cmd := press(t, m, esc)
		if m.prompt.active() || cmd != nil {
			t.Fatalf("step %d: esc left prompt open or returned a command", step)
		}
		if len(session.changes) != 0 || cfgStore.saves != 0 {
			t.Fatalf("step %d: cancel had side effects", step)
		}
	}
}

func TestChangeTarget_ConfirmBothSteps(t *testing.T) {
	m, session, _, _ := newTestModel(t, gtfsConfig())

	m, _ = press(t, m, runes("c"))
	m.prompt.input.SetValue("T9")
	m, _ = press(t, m, enter)
	m.prompt.input.SetValue("https://example.com/other.pb")
	m, cmd := press(t, m, enter)

	if m.prompt.active() {
		t.Fatalf("prompt still open after second enter")
	}
	if cmd == nil {
		t.Fatalf("no change command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if len(session.changes) != 1 || session.changes[0] != [2]string{"T9", "https://example.com/other.pb"} {
		t.Fatalf("changes = %v", session.changes)
	}
	if m.toast != "Trip updated" {
		t.Fatalf("toast = %q", m.toast)
	}
}

func TestChangeTarget_DeparturesPrompts(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendDepartures
	cfg.Train = "ICE 123"
	cfg.Origin = "Berlin Hbf"
	m, _, _, _ := newTestModel(t, cfg)

	m, _ = press(t, m, runes("c"))
	if m.prompt.input.Value() != "ICE 123" || !strings.Contains(m.prompt.label(), "Train") {
		t.Fatalf("first step = %q %q", m.prompt.label(), m.prompt.input.Value())
	}
	m, _ = press(t, m, enter)
	if m.prompt.input.Value() != "Berlin Hbf" || m.prompt.label() != "Origin station" {
		t.Fatalf("second step = %q %q", m.prompt.label(), m.prompt.input.Value())
	}
}

func TestChangeTarget_BlankValueKeepsPrompt(t *testing.T) {
	m, session, _, _ := newTestModel(t, config.Default())

	m, _ = press(t, m, runes("c"))
	m, cmd := press(t, m, enter)
	if m.prompt.step != promptTarget || m.prompt.hint == "" || cmd != nil {
		t.Fatalf("blank enter: step=%v hint=%q", m.prompt.step, m.prompt.hint)
	}
	if len(session.changes) != 0 {
		t.Fatalf("blank value reached the session")
	}
}

func TestPrompt_SwallowsGlobalKeys(t *testing.T) {
	m, _, _, _ := newTestModel(t, gtfsConfig())
	m, _ = press(t, m, runes("c"))
	m.prompt.input.SetValue("")
	m, _ = press(t, m, runes("q"))
	if !m.prompt.active() {
		t.Fatalf("q closed the prompt")
	}
	if m.prompt.input.Value() != "q" {
		t.Fatalf("input = %q, want q", m.prompt.input.Value())
	}
}

func TestRefreshKey_CallsSession(t *testing.T) {
	m, session, _, _ := newTestModel(t, gtfsConfig())

	m, cmd := press(t, m, runes("r"))
	if !m.refreshing || cmd == nil {
		t.Fatalf("refresh key: refreshing=%v cmd=%v", m.refreshing, cmd)
	}
	// A second press while in flight is ignored.
	if _, again := press(t, m, runes("r")); again != nil {
		t.Fatalf("second refresh issued while in flight")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if m.refreshing || session.refreshes != 1 {
		t.Fatalf("refreshing=%v refreshes=%d", m.refreshing, session.refreshes)
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _, _ := newTestModel(t, gtfsConfig())
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestSnapshot_NewNotificationRaisesToast(t *testing.T) {
	m, _, _, store := newTestModel(t, gtfsConfig())
	clock := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	store.Render(status.Resolve("Trip T1", &transit.Record{DepartureDelay: transit.Some[int32](300)}))
	store.Show()
	store.Notify("Trip T1: On time → 5 min late")
	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	if m.toast != "Trip T1: On time → 5 min late" {
		t.Fatalf("toast = %q", m.toast)
	}

	// Same snapshot again does not re-raise after expiry.
	clock = clock.Add(toastDuration + time.Second)
	next, _ = m.Update(tickMsg(clock))
	m = next.(Model)
	if m.toast != "" {
		t.Fatalf("toast not expired: %q", m.toast)
	}
	next, _ = m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	if m.toast != "" {
		t.Fatalf("old notification re-raised: %q", m.toast)
	}
}

func TestView_RendersResolution(t *testing.T) {
	m, _, _, store := newTestModel(t, gtfsConfig())
	if !strings.Contains(m.View(), "Starting") {
		t.Fatalf("hidden bar should show Starting")
	}

	store.Render(status.Resolve("Trip T1", &transit.Record{DepartureDelay: transit.Some[int32](125)}))
	store.Show()
	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	view := next.(Model).View()
	for _, want := range []string{"2 min late", "Trip T1", "running 2 min late"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHelp_AnyKeyCloses(t *testing.T) {
	m, _, _, _ := newTestModel(t, gtfsConfig())
	m, _ = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m, _ = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("help still shown")
	}
}

func TestLogs_ToggleAndLoad(t *testing.T) {
	m, _, _, _ := newTestModel(t, gtfsConfig())
	m.logPath = t.TempDir() + "/tripbar.log"

	m, cmd := press(t, m, runes("l"))
	if !m.showLogs || cmd == nil {
		t.Fatalf("log pane not opened")
	}
	next, _ := m.Update(logLinesMsg{lines: []string{"tripbar 2026/01/15 08:30:00 refresh Trip T1 failed: boom"}})
	m = next.(Model)
	if !strings.Contains(m.View(), "failed: boom") {
		t.Fatalf("log line not rendered")
	}

	m, _ = press(t, m, runes("l"))
	if m.showLogs {
		t.Fatalf("log pane not closed")
	}
}
