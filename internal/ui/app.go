package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tripbar/internal/state"
	"github.com/five82/tripbar/internal/status"
)

const (
	uiTick        = time.Second
	toastDuration = 5 * time.Second
	logTailLines  = 500
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	store   *state.Store
	session Session
	config  ConfigStore
	logPath string

	theme  Theme
	keys   keyMap
	width  int
	height int

	snapshot   state.Snapshot
	refreshing bool

	// Toast for the latest notification or a one-off message.
	toast      string
	toastUntil time.Time
	seenNotice time.Time

	showHelp bool
	showLogs bool
	logView  viewport.Model
	logLines []string

	prompt promptState
	now    func() time.Time
}

// New creates a Model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		ctx:     ctx,
		store:   opts.Store,
		session: opts.Session,
		config:  opts.Config,
		logPath: opts.LogPath,
		theme:   GetTheme(opts.ThemeName),
		keys:    DefaultKeyMap(),
		logView: viewport.New(0, 0),
		prompt:  newPromptState(),
		now:     time.Now,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
		if latest, ok := m.snapshot.LatestNotification(); ok {
			m.seenNotice = latest.At
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(uiTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogView()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		return m, nil

	case targetChangedMsg:
		if msg.err != nil {
			m.flash("Could not change trip: " + msg.err.Error())
		} else {
			m.flash("Trip updated")
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.flash("Theme not saved: " + msg.err.Error())
		}
		return m, nil

	case logLinesMsg:
		m.setLogLines(msg.lines)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt.active() {
		return m.handlePromptKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, saveThemeCmd(m.config, m.theme.Name)

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		m.flash("Fetching latest trip delay…")
		return m, refreshCmd(m.ctx, m.session)

	case key.Matches(msg, m.keys.ChangeTarget):
		return m.openPrompt()

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			m.resizeLogView()
			return m, readLogsCmd(m.logPath, logTailLines)
		}
		return m, nil
	}

	if m.showLogs {
		return m.handleLogKey(msg)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(uiTick)}
	if !m.toastUntil.IsZero() && m.now().After(m.toastUntil) {
		m.toast = ""
		m.toastUntil = time.Time{}
	}
	if m.showLogs {
		cmds = append(cmds, readLogsCmd(m.logPath, logTailLines))
	}
	return m, tea.Batch(cmds...)
}

// applySnapshot stores the snapshot and raises a toast for any notification
// newer than the last one shown.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	latest, ok := snap.LatestNotification()
	if !ok || !latest.At.After(m.seenNotice) {
		return
	}
	m.seenNotice = latest.At
	m.flash(latest.Message)
}

func (m *Model) flash(message string) {
	m.toast = message
	m.toastUntil = m.now().Add(toastDuration)
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderBar())
	b.WriteString("\n")
	b.WriteString(m.renderTooltip())
	b.WriteString("\n")
	if line := m.renderPromptOrToast(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.showLogs {
		b.WriteString(m.renderLogs())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg status.Resolution

type targetChangedMsg struct{ err error }

type themeSavedMsg struct{ err error }

type logLinesMsg struct{ lines []string }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, session Session) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg(session.Refresh(ctx))
	}
}

func changeTargetCmd(ctx context.Context, session Session, target, second string) tea.Cmd {
	return func() tea.Msg {
		return targetChangedMsg{err: session.ChangeTarget(ctx, target, second)}
	}
}

func saveThemeCmd(store ConfigStore, name string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, err := store.Load()
		if err != nil {
			return themeSavedMsg{err: err}
		}
		cfg.Theme = name
		return themeSavedMsg{err: store.Save(cfg)}
	}
}
