package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tripbar/internal/config"
)

type promptStep int

const (
	promptClosed promptStep = iota
	promptTarget
	promptSource
)

// promptState drives the two-step change-target prompt. Nothing is saved
// until the second value is confirmed.
type promptState struct {
	step    promptStep
	backend string
	input   textinput.Model
	target  string
	source  string // prefill for the second step
	hint    string
}

func newPromptState() promptState {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 48
	return promptState{input: ti}
}

func (p promptState) active() bool {
	return p.step != promptClosed
}

func (p promptState) label() string {
	departures := p.backend == config.BackendDepartures
	switch {
	case p.step == promptTarget && departures:
		return "Train (e.g. ICE 123)"
	case p.step == promptTarget:
		return "Trip ID"
	case departures:
		return "Origin station"
	default:
		return "GTFS-RT feed URL"
	}
}

func (m Model) openPrompt() (tea.Model, tea.Cmd) {
	if m.config == nil {
		m.flash("Config is read-only")
		return m, nil
	}
	cfg, err := m.config.Load()
	if err != nil {
		m.flash("Could not read config: " + err.Error())
		return m, nil
	}

	p := newPromptState()
	p.backend = cfg.Backend
	p.step = promptTarget
	if cfg.Backend == config.BackendDepartures {
		p.input.SetValue(cfg.Train)
		p.source = cfg.Origin
	} else {
		p.input.SetValue(cfg.TripID)
		p.source = cfg.FeedURL
	}
	p.input.Placeholder = p.label()
	p.input.CursorEnd()
	cmd := p.input.Focus()
	m.prompt = p
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), msg.String() == "ctrl+c":
		m.prompt = newPromptState()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.prompt.input.Value())
		if value == "" {
			m.prompt.hint = "A value is required (esc to cancel)"
			return m, nil
		}
		if m.prompt.step == promptTarget {
			m.prompt.target = value
			m.prompt.step = promptSource
			m.prompt.hint = ""
			m.prompt.input.SetValue(m.prompt.source)
			m.prompt.input.Placeholder = m.prompt.label()
			m.prompt.input.CursorEnd()
			return m, nil
		}
		target := m.prompt.target
		m.prompt = newPromptState()
		return m, changeTargetCmd(m.ctx, m.session, target, value)
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m Model) renderPrompt() string {
	styles := m.theme.Styles()
	step := "1/2"
	if m.prompt.step == promptSource {
		step = "2/2"
	}
	line := styles.AccentText.Render(m.prompt.label()+" ["+step+"]") + " " + m.prompt.input.View()
	if m.prompt.hint != "" {
		line += "  " + styles.WarnText.Render(m.prompt.hint)
	}
	return line
}
