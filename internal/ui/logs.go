package ui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tripbar/internal/logtail"
)

// Rows used by the bar, tooltip, toast and footer around the log box.
const chromeRows = 6

func (m *Model) resizeLogView() {
	width := m.contentWidth() - 4
	height := m.height - chromeRows - 2
	if width < 10 {
		width = 10
	}
	if height < 3 {
		height = 3
	}
	m.logView.Width = width
	m.logView.Height = height
}

func (m *Model) setLogLines(lines []string) {
	follow := m.logView.AtBottom() || len(m.logLines) == 0
	m.logLines = lines
	m.logView.SetContent(m.renderLogContent())
	if follow {
		m.logView.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	if len(m.logLines) == 0 {
		return m.theme.Styles().FaintText.Render("No log output yet.")
	}
	var b strings.Builder
	for i, line := range m.logLines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.levelStyle(logtail.Level(line)).Render(line))
	}
	return b.String()
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case logtail.LevelError:
		return styles.DangerText
	case logtail.LevelWarn:
		return styles.WarnText
	default:
		return styles.Text
	}
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + " " + styles.FaintText.Render(m.logPath)
	return title + "\n" + styles.Box.Width(m.logView.Width+2).Render(m.logView.View())
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logView.ScrollUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.logView.ScrollDown(1)
		return m, nil
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func readLogsCmd(path string, limit int) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, limit)
		if err != nil {
			log.Printf("read log tail: %v", err)
		}
		return logLinesMsg{lines: lines}
	}
}
