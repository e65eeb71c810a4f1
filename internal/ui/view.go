package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// renderBar renders the status bar line: logo, severity badge, target and
// last update time.
func (m Model) renderBar() string {
	styles := m.theme.Styles()
	res := m.snapshot.Resolution

	parts := []string{styles.WarnText.Bold(true).Render("tripbar")}
	if !m.snapshot.Visible {
		parts = append(parts, styles.MutedText.Render("Starting…"))
		return styles.Bar.Width(m.contentWidth()).Render(strings.Join(parts, "  "))
	}

	parts = append(parts, styles.Badge(res.Severity).Render(res.Text))
	if res.Target != "" {
		parts = append(parts, styles.Text.Render(res.Target))
	}
	if m.refreshing {
		parts = append(parts, styles.InfoText.Render("refreshing…"))
	}
	if m.snapshot.IsStale() {
		parts = append(parts, styles.DangerText.Render(fmt.Sprintf("STALE ×%d", m.snapshot.ConsecutiveErrors)))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render(relativeTime(m.snapshot.LastUpdated, m.now())))
	}
	return styles.Bar.Width(m.contentWidth()).Render(strings.Join(parts, "  "))
}

func (m Model) renderTooltip() string {
	styles := m.theme.Styles()
	tooltip := m.snapshot.Resolution.Tooltip
	if tooltip == "" {
		return ""
	}
	return styles.MutedText.Width(m.contentWidth()).Padding(0, 1).Render(tooltip)
}

func (m Model) renderPromptOrToast() string {
	if m.prompt.active() {
		return " " + m.renderPrompt()
	}
	if m.toast == "" {
		return ""
	}
	return " " + m.theme.Styles().Toast.Render(m.toast)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.WarnText.Render(h.Key)+" "+styles.FaintText.Render(h.Desc))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "  "))
}

// relativeTime formats an update time as a clock time with its age.
func relativeTime(at, now time.Time) string {
	label := at.Format("15:04:05")
	since := now.Sub(at)
	switch {
	case since < time.Minute:
		return label + " (now)"
	case since < time.Hour:
		return fmt.Sprintf("%s (%dm ago)", label, int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%s (%dh ago)", label, int(since.Hours()))
	default:
		return label
	}
}
