package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func bindingItem(b key.Binding) helpItem {
	h := b.Help()
	return helpItem{key: h.Key, desc: h.Desc}
}

func (m Model) helpSections() []helpSection {
	k := m.keys
	return []helpSection{
		{
			title: "Trip",
			items: []helpItem{
				bindingItem(k.Refresh),
				bindingItem(k.ChangeTarget),
				{"esc", "Cancel the prompt"},
			},
		},
		{
			title: "Logs",
			items: []helpItem{
				bindingItem(k.ToggleLogs),
				{"j/k", "Scroll"},
				{"g/G", "Oldest/newest"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				bindingItem(k.CycleTheme),
				bindingItem(k.Help),
				{"q/ctrl+c", "Quit"},
			},
		},
	}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	sections := m.helpSections()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := styles.WarnText.Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40).
		Render(b.String())

	height := m.height
	if height <= 0 {
		height = lipgloss.Height(modal)
	}
	return lipgloss.Place(m.contentWidth(), height, lipgloss.Center, lipgloss.Center, modal)
}
