package ui

import (
	"testing"

	"github.com/five82/tripbar/internal/status"
)

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames = %v, want 3 themes", names)
	}
	name := names[0]
	for i := 0; i < len(names); i++ {
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Fatalf("cycle ended at %q, want %q", name, names[0])
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme fallback = %q, want Nightfox", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q", got)
	}
}

func TestSeverityColor(t *testing.T) {
	th := GetTheme("Kanagawa")
	cases := map[status.Severity]string{
		status.SeverityOK:     th.Success,
		status.SeverityWarn:   th.Warning,
		status.SeverityDanger: th.Danger,
		status.SeverityMuted:  th.Muted,
		"":                    th.Muted,
	}
	for sev, want := range cases {
		if got := th.SeverityColor(sev); got != want {
			t.Errorf("SeverityColor(%q) = %q, want %q", sev, got, want)
		}
	}
}
