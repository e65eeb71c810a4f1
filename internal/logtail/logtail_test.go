package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tripbar.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("tripbar 2026/01/15 08:30:%02d.000000 refresh %d", i, i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{"zero reads nothing", 0, nil},
		{"negative reads nothing", -1, nil},
		{"partial", 5, all[5:]},
		{"exact", 10, all},
		{"more than exists", 20, all},
		{"wraps", 3, all[7:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read missing = %v, %v; want nil, nil", lines, err)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"tripbar 2026/01/15 08:30:00 refresh Trip T1 failed: status 503", LevelError},
		{"tripbar 2026/01/15 08:30:00 status api: listen tcp: address in use", LevelInfo},
		{"tripbar 2026/01/15 08:30:00 refresh still in flight; skipping tick", LevelWarn},
		{"tripbar 2026/01/15 08:30:00 config changed; restarting poller", LevelInfo},
		{"tripbar 2026/01/15 08:30:00 config load failed: parse config", LevelError},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := Level(tt.line); got != tt.want {
			t.Errorf("Level(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
