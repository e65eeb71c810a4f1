package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Severity levels reported by Level.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var (
	errorMarkers = []string{"error", "failed", "fatal", "panic"}
	warnMarkers  = []string{"warn", "skipping", "retry", "stale"}
)

// Read returns at most maxLines from the end of the file at path. A missing
// file reads as empty.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	total := 0
	for scanner.Scan() {
		ring[total%maxLines] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if total <= maxLines {
		return ring[:total:total], nil
	}
	start := total % maxLines
	lines := make([]string, 0, maxLines)
	lines = append(lines, ring[start:]...)
	lines = append(lines, ring[:start]...)
	return lines, nil
}

// Level classifies a standard logger line by the words it contains.
func Level(line string) string {
	lower := strings.ToLower(line)
	for _, marker := range errorMarkers {
		if strings.Contains(lower, marker) {
			return LevelError
		}
	}
	for _, marker := range warnMarkers {
		if strings.Contains(lower, marker) {
			return LevelWarn
		}
	}
	return LevelInfo
}
