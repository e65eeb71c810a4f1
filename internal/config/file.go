package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source yields the current configuration. Implementations must re-read their
// backing store on every call.
type Source interface {
	Load() (Config, error)
}

// File is a Source backed by a config file on disk.
type File struct {
	Path string

	mu   sync.Mutex
	seen fingerprint
}

type fingerprint struct {
	exists  bool
	size    int64
	modTime int64
}

var _ Source = (*File)(nil)

// Bursts of events from one save are collapsed into a single change.
const settleDelay = 100 * time.Millisecond

// NewFile returns a File for path and records its current fingerprint so the
// first Changed call only reports edits made after construction.
func NewFile(path string) *File {
	f := &File{Path: path}
	f.seen = f.stat()
	return f
}

// Load reads the file fresh.
func (f *File) Load() (Config, error) {
	return Load(f.Path)
}

// Save writes cfg and records the new fingerprint, so a caller's own write is
// not reported by Changed or Watch.
func (f *File) Save(cfg Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := Save(f.Path, cfg); err != nil {
		return err
	}
	f.seen = f.stat()
	return nil
}

// Changed reports whether the file was created, removed or modified since the
// previous call.
func (f *File) Changed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.stat()
	if current == f.seen {
		return false
	}
	f.seen = current
	return true
}

// Watch sends on the returned channel after each external edit until ctx is
// done. The parent directory is watched so saves that replace the file by
// rename are seen.
func (f *File) Watch(ctx context.Context) (<-chan struct{}, error) {
	resolved, err := resolvePath(f.Path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		name := filepath.Base(resolved)
		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name || event.Op == fsnotify.Chmod {
					continue
				}
				settle = time.After(settleDelay)
			case <-settle:
				settle = nil
				if !f.Changed() {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config watch: %v", err)
			}
		}
	}()
	return changes, nil
}

func (f *File) stat() fingerprint {
	resolved, err := resolvePath(f.Path)
	if err != nil {
		return fingerprint{}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return fingerprint{}
	}
	return fingerprint{exists: true, size: info.Size(), modTime: info.ModTime().UnixNano()}
}
