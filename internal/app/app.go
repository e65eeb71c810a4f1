package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tripbar/internal/config"
	"github.com/five82/tripbar/internal/state"
	"github.com/five82/tripbar/internal/status"
	"github.com/five82/tripbar/internal/statusapi"
	"github.com/five82/tripbar/internal/ui"
)

// ErrUnresolved is returned by a one-shot run that ended in api-error or
// config-missing.
var ErrUnresolved = errors.New("trip status unresolved")

// Options configure the tripbar application.
type Options struct {
	ConfigPath string // empty uses ~/.config/tripbar/config.toml
	LogPath    string // empty uses ~/.local/state/tripbar/tripbar.log
	PollEvery  int    // seconds; zero uses the configured interval
	Once       bool   // refresh once, print, exit
	ServeAddr  string // optional statusapi listen address
	Stdout     io.Writer
}

// Run boots tripbar until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	file := config.NewFile(path)
	// Surface syntax errors at startup; later edits are reported in the bar.
	cfg, err := file.Load()
	if err != nil {
		return err
	}

	if opts.Once {
		return runOnce(ctx, file, opts)
	}

	logPath, err := resolveLogPath(opts.LogPath)
	if err != nil {
		return err
	}
	logFile, err := tea.LogToFile(logPath, "tripbar")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	store := &state.Store{}
	session, err := NewSession(SessionOptions{
		Source:    file,
		Indicator: store,
		Notifier:  store,
		PollEvery: time.Duration(opts.PollEvery) * time.Second,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.ServeAddr != "" {
		srv := statusapi.New(store, session)
		go func() {
			if err := srv.ListenAndServe(ctx, opts.ServeAddr); err != nil {
				log.Printf("status api: %v", err)
			}
		}()
	}

	go session.Start(ctx)
	go func() {
		if err := session.WatchConfig(ctx); err != nil {
			log.Printf("config watch disabled: %v", err)
		}
	}()

	return ui.Run(ctx, ui.Options{
		Store:     store,
		Session:   session,
		Config:    file,
		ThemeName: cfg.Theme,
		LogPath:   logPath,
	})
}

func runOnce(ctx context.Context, file *config.File, opts Options) error {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	console := &consoleIndicator{out: out}
	session, err := NewSession(SessionOptions{
		Source:    file,
		Indicator: console,
		PollEvery: time.Duration(opts.PollEvery) * time.Second,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	res := session.Refresh(ctx)
	console.print(res)
	switch res.State {
	case status.StateAPIError, status.StateConfigMissing:
		return ErrUnresolved
	}
	return nil
}

// consoleIndicator prints only the final resolution of a one-shot refresh.
type consoleIndicator struct {
	out io.Writer
}

func (c *consoleIndicator) Render(status.Resolution) {}

func (c *consoleIndicator) Show() {}

func (c *consoleIndicator) print(res status.Resolution) {
	fmt.Fprintln(c.out, res.Text)
	if res.Tooltip != "" {
		fmt.Fprintln(c.out, res.Tooltip)
	}
}

func resolveLogPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve log path: %w", err)
		}
		path = filepath.Join(home, ".local", "state", "tripbar", "tripbar.log")
	} else {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return "", err
		}
		path = expanded
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return path, nil
}
