package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tripbar/internal/config"
	"github.com/five82/tripbar/internal/state"
	"github.com/five82/tripbar/internal/status"
)

// Session is the poller the UI drives.
type Session interface {
	Refresh(ctx context.Context) status.Resolution
	ChangeTarget(ctx context.Context, target, second string) error
}

// ConfigStore reads and persists the user config.
type ConfigStore interface {
	Load() (config.Config, error)
	Save(cfg config.Config) error
}

// Options configure the UI runtime.
type Options struct {
	Store     *state.Store
	Session   Session
	Config    ConfigStore
	ThemeName string
	LogPath   string
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	if opts.Session == nil {
		return fmt.Errorf("ui requires a session")
	}

	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	store := opts.Store
	store.OnChange(func() {
		p.Send(snapshotMsg(store.Snapshot()))
	})
	defer store.OnChange(nil)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
