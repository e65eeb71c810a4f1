package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/tripbar/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (defaults to ~/.config/tripbar/config.toml)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (overrides poll_seconds)")
	once := flag.Bool("once", false, "refresh once, print the status and exit")
	serveAddr := flag.String("serve", "", "serve the status API on this address, e.g. 127.0.0.1:7878")
	logPath := flag.String("log", "", "log file path (defaults to ~/.local/state/tripbar/tripbar.log)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		LogPath:    *logPath,
		Once:       *once,
		ServeAddr:  *serveAddr,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		if errors.Is(err, app.ErrUnresolved) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "tripbar: %v\n", err)
		return 1
	}
	return 0
}
