package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Backend selects which transit source a refresh talks to.
const (
	BackendGTFS       = "gtfs"
	BackendDepartures = "departures"
)

// Config captures the user settings tripbar reads on every refresh.
type Config struct {
	Backend         string `toml:"backend" yaml:"backend" validate:"omitempty,oneof=gtfs departures"`
	FeedURL         string `toml:"feed_url" yaml:"feed_url" validate:"omitempty,url|filepath"`
	TripID          string `toml:"trip_id" yaml:"trip_id"`
	APIURL          string `toml:"api_url" yaml:"api_url" validate:"omitempty,url"`
	Train           string `toml:"train" yaml:"train"`
	Origin          string `toml:"origin" yaml:"origin"`
	DurationMinutes int    `toml:"duration_minutes" yaml:"duration_minutes"`
	PollSeconds     int    `toml:"poll_seconds" yaml:"poll_seconds"`
	Notify          bool   `toml:"notify" yaml:"notify"`
	Theme           string `toml:"theme" yaml:"theme"`
}

const (
	defaultConfigPath      = "~/.config/tripbar/config.toml"
	defaultAPIURL          = "https://v6.db.transport.rest"
	defaultDurationMinutes = 60
	defaultPollSeconds     = 60
	defaultTheme           = "Nightfox"
)

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:         BackendGTFS,
		APIURL:          defaultAPIURL,
		DurationMinutes: defaultDurationMinutes,
		PollSeconds:     defaultPollSeconds,
		Notify:          true,
		Theme:           defaultTheme,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads and validates the config at path, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if isYAML(resolved) {
		err = yaml.Unmarshal(bytes, &cfg)
	} else {
		err = toml.Unmarshal(bytes, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var bytes []byte
	if isYAML(resolved) {
		bytes, err = yaml.Marshal(cfg)
	} else {
		bytes, err = toml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Missing lists the required settings that are absent for the selected backend.
func (c Config) Missing() []string {
	var missing []string
	switch c.Backend {
	case BackendDepartures:
		if strings.TrimSpace(c.Train) == "" {
			missing = append(missing, "train")
		}
		if strings.TrimSpace(c.Origin) == "" {
			missing = append(missing, "origin")
		}
	default:
		if strings.TrimSpace(c.FeedURL) == "" {
			missing = append(missing, "feed_url")
		}
		if strings.TrimSpace(c.TripID) == "" {
			missing = append(missing, "trip_id")
		}
	}
	return missing
}

// Complete reports whether every required setting is present.
func (c Config) Complete() bool {
	return len(c.Missing()) == 0
}

// Interval returns the poll interval.
func (c Config) Interval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// Duration returns the departure window requested from the board.
func (c Config) Duration() time.Duration {
	if c.DurationMinutes <= 0 {
		return defaultDurationMinutes * time.Minute
	}
	return time.Duration(c.DurationMinutes) * time.Minute
}

// Target returns a short label for the configured trip or train.
func (c Config) Target() string {
	if c.Backend == BackendDepartures {
		train := strings.TrimSpace(c.Train)
		if origin := strings.TrimSpace(c.Origin); origin != "" && train != "" {
			return train + " from " + origin
		}
		return train
	}
	if id := strings.TrimSpace(c.TripID); id != "" {
		return "Trip " + id
	}
	return ""
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendGTFS
	}
	c.FeedURL = strings.TrimSpace(c.FeedURL)
	c.TripID = strings.TrimSpace(c.TripID)
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	c.Train = strings.TrimSpace(c.Train)
	c.Origin = strings.TrimSpace(c.Origin)
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = defaultTheme
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath expands a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
