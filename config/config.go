// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/dodger"
	"github.com/fwojciec/mindlab/focus"
	"github.com/fwojciec/mindlab/frame"
	"github.com/fwojciec/mindlab/puzzle"
	"github.com/fwojciec/mindlab/reflex"
	"github.com/fwojciec/mindlab/serial"
	"github.com/fwojciec/mindlab/span"
	"github.com/fwojciec/mindlab/symbol"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config mirrors config.toml. Every field is optional; the Resolved*
// accessors fill in defaults. Durations are whole milliseconds.
type Config struct {
	Theme   string `toml:"theme,omitempty"`
	Store   string `toml:"store,omitempty"` // json or sqlite
	DataDir string `toml:"data_dir,omitempty"`
	LogFile string `toml:"log_file,omitempty"`

	Serial SerialConfig `toml:"serial"`
	Reflex ReflexConfig `toml:"reflex"`
	Focus  FocusConfig  `toml:"focus"`
	Span   SpanConfig   `toml:"span"`
	Symbol SymbolConfig `toml:"symbol"`
	Puzzle PuzzleConfig `toml:"puzzle"`
	Dodger DodgerConfig `toml:"dodger"`
}

type SerialConfig struct {
	Port  string   `toml:"port,omitempty"`
	Baud  int      `toml:"baud,omitempty"`
	Globs []string `toml:"globs,omitempty"`
}

type ReflexConfig struct {
	Rounds     int `toml:"rounds,omitempty"`
	MinDelayMS int `toml:"min_delay_ms,omitempty"`
	MaxDelayMS int `toml:"max_delay_ms,omitempty"`
	WindowMS   int `toml:"window_ms,omitempty"`
	LatencyMS  int `toml:"latency_ms,omitempty"` // skips calibration when set
}

type FocusConfig struct {
	GoTrials   int `toml:"go_trials,omitempty"`
	NoGoTrials int `toml:"nogo_trials,omitempty"`
	StimulusMS int `toml:"stimulus_ms,omitempty"`
	WindowMS   int `toml:"window_ms,omitempty"`
}

type SpanConfig struct {
	StartLength  int `toml:"start_length,omitempty"`
	Attempts     int `toml:"attempts,omitempty"`
	MaxRounds    int `toml:"max_rounds,omitempty"`
	ItemMS       int `toml:"item_ms,omitempty"`
	GapMS        int `toml:"gap_ms,omitempty"`
	EntryLimitMS int `toml:"entry_limit_ms,omitempty"`
}

type SymbolConfig struct {
	DurationSec int `toml:"duration_sec,omitempty"`
}

type PuzzleConfig struct {
	TimeLimitSec  int `toml:"time_limit_sec,omitempty"`
	FeedbackGapMS int `toml:"feedback_gap_ms,omitempty"`
}

type DodgerConfig struct {
	Mode        string `toml:"mode,omitempty"` // keyboard or distance
	Sensitivity int    `toml:"sensitivity,omitempty"`
	GraceSec    int    `toml:"grace_sec,omitempty"`
}

// DefaultPath returns ~/.config/mindlab/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "mindlab", "config.toml")
}

// Load reads the file at path. A missing file yields the zero Config, which
// resolves to all defaults.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads the file at path, which must exist.
func LoadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// Validate rejects values no accessor can resolve.
func (c Config) Validate() error {
	if c.Theme != "" {
		if _, ok := mindlab.ThemeByName(c.Theme); !ok {
			return fmt.Errorf("unknown theme %q (available: %s): %w", c.Theme, strings.Join(mindlab.ThemeNames(), ", "), mindlab.ErrValidation)
		}
	}
	switch c.Store {
	case "", StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q: %w", c.Store, mindlab.ErrValidation)
	}
	switch c.Dodger.Mode {
	case "", "keyboard", "distance":
	default:
		return fmt.Errorf("unknown dodger mode %q: %w", c.Dodger.Mode, mindlab.ErrValidation)
	}
	if c.Serial.Baud < 0 {
		return fmt.Errorf("baud must be positive, got %d: %w", c.Serial.Baud, mindlab.ErrValidation)
	}
	return nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// ResolvedThemeName returns the configured theme name or the default.
func (c Config) ResolvedThemeName() string {
	if c.Theme != "" {
		return c.Theme
	}
	return mindlab.DefaultThemeName
}

// ResolvedTheme returns the configured color mapping.
func (c Config) ResolvedTheme() mindlab.Theme {
	t, _ := mindlab.ThemeByName(c.ResolvedThemeName())
	return t
}

// ResolvedStore returns the store backend, json by default.
func (c Config) ResolvedStore() string {
	if c.Store != "" {
		return c.Store
	}
	return StoreJSON
}

// ResolvedDataDir returns data_dir with ~ expanded, or ~/.local/share/mindlab.
func (c Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "mindlab")
	}
	return "."
}

// ResolvedStorePath returns the file the selected store persists to.
func (c Config) ResolvedStorePath() string {
	if c.ResolvedStore() == StoreSQLite {
		return filepath.Join(c.ResolvedDataDir(), "mindlab.db")
	}
	return filepath.Join(c.ResolvedDataDir(), "data.json")
}

// ResolvedLogFile returns log_file with ~ expanded, or mindlab.log in the
// data directory.
func (c Config) ResolvedLogFile() string {
	if c.LogFile != "" {
		return expandHome(c.LogFile)
	}
	return filepath.Join(c.ResolvedDataDir(), "mindlab.log")
}

// ResolvedBaud returns the serial baud rate.
func (c Config) ResolvedBaud() int {
	if c.Serial.Baud > 0 {
		return c.Serial.Baud
	}
	return frame.BaudRate
}

// ResolvedGlobs returns the patterns used to discover the device.
func (c Config) ResolvedGlobs() []string {
	if len(c.Serial.Globs) > 0 {
		return c.Serial.Globs
	}
	return serial.DefaultGlobs
}

// ResolvedReflex overlays [reflex] on reflex.DefaultConfig.
func (c Config) ResolvedReflex() reflex.Config {
	cfg := reflex.DefaultConfig()
	r := c.Reflex
	if r.Rounds > 0 {
		cfg.Rounds = r.Rounds
	}
	if r.MinDelayMS > 0 {
		cfg.MinDelay = ms(r.MinDelayMS)
	}
	if r.MaxDelayMS > 0 {
		cfg.MaxDelay = ms(r.MaxDelayMS)
	}
	if r.WindowMS > 0 {
		cfg.Window = ms(r.WindowMS)
	}
	if r.LatencyMS > 0 {
		cfg.Latency = ms(r.LatencyMS)
	}
	return cfg
}

// ResolvedFocus overlays [focus] on focus.DefaultConfig.
func (c Config) ResolvedFocus() focus.Config {
	cfg := focus.DefaultConfig()
	f := c.Focus
	if f.GoTrials > 0 {
		cfg.GoTrials = f.GoTrials
	}
	if f.NoGoTrials > 0 {
		cfg.NoGoTrials = f.NoGoTrials
	}
	if f.StimulusMS > 0 {
		cfg.StimulusDuration = ms(f.StimulusMS)
	}
	if f.WindowMS > 0 {
		cfg.ResponseWindow = ms(f.WindowMS)
	}
	return cfg
}

// ResolvedSpan overlays [span] on span.DefaultConfig.
func (c Config) ResolvedSpan() span.Config {
	cfg := span.DefaultConfig()
	s := c.Span
	if s.StartLength > 0 {
		cfg.Span.StartLength = s.StartLength
	}
	if s.Attempts > 0 {
		cfg.Span.Attempts = s.Attempts
	}
	if s.MaxRounds > 0 {
		cfg.Span.MaxRounds = s.MaxRounds
	}
	if s.ItemMS > 0 {
		cfg.Span.ItemTime = ms(s.ItemMS)
	}
	if s.GapMS > 0 {
		cfg.Span.GapTime = ms(s.GapMS)
	}
	if s.EntryLimitMS > 0 {
		cfg.EntryLimit = ms(s.EntryLimitMS)
	}
	return cfg
}

// ResolvedSymbol overlays [symbol] on symbol.DefaultConfig.
func (c Config) ResolvedSymbol() symbol.Config {
	cfg := symbol.DefaultConfig()
	if c.Symbol.DurationSec > 0 {
		cfg.Duration = time.Duration(c.Symbol.DurationSec) * time.Second
	}
	return cfg
}

// ResolvedPuzzle overlays [puzzle] on puzzle.DefaultConfig.
func (c Config) ResolvedPuzzle() puzzle.Config {
	cfg := puzzle.DefaultConfig()
	if c.Puzzle.TimeLimitSec > 0 {
		cfg.TimeLimit = time.Duration(c.Puzzle.TimeLimitSec) * time.Second
	}
	if c.Puzzle.FeedbackGapMS > 0 {
		cfg.FeedbackGap = ms(c.Puzzle.FeedbackGapMS)
	}
	return cfg
}

// ResolvedDodger overlays [dodger] on dodger.DefaultConfig.
func (c Config) ResolvedDodger() dodger.Config {
	cfg := dodger.DefaultConfig()
	d := c.Dodger
	if d.Mode == "distance" {
		cfg.Mode = dodger.ModeDistance
	}
	if d.Sensitivity > 0 {
		cfg.Sensitivity = d.Sensitivity
	}
	if d.GraceSec > 0 {
		cfg.Grace = time.Duration(d.GraceSec) * time.Second
	}
	return cfg
}
