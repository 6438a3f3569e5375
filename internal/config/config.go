package config

import (
	"fmt"
	"time"

	"github.com/dshills/cursorseq/internal/logging"
	"github.com/dshills/cursorseq/internal/sequence"
)

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultPrompt   = "seq> "
	DefaultDebounce = 200 * time.Millisecond
)

// Config holds all settings for the cursorseq tools.
type Config struct {
	Sequence SequenceConfig `toml:"sequence"`
	Log      LogConfig      `toml:"log"`
	Driver   DriverConfig   `toml:"driver"`
	Watch    WatchConfig    `toml:"watch"`
}

// SequenceConfig configures sequences created by the tools.
type SequenceConfig struct {
	// InitialCapacity is the backing store size of a new sequence.
	InitialCapacity int `toml:"initial_capacity"`
	// MaxCapacity caps any backing store allocation. Defaults to
	// sequence.DefaultMaxCapacity; 0 means unlimited.
	MaxCapacity int `toml:"max_capacity"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// DriverConfig configures the interactive driver.
type DriverConfig struct {
	Prompt string `toml:"prompt"`
	// Echo writes each command back before its output, which makes
	// transcripts of piped input readable.
	Echo bool `toml:"echo"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sequence: SequenceConfig{
			InitialCapacity: sequence.DefaultCapacity,
			MaxCapacity:     sequence.DefaultMaxCapacity,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Driver: DriverConfig{
			Prompt: DefaultPrompt,
		},
		Watch: WatchConfig{
			Debounce: Duration{DefaultDebounce},
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path (if
// path is non-empty and the file exists) and the process environment.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Sequence.InitialCapacity < 0 {
		return &ValidationError{Setting: "sequence.initial_capacity", Message: "must not be negative"}
	}
	if c.Sequence.MaxCapacity < 0 {
		return &ValidationError{Setting: "sequence.max_capacity", Message: "must not be negative"}
	}
	if c.Sequence.MaxCapacity > 0 && c.Sequence.MaxCapacity < c.Sequence.InitialCapacity {
		return &ValidationError{
			Setting: "sequence.max_capacity",
			Message: fmt.Sprintf("%d is below initial_capacity %d", c.Sequence.MaxCapacity, c.Sequence.InitialCapacity),
		}
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return &ValidationError{Setting: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if c.Watch.Debounce.Duration < 0 {
		return &ValidationError{Setting: "watch.debounce", Message: "must not be negative"}
	}
	return nil
}

// SequenceOptions returns the sequence options for these settings.
func (c *Config) SequenceOptions() []sequence.Option {
	return []sequence.Option{
		sequence.WithInitialCapacity(c.Sequence.InitialCapacity),
		sequence.WithMaxCapacity(c.Sequence.MaxCapacity),
	}
}

// LogLevel returns the configured log level, or LevelInfo if it is unknown.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
