package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CURSORSEQ_"

// Environment variables recognised by ApplyEnv.
const (
	EnvInitialCapacity = EnvPrefix + "INITIAL_CAPACITY"
	EnvMaxCapacity     = EnvPrefix + "MAX_CAPACITY"
	EnvLogLevel        = EnvPrefix + "LOG_LEVEL"
	EnvPrompt          = EnvPrefix + "PROMPT"
	EnvEcho            = EnvPrefix + "ECHO"
	EnvWatchDebounce   = EnvPrefix + "WATCH_DEBOUNCE"
)

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment overrides onto c. A nil lookup uses
// os.LookupEnv. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvInitialCapacity); ok {
		n, err := parseInt(EnvInitialCapacity, v)
		if err != nil {
			return err
		}
		c.Sequence.InitialCapacity = n
	}
	if v, ok := lookup(EnvMaxCapacity); ok {
		n, err := parseInt(EnvMaxCapacity, v)
		if err != nil {
			return err
		}
		c.Sequence.MaxCapacity = n
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrompt); ok {
		c.Driver.Prompt = v
	}
	if v, ok := lookup(EnvEcho); ok {
		b, err := parseBool(EnvEcho, v)
		if err != nil {
			return err
		}
		c.Driver.Echo = b
	}
	if v, ok := lookup(EnvWatchDebounce); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidEnv, EnvWatchDebounce, v, err)
		}
		c.Watch.Debounce = Duration{d}
	}
	return nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidEnv, name, s)
	}
	return n, nil
}

// parseBool accepts the usual spellings of true and false.
func parseBool(name, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidEnv, name, s)
}
