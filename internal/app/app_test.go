package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/cursorseq/internal/config"
)

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &bytes.Buffer{}
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join("testdata", "app.toml")
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, &out
}

func TestNewOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"scenario and script", Options{ScenarioPath: "a.yaml", ScriptPath: "b.lua"}, ErrConflictingModes},
		{"watch without file", Options{Watch: true}, ErrWatchNeedsFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOverrides(t *testing.T) {
	a, _ := newTestApp(t, Options{Capacity: 8, MaxCapacity: 32, LogLevel: "warn"})

	cfg := a.Config()
	if cfg.Sequence.InitialCapacity != 8 {
		t.Errorf("expected capacity 8, got %d", cfg.Sequence.InitialCapacity)
	}
	if cfg.Sequence.MaxCapacity != 32 {
		t.Errorf("expected max capacity 32, got %d", cfg.Sequence.MaxCapacity)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Log.Level)
	}
	if cfg.Watch.Debounce.Duration != 20*time.Millisecond {
		t.Errorf("expected debounce from file, got %v", cfg.Watch.Debounce)
	}
}

func TestOverrideValidation(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join("testdata", "app.toml"),
		Capacity:   100,
	})

	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "config" {
		t.Fatalf("expected config InitError, got %v", err)
	}
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestRunDriver(t *testing.T) {
	a, out := newTestApp(t, Options{Stdin: strings.NewReader("attach 1\ninsert 0\nprint\ncapacity\n")})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "[(0) 1]\n4\n" {
		t.Errorf("got %q", got)
	}
}

func TestRunScenario(t *testing.T) {
	a, out := newTestApp(t, Options{ScenarioPath: filepath.Join("testdata", "pass.yaml")})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "PASS grows past the configured capacity") {
		t.Errorf("unexpected report %q", out.String())
	}
}

func TestRunScenarioFailure(t *testing.T) {
	path := filepath.Join("testdata", "fail.yaml")
	a, out := newTestApp(t, Options{ScenarioPath: path})

	err := a.Run(context.Background())
	if !errors.Is(err, ErrChecksFailed) {
		t.Fatalf("expected ErrChecksFailed, got %v", err)
	}

	var re *RunError
	if !errors.As(err, &re) || re.Mode != "scenario" || re.Path != path {
		t.Errorf("expected RunError for the scenario, got %v", err)
	}
	if !strings.Contains(out.String(), "final: size: got 1, want 2") {
		t.Errorf("report should show the failure, got %q", out.String())
	}
}

func TestRunMissingScenario(t *testing.T) {
	a, _ := newTestApp(t, Options{ScenarioPath: filepath.Join("testdata", "missing.yaml")})
	if err := a.Run(context.Background()); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestRunScript(t *testing.T) {
	a, out := newTestApp(t, Options{ScriptPath: filepath.Join("testdata", "hello.lua")})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "[1 (2)]\t4\n" {
		t.Errorf("got %q", got)
	}
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	a, out := newTestApp(t, Options{
		ScenarioPath: filepath.Join("testdata", "pass.yaml"),
		Watch:        true,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "PASS") {
		t.Errorf("expected the initial run's report, got %q", out.String())
	}
}
