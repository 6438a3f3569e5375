package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dshills/cursorseq/internal/config"
	"github.com/dshills/cursorseq/internal/driver"
	"github.com/dshills/cursorseq/internal/logging"
	"github.com/dshills/cursorseq/internal/scenario"
	"github.com/dshills/cursorseq/internal/script"
	"github.com/dshills/cursorseq/internal/watcher"
)

// Options holds command line settings. They take precedence over the
// configuration file and the environment.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty means none.
	ConfigPath string

	// Capacity overrides sequence.initial_capacity when positive.
	Capacity int

	// MaxCapacity overrides sequence.max_capacity when positive.
	MaxCapacity int

	// LogLevel overrides log.level when non-empty.
	LogLevel string

	// ScenarioPath runs a YAML scenario file.
	ScenarioPath string

	// ScriptPath runs a Lua script.
	ScriptPath string

	// Watch re-runs the scenario or script whenever it changes.
	Watch bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Application runs one of the tools: the interactive driver, a scenario
// file or a Lua script.
type Application struct {
	cfg  *config.Config
	log  *logging.Logger
	opts Options
}

// New loads the configuration, applies opts on top and sets up logging.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.ScenarioPath != "" && opts.ScriptPath != "" {
		return nil, ErrConflictingModes
	}
	if opts.Watch && opts.ScenarioPath == "" && opts.ScriptPath == "" {
		return nil, ErrWatchNeedsFile
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel()
	logCfg.Output = opts.Stderr

	return &Application{
		cfg:  cfg,
		log:  logging.New(logCfg),
		opts: opts,
	}, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Capacity > 0 {
		cfg.Sequence.InitialCapacity = opts.Capacity
	}
	if opts.MaxCapacity > 0 {
		cfg.Sequence.MaxCapacity = opts.MaxCapacity
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}

// Run runs the selected tool until it finishes or ctx is done. In watch
// mode it returns nil once ctx is done.
func (app *Application) Run(ctx context.Context) error {
	var (
		mode string
		path string
		job  func(context.Context, string) error
	)
	switch {
	case app.opts.ScenarioPath != "":
		mode, path, job = "scenario", app.opts.ScenarioPath, app.runScenarios
	case app.opts.ScriptPath != "":
		mode, path, job = "script", app.opts.ScriptPath, app.runScript
	default:
		return app.runDriver(ctx)
	}

	if !app.opts.Watch {
		if err := job(ctx, path); err != nil {
			return &RunError{Mode: mode, Path: path, Err: err}
		}
		return nil
	}

	w := watcher.New(
		watcher.WithDebounce(app.cfg.Watch.Debounce.Duration),
		watcher.WithLogger(app.log),
		watcher.WithInitialRun(true),
	)
	err := w.Watch(ctx, path, func(ctx context.Context, p string) error {
		_, _ = fmt.Fprintf(app.opts.Stdout, "== %s\n", p)
		return job(ctx, p)
	})
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (app *Application) runDriver(ctx context.Context) error {
	d, err := driver.New(
		driver.WithOutput(app.opts.Stdout),
		driver.WithLogger(app.log),
		driver.WithPrompt(app.cfg.Driver.Prompt),
		driver.WithEcho(app.cfg.Driver.Echo),
		driver.WithSequenceOptions(app.cfg.SequenceOptions()...),
	)
	if err != nil {
		return &InitError{Component: "driver", Err: err}
	}

	err = d.Run(ctx, app.opts.Stdin)
	app.log.Info("driver finished: %d commands, %d failed", d.Commands(), d.Failures())
	return err
}

func (app *Application) runScenarios(ctx context.Context, path string) error {
	scs, err := scenario.Load(path)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner(
		scenario.WithLogger(app.log),
		scenario.WithSequenceOptions(app.cfg.SequenceOptions()...),
	)
	reports, err := runner.RunAll(ctx, scs)
	failed := 0
	for _, rep := range reports {
		if !rep.Passed() {
			failed++
		}
		if werr := rep.Write(app.opts.Stdout); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios: %w", failed, len(reports), ErrChecksFailed)
	}
	return nil
}

func (app *Application) runScript(ctx context.Context, path string) error {
	host := script.NewHost(
		script.WithOutput(app.opts.Stdout),
		script.WithLogger(app.log),
		script.WithSequenceOptions(app.cfg.SequenceOptions()...),
	)
	defer host.Close()

	return host.RunFile(ctx, path)
}
