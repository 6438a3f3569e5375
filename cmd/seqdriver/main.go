// Package main is the entry point for the cursorseq driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/cursorseq/internal/app"
	"github.com/dshills/cursorseq/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, showVersion, err := parseFlags(args, stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "seqdriver %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	opts.Stdin = stdin
	opts.Stdout = stdout
	opts.Stderr = stderr

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (app.Options, bool, error) {
	var opts app.Options
	var showVersion bool

	fs := flag.NewFlagSet("seqdriver", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to TOML configuration file (shorthand)")
	fs.IntVar(&opts.Capacity, "capacity", 0, "Initial capacity of new sequences")
	fs.IntVar(&opts.MaxCapacity, "max-capacity", 0, "Largest backing store a sequence may allocate")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.ScenarioPath, "scenario", "", "Run the YAML scenario file")
	fs.StringVar(&opts.ScriptPath, "script", "", "Run the Lua script")
	fs.BoolVar(&opts.Watch, "watch", false, "Re-run the scenario or script when it changes")
	fs.BoolVar(&opts.Watch, "w", false, "Re-run the scenario or script when it changes (shorthand)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "seqdriver - exercise a cursor sequence\n\n")
		fmt.Fprintf(stderr, "Usage: seqdriver [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  seqdriver                          Interactive driver on stdin\n")
		fmt.Fprintf(stderr, "  seqdriver -capacity 1 < cmds.txt   Run a command transcript\n")
		fmt.Fprintf(stderr, "  seqdriver -scenario checks.yaml    Run scenario checks\n")
		fmt.Fprintf(stderr, "  seqdriver -script demo.lua -w      Re-run a script on save\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, false, err
	}

	if opts.LogLevel != "" {
		if _, ok := logging.ParseLevel(opts.LogLevel); !ok {
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			return opts, false, fmt.Errorf("invalid log level %q", opts.LogLevel)
		}
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %v\n", fs.Args())
		return opts, false, fmt.Errorf("unexpected arguments")
	}

	return opts, showVersion, nil
}
