// Package app wires configuration, logging and the sequence tools
// together for the command line.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrChecksFailed indicates a scenario had failing expectations.
	ErrChecksFailed = errors.New("checks failed")

	// ErrConflictingModes indicates both a scenario and a script were given.
	ErrConflictingModes = errors.New("scenario and script are mutually exclusive")

	// ErrWatchNeedsFile indicates watch mode was requested without a file.
	ErrWatchNeedsFile = errors.New("watch needs a scenario or script file")
)

// InitError reports a component that could not be set up.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// RunError reports a failed run of a scenario or script file.
type RunError struct {
	Mode string // "scenario" or "script"
	Path string
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Mode, e.Path, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
