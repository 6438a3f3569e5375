package script

import (
	"errors"
	"fmt"
)

// Errors returned by the script host.
var (
	// ErrHostClosed is returned when running a script on a closed host.
	ErrHostClosed = errors.New("script host is closed")

	// ErrScriptFailed indicates a script raised an error.
	ErrScriptFailed = errors.New("script failed")
)

// ScriptError wraps an error raised while running a named script.
type ScriptError struct {
	Name string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrScriptFailed.
func (e *ScriptError) Is(target error) bool {
	return target == ErrScriptFailed
}
