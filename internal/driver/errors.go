package driver

import (
	"errors"
	"fmt"
)

// Errors reported by Exec and Run.
var (
	// ErrQuit signals that the quit command was executed.
	ErrQuit = errors.New("quit requested")

	// ErrUnknownCommand indicates the command name is not recognised.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrArgument indicates a missing, extra or malformed argument.
	ErrArgument = errors.New("invalid argument")

	// ErrNothingSaved indicates restore was used before save.
	ErrNothingSaved = errors.New("nothing saved")

	// ErrLineTooLong indicates Run discarded an input line over the
	// length limit.
	ErrLineTooLong = errors.New("line too long")
)

// CommandError describes a failed command.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
