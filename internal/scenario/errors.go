package scenario

import (
	"errors"
	"fmt"
)

// Errors returned when loading or running scenarios.
var (
	// ErrInvalidScenario indicates a scenario document is malformed.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrNoScenarios indicates a file holds no scenario documents.
	ErrNoScenarios = errors.New("no scenarios")
)

// StepError describes a malformed step.
type StepError struct {
	Scenario string
	Index    int // zero-based step index
	Message  string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("scenario %q step %d: %s", e.Scenario, e.Index+1, e.Message)
}

// Unwrap returns ErrInvalidScenario.
func (e *StepError) Unwrap() error {
	return ErrInvalidScenario
}
