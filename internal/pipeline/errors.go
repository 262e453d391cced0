package pipeline

import (
	"errors"
	"fmt"

	"scenariogen/internal/agent"
)

// ErrInsufficientInput means no usable input survived loading, so there is
// nothing to build a unified context from.
var ErrInsufficientInput = errors.New("no usable inputs available")

// ErrEmptyResult means the generator produced zero valid scenarios. It is the
// agent package's sentinel re-exported under the orchestrator's name so
// callers can match either.
var ErrEmptyResult = agent.ErrNoScenarios

// StageError attaches the failing stage to a fatal pipeline error.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
