// Package source normalizes external inputs (Confluence pages, UI images,
// impact-area spreadsheets) into text usable by the pipeline's prompt calls.
// Every adapter either returns non-empty text or fails with a *LoadError;
// silent placeholder results are never produced.
package source

import "fmt"

// Kind identifies which adapter produced an Input.
type Kind string

const (
	KindConfluence Kind = "confluence"
	KindImage      Kind = "image"
	KindExcel      Kind = "excel"
)

// Input is one normalized raw input. Text is guaranteed non-empty.
type Input struct {
	Kind Kind
	Name string
	Text string
}

// LoadError reports that a single adapter could not retrieve its input.
// The orchestrator treats it as a missing-but-optional source unless no
// other inputs remain.
type LoadError struct {
	Source Kind
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s input: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(kind Kind, format string, args ...interface{}) *LoadError {
	return &LoadError{Source: kind, Err: fmt.Errorf(format, args...)}
}
