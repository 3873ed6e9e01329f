package resolver

import (
	"errors"
	"fmt"
)

// Failure kinds. A *ResolutionError matches exactly one of them with errors.Is.
var (
	// ErrTransport covers unreachable service, timeouts and non-success replies.
	ErrTransport = errors.New("transport error")
	// ErrSchema means the extraction output did not parse as the numeric schema.
	ErrSchema = errors.New("schema parse error")
	// ErrInput means the area name was unusable; no call was made.
	ErrInput = errors.New("invalid area name")
)

// Stage names a step of the pipeline.
type Stage string

const (
	StageInput   Stage = "input"
	StageSearch  Stage = "search"
	StageExtract Stage = "extract"
)

// ResolutionError reports why an area could not be resolved. No partial
// record ever accompanies it.
type ResolutionError struct {
	Area  string
	Stage Stage
	Kind  error
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %q: %s stage: %v", e.Area, e.Stage, e.Kind)
	}
	return fmt.Sprintf("resolve %q: %s stage: %v: %v", e.Area, e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportError(area string, stage Stage, err error) *ResolutionError {
	return &ResolutionError{Area: area, Stage: stage, Kind: ErrTransport, Err: err}
}

func schemaError(area string, err error) *ResolutionError {
	return &ResolutionError{Area: area, Stage: StageExtract, Kind: ErrSchema, Err: err}
}
