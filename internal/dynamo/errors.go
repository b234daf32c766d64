package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrModelNotFound indicates a model id absent from the catalog.
	ErrModelNotFound = errors.New("dynamo: model not found")

	// ErrParameterOutOfRange indicates an edit outside a parameter's [min, max].
	ErrParameterOutOfRange = errors.New("dynamo: parameter out of range")

	// ErrUnknownParameter indicates an edit to a parameter the model does not declare.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrSurfaceUnavailable indicates a missing or zero-sized drawing surface.
	ErrSurfaceUnavailable = errors.New("dynamo: drawing surface unavailable")

	// ErrInvalidTransition indicates a transport call not valid in the current phase.
	ErrInvalidTransition = errors.New("dynamo: invalid transition")
)

// ParameterError describes a rejected parameter edit.
type ParameterError struct {
	ID       string
	Value    float64
	Min, Max float64
	Wrapped  error
}

func (e *ParameterError) Error() string {
	if errors.Is(e.Wrapped, ErrUnknownParameter) {
		return fmt.Sprintf("unknown parameter %q", e.ID)
	}
	return fmt.Sprintf("parameter %s=%g outside [%g, %g]", e.ID, e.Value, e.Min, e.Max)
}

func (e *ParameterError) Unwrap() error { return e.Wrapped }

// ModelError describes a failed model lookup.
type ModelError struct {
	ID      ModelID
	Wrapped error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %q: %v", e.ID, e.Wrapped)
}

func (e *ModelError) Unwrap() error { return e.Wrapped }

// TransitionError records a transport call that was ignored.
type TransitionError struct {
	Action string
	Phase  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s while %s", e.Action, e.Phase)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
