package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInitialization      = errors.New("ai service not initialized")
	ErrBusy                = errors.New("a mockup request is already in flight")
	ErrLogoRequired        = errors.New("logo required")
	ErrMockupRequired      = errors.New("mockup required")
	ErrInstructionRequired = errors.New("instruction required")
	ErrUnknownTemplate     = errors.New("unknown product template")
	ErrNoImage             = errors.New("no image was generated in the response")
	ErrInvalidImage        = errors.New("invalid image")
)

// Operation names the two remote calls a session can issue.
type Operation string

const (
	OperationGenerate Operation = "generate"
	OperationEdit     Operation = "edit"
)

// GenerationError reports a failed generate or edit call. It covers both an
// empty image response and transport, auth or quota failures from the service.
type GenerationError struct {
	Op  Operation
	Err error
}

func (e *GenerationError) Error() string {
	if e.Op == OperationEdit {
		return fmt.Sprintf("edit mockup: %v", e.Err)
	}
	return fmt.Sprintf("generate mockup: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsEdit reports whether the error came from an edit call (EditError).
func (e *GenerationError) IsEdit() bool { return e.Op == OperationEdit }

// NewGenerationError wraps err as a failure of a generate call.
func NewGenerationError(err error) error {
	return &GenerationError{Op: OperationGenerate, Err: err}
}

// NewEditError wraps err as a failure of an edit call.
func NewEditError(err error) error {
	return &GenerationError{Op: OperationEdit, Err: err}
}
