package chat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation matches every ValidationError.
var ErrValidation = errors.New("invalid request data")

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid request data: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Stage names a step of the per-turn pipeline.
type Stage string

const (
	StageValidating Stage = "validating"
	StageGenerating Stage = "generating"
	StagePersisting Stage = "persisting"
	StageCompleted  Stage = "completed"
)

// TurnError reports the stage at which a turn failed.
type TurnError struct {
	Stage Stage
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

func failAt(stage Stage, err error) error {
	return &TurnError{Stage: stage, Err: err}
}
