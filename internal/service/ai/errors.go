package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a generation failed.
type Kind string

const (
	KindTransport         Kind = "transport"
	KindMalformedResponse Kind = "malformed_response"
	KindIncompleteResult  Kind = "incomplete_result"
)

var (
	// ErrGeneration matches every GenerationError.
	ErrGeneration = errors.New("website generation failed")

	ErrTransport         = errors.New("model call failed")
	ErrMalformedResponse = errors.New("model response is not the expected json object")
	ErrIncompleteResult  = errors.New("model response is missing code fields")

	// ErrNotConfigured is the transport cause reported when no model credentials were supplied.
	ErrNotConfigured = errors.New("generation unavailable: model not configured")
)

// GenerationError is the typed failure returned by Generator.Generate.
type GenerationError struct {
	Kind    Kind
	Missing []string
	Err     error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("generation failed (")
	b.WriteString(string(e.Kind))
	b.WriteString(")")
	if len(e.Missing) > 0 {
		b.WriteString(fmt.Sprintf(": missing %s", strings.Join(e.Missing, ", ")))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *GenerationError) Unwrap() []error {
	errs := []error{ErrGeneration, e.kindSentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *GenerationError) kindSentinel() error {
	switch e.Kind {
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindIncompleteResult:
		return ErrIncompleteResult
	default:
		return ErrTransport
	}
}

func transportError(err error) error {
	return &GenerationError{Kind: KindTransport, Err: err}
}

func malformedError(err error) error {
	return &GenerationError{Kind: KindMalformedResponse, Err: err}
}

func incompleteError(missing []string) error {
	return &GenerationError{Kind: KindIncompleteResult, Missing: missing}
}
