package model

import "errors"

// Domain errors for model selection and execution.
var (
	// ErrUnknownModelKind indicates a selection name outside the known kinds.
	ErrUnknownModelKind = errors.New("model: unknown model kind")

	// ErrUnsupportedForModelKind indicates an operation the active kind does not offer.
	ErrUnsupportedForModelKind = errors.New("model: operation not supported for this model kind")

	// ErrMissingInputData indicates Run was called before required arrays were bound.
	ErrMissingInputData = errors.New("model: required input data not bound")
)
