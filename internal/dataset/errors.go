package dataset

import "errors"

var (
	// ErrFileNotFound indicates the dataset path resolves to nothing.
	ErrFileNotFound = errors.New("dataset: file not found")

	// ErrParse indicates a value token that is not a valid float.
	ErrParse = errors.New("dataset: malformed numeric token")

	// ErrMissingRequiredSeries indicates the mandatory LATA series is absent.
	ErrMissingRequiredSeries = errors.New("dataset: missing required series LATA")
)
