package classifier

import "errors"

var (
	// ErrUnsupportedModel is returned for a model document with an unknown type.
	ErrUnsupportedModel = errors.New("unsupported model type")
	// ErrInvalidModel marks a model document with inconsistent parameters.
	ErrInvalidModel = errors.New("invalid model")
	// ErrDimension is returned when an input vector has the wrong length.
	ErrDimension = errors.New("dimension mismatch")
)
