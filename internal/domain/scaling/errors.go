package scaling

import "errors"

var (
	// ErrInvalidScaler marks inconsistent scaler parameters.
	ErrInvalidScaler = errors.New("invalid scaler")
	// ErrDimension is returned when an input vector has the wrong length.
	ErrDimension = errors.New("dimension mismatch")
)
