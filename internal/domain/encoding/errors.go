package encoding

import "errors"

var (
	// ErrUnknownCode is returned when decoding a code outside the class list.
	ErrUnknownCode = errors.New("unknown class code")
	// ErrInvalidEncoder marks an encoder built from an empty or duplicated class list.
	ErrInvalidEncoder = errors.New("invalid encoder")
)
