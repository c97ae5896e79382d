package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrPayloadTooLarge  = errors.New("request body too large")
	ErrUnsupportedMedia = errors.New("content type must be application/json")
)
