package loadcheck

import "errors"

var (
	// ErrServiceUnavailable is returned when the service cannot serve predictions.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrVerification is returned when responses break a checked property.
	ErrVerification = errors.New("verification failed")
)
