package service

import "errors"

var (
	// ErrPredictionUnavailable is returned by Predict when artifacts failed to
	// load and predictions are switched off.
	ErrPredictionUnavailable = errors.New("prediction unavailable")
	// ErrDatasetUnavailable is returned by the KPI operations when the
	// historical dataset could not be read.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
