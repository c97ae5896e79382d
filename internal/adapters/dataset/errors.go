package dataset

import "errors"

// ErrDatasetLoad wraps any failure to read historical candidate rows.
var ErrDatasetLoad = errors.New("dataset load failed")
