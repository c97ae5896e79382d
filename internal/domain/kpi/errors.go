package kpi

import "errors"

// ErrEmptyDataset is returned when there are no rows to aggregate.
var ErrEmptyDataset = errors.New("empty dataset")
