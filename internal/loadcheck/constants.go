package loadcheck

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Verification constants.
const (
	MinConfidence        = 0.0
	MaxConfidence        = 100.0
	DeterminismSample    = 20
	PercentageMultiplier = 100
)

// File permission constants.
const (
	directoryPermission = 0o750
)
