package artifacts

import "errors"

// ErrArtifactLoad wraps any failure to read or parse a trained artifact.
var ErrArtifactLoad = errors.New("artifact load failed")
