package prediction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaMismatch marks drift between the record fields and what the
	// trained artifacts expect.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidOutput marks a classifier result that cannot be turned into a
	// label and confidence.
	ErrInvalidOutput = errors.New("invalid classifier output")
	// ErrIncompleteArtifacts is returned when an artifact is missing.
	ErrIncompleteArtifacts = errors.New("incomplete artifacts")
)

// SchemaMismatchError names the fields on each side of a mismatch.
type SchemaMismatchError struct {
	Stage     string
	Missing   []string
	Extra     []string
	Unencoded []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected: "+strings.Join(e.Extra, ", "))
	}
	if len(e.Unencoded) > 0 {
		parts = append(parts, "unencoded: "+strings.Join(e.Unencoded, ", "))
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaMismatch, e.Stage, strings.Join(parts, "; "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

func (e *SchemaMismatchError) empty() bool {
	return len(e.Missing) == 0 && len(e.Extra) == 0 && len(e.Unencoded) == 0
}
