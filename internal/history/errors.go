package history

import "errors"

var (
	// ErrSchemaMismatch reports a database this build cannot read as run history.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrRunNotFound is returned when no run has the requested identifier.
	ErrRunNotFound = errors.New("run not found")
)
