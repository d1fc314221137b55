package boilerplate

import "errors"

var (
	// ErrInvalidThreshold reports a voting threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("threshold must be in (0, 1]")
	// ErrInvalidWindow reports a negative header or footer window.
	ErrInvalidWindow = errors.New("window must be >= 0")
)
