package cleaner

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputWrite marks a cleaned page, combined file, or report that could not be written.
	ErrOutputWrite = errors.New("output write failed")
	// ErrLocked means another run holds the output directory lock.
	ErrLocked = errors.New("output directory is locked by another run")
)

// WriteFailure records an output file that could not be written. Page is -1
// for the combined file and reports.
type WriteFailure struct {
	Page int
	Path string
	Err  error
}

func (f WriteFailure) Error() string {
	if f.Page < 0 {
		return fmt.Sprintf("%s: %v", f.Path, f.Err)
	}
	return fmt.Sprintf("page %d (%s): %v", f.Page, f.Path, f.Err)
}

func (f WriteFailure) Unwrap() error {
	return f.Err
}
