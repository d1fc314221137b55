package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound means no file in the input directory matched the glob.
	ErrInputNotFound = errors.New("no page files found")
	// ErrNoUsablePages means files matched but none could be loaded.
	ErrNoUsablePages = errors.New("no usable pages")
	// ErrPageDecode means the bytes decoded under neither configured encoding.
	ErrPageDecode = errors.New("page decode failed")
	// ErrPageNumberParse means a file matched the glob but not the number pattern.
	ErrPageNumberParse = errors.New("page number not found in filename")
	// ErrPageRead means the file could not be read.
	ErrPageRead = errors.New("page read failed")
	// ErrDuplicatePage means another file already supplied the same page number.
	ErrDuplicatePage = errors.New("duplicate page number")
)

// Skip records a file that was left out of the corpus and why.
type Skip struct {
	Path string
	// Page is the parsed page number, or -1 when it could not be parsed.
	Page int
	Err  error
}

func (s Skip) Error() string {
	if s.Page >= 0 {
		return fmt.Sprintf("%s (page %d): %v", s.Path, s.Page, s.Err)
	}
	return fmt.Sprintf("%s: %v", s.Path, s.Err)
}

func (s Skip) Unwrap() error { return s.Err }

// Reason returns a short classification for reports.
func (s Skip) Reason() string {
	switch {
	case errors.Is(s.Err, ErrPageDecode):
		return "decode"
	case errors.Is(s.Err, ErrPageNumberParse):
		return "page_number"
	case errors.Is(s.Err, ErrDuplicatePage):
		return "duplicate"
	case errors.Is(s.Err, ErrPageRead):
		return "read"
	default:
		return "other"
	}
}
