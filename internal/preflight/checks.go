package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckInputDir verifies that path is a directory the process can list and read.
func CheckInputDir(path string) Result {
	const name = "Input directory"

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Fatal: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckPageFiles counts the files in dir matching glob.
func CheckPageFiles(dir, glob string) Result {
	const name = "Page files"

	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("invalid glob %q: %v", glob, err)}
	}
	count := 0
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			count++
		}
	}
	if count == 0 {
		return Result{Name: name, Fatal: true, Detail: fmt.Sprintf("no files matching %q", glob)}
	}
	return Result{Name: name, Passed: true, Fatal: true, Detail: fmt.Sprintf("%d file(s) matching %q", count, glob)}
}

// CheckOutputDir verifies that path can receive cleaned pages.
func CheckOutputDir(path string) Result {
	return CheckOutputDirNamed("Output directory", path)
}

// CheckOutputDirNamed verifies that path is a writable directory or, when it
// does not exist yet, that its nearest existing ancestor is writable so it
// can be created.
func CheckOutputDirNamed(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
		}
		if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (write ok)", path)}
	case errors.Is(err, fs.ErrNotExist):
		ancestor, ok := nearestExisting(path)
		if !ok {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
}

func nearestExisting(path string) (string, bool) {
	dir := filepath.Clean(path)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
		info, err := os.Stat(dir)
		if err == nil {
			return dir, info.IsDir()
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
	}
}
