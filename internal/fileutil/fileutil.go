package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Written describes a file produced by WriteFileAtomic.
type Written struct {
	Path   string
	Bytes  int64
	SHA256 string
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory, syncs it, and renames it over path. Readers never observe a
// partially written file. The temporary file is removed on failure.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) (Written, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return Written{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	written, err := io.MultiWriter(tmp, hasher).Write(data)
	if err != nil {
		return Written{}, fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if written != len(data) {
		return Written{}, fmt.Errorf("write %s: short write (%d of %d bytes)", tmpPath, written, len(data))
	}
	if err := tmp.Sync(); err != nil {
		return Written{}, fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return Written{}, fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return Written{}, fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return Written{}, fmt.Errorf("rename into %s: %w", path, err)
	}
	committed = true

	return Written{
		Path:   path,
		Bytes:  int64(written),
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// FileSHA256 returns the hex SHA-256 of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
