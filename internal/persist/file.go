// This file provides the file-backed sink with atomic persistence.
package persist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSink stores each key as <dir>/<key>.json.
type FileSink struct {
	dir string
}

// Compile-time interface check.
var _ Sink = (*FileSink)(nil)

// NewFileSink returns a FileSink rooted at dir, creating dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Path returns the file backing key.
func (f *FileSink) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the file for key. A missing file reports absent, not an error.
func (f *FileSink) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the file for key atomically.
func (f *FileSink) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return WriteFileAtomic(f.Path(key), []byte(value))
}

// Remove deletes the file for key. Removing a missing key succeeds.
func (f *FileSink) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := os.Remove(f.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// checkKey rejects keys that would escape the sink directory.
func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// WriteFileAtomic writes data to path using the temp-file, fsync, rename
// pattern so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mapty-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing data: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
