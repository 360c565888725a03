// Package fsio is the file read/write capability used by both front ends.
// Reads return UTF-8 text; failures are classified as [ErrUnreadable] or
// [ErrWrite] so callers can decide between per-item recovery and escalation.
package fsio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Error kinds.
var (
	ErrUnreadable = errors.New("unreadable file")
	ErrWrite      = errors.New("write failed")
)

// ReadRaw returns the bytes of path, wrapping any failure with ErrUnreadable.
func ReadRaw(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return b, nil
}

// ReadText returns the content of path as trimmed UTF-8 text. Invalid UTF-8
// is reported as ErrUnreadable.
func ReadText(path string) (string, error) {
	b, err := ReadRaw(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %s: not valid UTF-8", ErrUnreadable, path)
	}
	return strings.TrimSpace(string(b)), nil
}

// WriteText writes content to path, replacing any existing file. The data
// goes to a sibling temp file first and is renamed into place so readers
// never see a partial caption.
func WriteText(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
