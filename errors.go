package permstore

import (
	"errors"
	"fmt"
)

// ErrAccessDenied is the sentinel every denied read or write wraps. Callers
// match it with errors.Is; the concrete *AccessError carries the details.
var ErrAccessDenied = errors.New("permstore: access denied")

// ErrInvalidPath indicates a path that cannot address a location, such as an
// empty write path.
var ErrInvalidPath = errors.New("permstore: invalid path")

// ErrCyclicStore indicates an attempt to write a store into its own subtree.
var ErrCyclicStore = errors.New("permstore: store cannot be written into its own subtree")

// AccessError captures the operation, path, and resolved level behind a
// denial.
type AccessError struct {
	Op    string
	Path  string
	Level Level
}

func (e *AccessError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("permstore: %s %s denied (level=%s)", e.Op, describePath(e.Path), e.Level)
}

// Unwrap lets errors.Is(err, ErrAccessDenied) succeed.
func (e *AccessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrAccessDenied
}

func describePath(path string) string {
	if path == "" {
		return "path=<root>"
	}
	return fmt.Sprintf("path=%q", path)
}

func deniedError(op, path string, level Level) error {
	return &AccessError{Op: op, Path: path, Level: level}
}

func invalidPathError(op, path, reason string) error {
	return fmt.Errorf("%w: %s path=%q: %s", ErrInvalidPath, op, path, reason)
}
