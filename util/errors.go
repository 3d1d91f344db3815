package util

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile       = errors.New("expected file, got directory")
	ErrNotRegularFile     = errors.New("not a regular file")
	ErrSourceNotDirectory = errors.New("source is not a directory")

	// Dispatch errors
	ErrInvalidWorkerCount = errors.New("worker count must be a positive integer")

	// Report errors
	ErrOutputUnwritable = errors.New("output is not writable")
	ErrMalformedReport  = errors.New("malformed report")

	// Algorithm errors
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)

// FileErrorKind classifies a per-file failure.
type FileErrorKind int

const (
	KindRead FileErrorKind = iota
	KindNotFound
	KindPermissionDenied
)

func (k FileErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "read"
	}
}

// FileError reports a failure to hash a single file. It never aborts a run.
type FileError struct {
	Path string
	Kind FileErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// newFileError classifies err by the underlying OS condition.
func newFileError(path string, err error) *FileError {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe
	}
	kind := KindRead
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	}
	return &FileError{Path: path, Kind: kind, Err: err}
}
