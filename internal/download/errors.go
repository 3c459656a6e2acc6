package download

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the download package.
var (
	// ErrInvalidRequest is returned when a job request is missing its URL or format.
	ErrInvalidRequest = errors.New("invalid job request")

	// ErrUnsupportedFormat is returned when the requested format is not one of mp4, mp3, jpg, png.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction is returned when the extraction engine failed on every permitted attempt.
	ErrExtraction = errors.New("extraction failed")

	// ErrFileNotFound is returned when extraction succeeded but no output file matched.
	ErrFileNotFound = errors.New("output file not found")

	// ErrWorkspace is returned when the scratch workspace cannot be created or read.
	ErrWorkspace = errors.New("workspace error")
)

// UnsupportedFormatError reports a requested format outside the supported set.
type UnsupportedFormatError struct {
	Format     string
	Suggestion string // closest supported format, empty if none is close
}

func (e *UnsupportedFormatError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unsupported format: %s (did you mean %s?)", e.Format, e.Suggestion)
	}
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ExtractionError carries the last engine failure after all attempts were used.
type ExtractionError struct {
	Cause    error
	Attempts int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// FileNotFoundError reports that no file in Dir matched Prefix and Ext.
type FileNotFoundError struct {
	Dir    string
	Prefix string
	Ext    string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("no .%s found for %s", strings.TrimPrefix(e.Ext, "."), e.Prefix)
}

func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// WorkspaceError wraps a filesystem failure on the scratch workspace.
type WorkspaceError struct {
	Op  string // "create", "read", "remove"
	Dir string
	Err error
}

func (e *WorkspaceError) Error() string {
	if e.Dir == "" {
		return fmt.Sprintf("workspace %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("workspace %s %s: %v", e.Op, e.Dir, e.Err)
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

func (e *WorkspaceError) Is(target error) bool {
	return target == ErrWorkspace
}
