package directory

import (
	"errors"
	"fmt"
)

type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}
func (e *StatError) Unwrap() error { return e.Cause }

type ListDirError struct {
	Path  string
	Cause error
}

func (e *ListDirError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Path, e.Cause)
}
func (e *ListDirError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrFileMissing   = errors.New("file or path does not exist")
	ErrNotADirectory = errors.New("not a directory")
	ErrNegativeDepth = errors.New("max_depth cannot be negative")
)
