package search

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

type WalkError struct {
	Path  string
	Cause error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("failed to search %s: %v", e.Path, e.Cause)
}
func (e *WalkError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrFileMissing     = errors.New("search path does not exist")
	ErrNotADirectory   = errors.New("search path is not a directory")
	ErrPatternRequired = errors.New("pattern is required")
)
