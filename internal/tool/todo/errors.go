package todo

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
	return fmt.Sprintf("failed to scan %s: %v", e.Path, e.Cause)
}
func (e *WalkError) Unwrap() error { return e.Cause }

var (
	ErrFileMissing   = errors.New("path does not exist")
	ErrNotADirectory = errors.New("path is not a directory")
)
