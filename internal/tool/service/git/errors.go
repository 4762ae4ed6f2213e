package git

import (
	"errors"
	"fmt"
)

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

// NotARepositoryError is returned when a directory is not inside a git work tree.
type NotARepositoryError struct {
	Path string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s is not a git repository", e.Path)
}
func (e *NotARepositoryError) Unwrap() error { return ErrNotARepository }

// OpenError wraps any other failure opening a repository.
type OpenError struct {
	Path  string
	Cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open repository at %s: %v", e.Path, e.Cause)
}
func (e *OpenError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrNotARepository = errors.New("not a git repository")
)
