package file

import (
	"errors"
	"fmt"
)

// -- Error Types --

type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}
func (e *StatError) Unwrap() error { return e.Cause }

type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

type EnsureDirsError struct {
	Path  string
	Cause error
}

func (e *EnsureDirsError) Error() string {
	return fmt.Sprintf("failed to create directory %s: %v", e.Path, e.Cause)
}
func (e *EnsureDirsError) Unwrap() error { return e.Cause }

// TooLargeError is returned when content exceeds the configured file size limit.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, over the %d byte limit", e.Path, e.Size, e.Limit)
}
func (e *TooLargeError) Unwrap() error { return ErrFileTooLarge }

// -- Sentinels --

var (
	ErrFileMissing  = errors.New("file or path does not exist")
	ErrBinaryFile   = errors.New("file is binary")
	ErrFileTooLarge = errors.New("file too large")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrPathRequired = errors.New("path is required")
)
