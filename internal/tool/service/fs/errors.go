package fs

import (
	"errors"
	"fmt"
)

// WriteStage names the step of an atomic write that failed.
type WriteStage string

const (
	StageCreate WriteStage = "create temp file"
	StageWrite  WriteStage = "write temp file"
	StageSync   WriteStage = "sync temp file"
	StageChmod  WriteStage = "set permissions on temp file"
	StageClose  WriteStage = "close temp file"
	StageRename WriteStage = "rename temp file"
)

// WriteError is returned by WriteFileAtomic. The target is unchanged at every stage.
type WriteError struct {
	Path  string
	Stage WriteStage
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %s: %v", e.Path, e.Stage, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// TooLargeError is returned when a file exceeds a read limit.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, over the %d byte limit", e.Path, e.Size, e.Limit)
}
func (e *TooLargeError) Unwrap() error { return ErrTooLarge }

var ErrTooLarge = errors.New("file too large")
