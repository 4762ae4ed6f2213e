package executor

import (
	"errors"
	"fmt"
	"time"
)

// -- Error Types --

// TimeoutError is returned when a command outlives its timeout.
// The whole process group has been terminated by the time it is returned.
type TimeoutError struct {
	Cmd     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %s timed out after %s", e.Cmd, e.Timeout)
}
func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// SpawnError is returned when the process could not be started at all.
type SpawnError struct {
	Cmd   string
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Cmd, e.Cause)
}
func (e *SpawnError) Unwrap() error { return e.Cause }

// CommandError represents command failures after a successful start.
type CommandError struct {
	Cmd   string
	Cause error
	Stage string // "wait", "read output"
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrTimeout      = errors.New("command timeout")
	ErrEmptyCommand = errors.New("command is empty")
)
