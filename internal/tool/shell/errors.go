package shell

import (
	"errors"
	"fmt"
)

// ParseError is returned for a command string that is not valid POSIX shell.
type ParseError struct {
	Command string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse command %q: %v", e.Command, e.Cause)
}
func (e *ParseError) Unwrap() error { return e.Cause }

var (
	ErrCommandRequired  = errors.New("command is required")
	ErrNegativeTimeout  = errors.New("timeout_seconds cannot be negative")
	ErrWorkingDirectory = errors.New("working directory is not a directory")
)
