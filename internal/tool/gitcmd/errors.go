package gitcmd

import (
	"errors"
	"fmt"
	"strings"
)

// GitError is returned when git exits non-zero. Stderr carries git's own message.
type GitError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *GitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

// RepoOutsideSandboxError is returned when the work tree root is outside the
// allowed directories, even though the requested path is inside them.
type RepoOutsideSandboxError struct {
	Path string
	Root string
}

func (e *RepoOutsideSandboxError) Error() string {
	return fmt.Sprintf("repository root %s for %s is outside the allowed directories", e.Root, e.Path)
}
func (e *RepoOutsideSandboxError) Unwrap() error { return ErrRepoOutsideSandbox }

var (
	ErrMessageRequired    = errors.New("message is required")
	ErrNegativeCount      = errors.New("count cannot be negative")
	ErrRepoOutsideSandbox = errors.New("repository root outside allowed directories")
)
