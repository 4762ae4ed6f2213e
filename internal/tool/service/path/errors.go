package path

import (
	"errors"
	"fmt"
)

// ViolationKind says how a path escaped the allow-list.
type ViolationKind string

const (
	// Traversal: a ".." segment climbed out of every allowed root.
	Traversal ViolationKind = "traversal"
	// OutsideSandbox: the canonical target lies outside every allowed root.
	OutsideSandbox ViolationKind = "outside_sandbox"
	// Unresolvable: the path could not be canonicalised (symlink loop, I/O error).
	Unresolvable ViolationKind = "unresolvable"
)

// -- Error Types --

// ViolationError is returned when a path does not canonicalise into an allowed root.
type ViolationError struct {
	Path     string
	Resolved string
	Kind     ViolationKind
	Cause    error
}

func (e *ViolationError) Error() string {
	switch e.Kind {
	case Traversal:
		return fmt.Sprintf("path %q traverses outside the allowed directories", e.Path)
	case OutsideSandbox:
		return fmt.Sprintf("path %q resolves to %s, outside the allowed directories", e.Path, e.Resolved)
	default:
		return fmt.Sprintf("path %q cannot be resolved: %v", e.Path, e.Cause)
	}
}

func (e *ViolationError) Unwrap() error {
	switch e.Kind {
	case Traversal:
		return ErrTraversal
	case OutsideSandbox:
		return ErrOutsideSandbox
	default:
		return e.Cause
	}
}

// RootError is returned when an allowed root is invalid.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid allowed directory %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

// SymlinkLoopError is returned when resolution follows too many links.
type SymlinkLoopError struct {
	Path string
	Hops int
}

func (e *SymlinkLoopError) Error() string {
	return fmt.Sprintf("too many levels of symbolic links resolving %s (%d hops)", e.Path, e.Hops)
}

// LstatError wraps an lstat failure other than "not found".
type LstatError struct {
	Path  string
	Cause error
}

func (e *LstatError) Error() string {
	return fmt.Sprintf("failed to lstat %s: %v", e.Path, e.Cause)
}
func (e *LstatError) Unwrap() error { return e.Cause }

// ReadlinkError wraps a readlink failure.
type ReadlinkError struct {
	Path  string
	Cause error
}

func (e *ReadlinkError) Error() string {
	return fmt.Sprintf("failed to read symlink %s: %v", e.Path, e.Cause)
}
func (e *ReadlinkError) Unwrap() error { return e.Cause }

// TildeExpansionError is returned when the home directory is unavailable.
type TildeExpansionError struct {
	Cause error
}

func (e *TildeExpansionError) Error() string {
	return fmt.Sprintf("failed to expand ~: %v", e.Cause)
}
func (e *TildeExpansionError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrTraversal      = errors.New("path traversal outside allowed directories")
	ErrOutsideSandbox = errors.New("path is outside allowed directories")
	ErrNoAllowedRoots = errors.New("no allowed directories configured")
	ErrNotADirectory  = errors.New("not a directory")
	ErrEmptyPath      = errors.New("path is empty")
)
