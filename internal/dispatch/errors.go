package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/Cyclone1070/toolgate/internal/tool/file"
	"github.com/Cyclone1070/toolgate/internal/tool/gitcmd"
	"github.com/Cyclone1070/toolgate/internal/tool/service/executor"
	"github.com/Cyclone1070/toolgate/internal/tool/service/fs"
	"github.com/Cyclone1070/toolgate/internal/tool/service/path"
	"github.com/Cyclone1070/toolgate/internal/tool/shell"
)

// ArgumentError wraps a call argument that could not be decoded or validated.
type ArgumentError struct {
	Tool  tool.Name
	Key   string
	Cause error
}

func (e *ArgumentError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: argument %q: %v", e.Tool, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Cause)
}
func (e *ArgumentError) Unwrap() error { return e.Cause }

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrMissingArgument = errors.New("missing required argument")
	ErrNotAString      = errors.New("must be a string")
	ErrPathChanged     = errors.New("path resolves elsewhere than when it was approved")
)

// errorKind maps an error from any stage of dispatch to its ErrorKind.
// Order matters: a size error raised during validation is FileTooLarge, not InvalidArgument.
func errorKind(err error) tool.ErrorKind {
	var spawnErr *executor.SpawnError
	var argErr *ArgumentError
	var parseErr *shell.ParseError
	switch {
	case errors.Is(err, path.ErrTraversal),
		errors.Is(err, path.ErrOutsideSandbox),
		errors.Is(err, path.ErrEmptyPath),
		errors.Is(err, path.ErrNoAllowedRoots),
		errors.Is(err, gitcmd.ErrRepoOutsideSandbox),
		errors.Is(err, ErrPathChanged):
		return tool.KindPathViolation
	case isViolation(err):
		return tool.KindPathViolation
	case errors.Is(err, file.ErrFileTooLarge), errors.Is(err, fs.ErrTooLarge):
		return tool.KindFileTooLarge
	case errors.Is(err, executor.ErrTimeout):
		return tool.KindTimeout
	case errors.As(err, &spawnErr):
		return tool.KindSpawnFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return tool.KindCancelled
	case errors.As(err, &argErr), errors.As(err, &parseErr),
		errors.Is(err, shell.ErrWorkingDirectory), errors.Is(err, ErrUnknownTool):
		return tool.KindInvalidArgument
	default:
		return tool.KindExecution
	}
}

func isViolation(err error) bool {
	var v *path.ViolationError
	return errors.As(err, &v)
}
