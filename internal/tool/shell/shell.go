package shell

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/service/executor"
)

type commandExecutor interface {
	Run(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

type dirChecker interface {
	Stat(path string) (os.FileInfo, error)
}

// ShellTool runs commands through sh on the local machine.
type ShellTool struct {
	commandExecutor commandExecutor
	fs              dirChecker
	config          *config.Config
}

// NewShellTool creates a new ShellTool with injected dependencies.
func NewShellTool(commandExecutor commandExecutor, fs dirChecker, cfg *config.Config) *ShellTool {
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ShellTool{
		commandExecutor: commandExecutor,
		fs:              fs,
		config:          cfg,
	}
}

// Prepare validates req and parses the command without running anything.
// req.Cwd must already be resolved by the path guard.
func (t *ShellTool) Prepare(req *RunCommandRequest) (*Analysis, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}
	info, err := t.fs.Stat(req.Cwd)
	if err != nil || !info.IsDir() {
		return nil, ErrWorkingDirectory
	}
	return Analyze(req.Command)
}

// Run executes req.Command with sh -c in req.Cwd.
// NOTE: This tool does NOT enforce approval - the caller is responsible for that.
//
// On timeout the partial response is returned together with the executor's
// *executor.TimeoutError; the process group is already gone by then.
func (t *ShellTool) Run(ctx context.Context, req *RunCommandRequest) (*RunCommandResponse, error) {
	if _, err := t.Prepare(req); err != nil {
		return nil, err
	}

	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	result, execErr := t.commandExecutor.Run(ctx, []string{"sh", "-c", req.Command}, req.Cwd, os.Environ(), timeout)
	if result == nil {
		result = &executor.Result{ExitCode: -1}
	}

	resp := &RunCommandResponse{
		Command:    req.Command,
		ExitCode:   result.ExitCode,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		Truncated:  result.Truncated,
		DurationMs: result.Duration.Milliseconds(),
	}

	if execErr != nil {
		if errors.Is(execErr, executor.ErrTimeout) || errors.Is(execErr, context.Canceled) || errors.Is(execErr, context.DeadlineExceeded) {
			return resp, execErr
		}
		return nil, execErr
	}
	return resp, nil
}
