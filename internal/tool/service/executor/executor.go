package executor

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// Result represents the outcome of a command execution.
// A non-zero ExitCode is a normal result, not an error.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	Duration  time.Duration
}

// OSCommandExecutor implements command execution using os/exec for real system commands.
type OSCommandExecutor struct {
	maxOutputBytes int
	sampleSize     int
	killGrace      time.Duration
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	return &OSCommandExecutor{
		maxOutputBytes: cfg.Tools.MaxCommandOutputBytes,
		sampleSize:     cfg.Tools.BinarySampleSize,
		killGrace:      time.Duration(cfg.Tools.KillGraceMs) * time.Millisecond,
	}
}

// Run executes command in dir and waits at most timeout for it to finish.
//
// On timeout the child's whole process group receives SIGTERM, then SIGKILL
// after the grace period, and a *TimeoutError is returned together with
// whatever output was captured. Cancelling ctx terminates the group the same
// way and returns ctx.Err(). env nil inherits the current environment.
func (f *OSCommandExecutor) Run(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil

	stdout := newCapture(f.maxOutputBytes, f.sampleSize)
	stderr := newCapture(f.maxOutputBytes, f.sampleSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	setProcessGroup(cmd)
	// Bounds how long Wait keeps draining pipes held open by stray descendants.
	cmd.WaitDelay = f.killGrace + time.Second

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Cmd: command[0], Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr, runErr error
	select {
	case waitErr = <-done:
	case <-timer.C:
		waitErr = f.stop(cmd, done)
		runErr = &TimeoutError{Cmd: command[0], Timeout: timeout}
	case <-ctx.Done():
		waitErr = f.stop(cmd, done)
		runErr = ctx.Err()
	}

	result := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  f.getExitCode(waitErr),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  time.Since(start),
	}

	if runErr != nil {
		result.ExitCode = -1
		return result, runErr
	}

	if waitErr != nil && !isExitError(waitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return result, &CommandError{Cmd: command[0], Cause: waitErr, Stage: "wait"}
	}

	return result, nil
}

// stop asks the group to exit, escalates to SIGKILL after the grace period,
// and always returns only once the leader has been reaped.
func (f *OSCommandExecutor) stop(cmd *exec.Cmd, done <-chan error) error {
	_ = terminateGroup(cmd)

	grace := time.NewTimer(f.killGrace)
	defer grace.Stop()

	select {
	case err := <-done:
		_ = killGroup(cmd)
		return err
	case <-grace.C:
		_ = killGroup(cmd)
		return <-done
	}
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func (f *OSCommandExecutor) getExitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}
