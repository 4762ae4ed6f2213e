package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func newTestExecutor(mutate func(*config.Config)) *OSCommandExecutor {
	cfg := config.DefaultConfig()
	cfg.Tools.KillGraceMs = 100
	if mutate != nil {
		mutate(cfg)
	}
	return NewOSCommandExecutor(cfg)
}

func TestRun(t *testing.T) {
	requireShell(t)
	exec := newTestExecutor(nil)

	t.Run("SimpleCommand", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"echo", "hello"}, "", nil, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "hello", strings.TrimSpace(res.Stdout))
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.Truncated)
	})

	t.Run("EmptyCommand", func(t *testing.T) {
		_, err := exec.Run(context.Background(), []string{}, "", nil, time.Second)
		assert.ErrorIs(t, err, ErrEmptyCommand)
	})

	t.Run("NonZeroExitIsNotAnError", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"sh", "-c", "exit 3"}, "", nil, time.Second)
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("Stderr", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"sh", "-c", "echo error >&2"}, "", nil, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "error", strings.TrimSpace(res.Stderr))
		assert.Empty(t, res.Stdout)
	})

	t.Run("WorkingDirectory", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		res, err := exec.Run(context.Background(), []string{"sh", "-c", "pwd -P"}, dir, nil, time.Second)
		require.NoError(t, err)
		assert.Equal(t, dir, strings.TrimSpace(res.Stdout))
	})

	t.Run("Environment", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"sh", "-c", "echo $GREETING"}, "", []string{"GREETING=hi"}, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "hi", strings.TrimSpace(res.Stdout))
	})

	t.Run("SpawnFailure", func(t *testing.T) {
		_, err := exec.Run(context.Background(), []string{"definitely-not-a-real-binary-xyz"}, "", nil, time.Second)
		var spawnErr *SpawnError
		require.ErrorAs(t, err, &spawnErr)
		assert.Equal(t, "definitely-not-a-real-binary-xyz", spawnErr.Cmd)
	})

	t.Run("LargeOutputIsTruncatedWithMarker", func(t *testing.T) {
		small := newTestExecutor(func(c *config.Config) { c.Tools.MaxCommandOutputBytes = 10 })

		res, err := small.Run(context.Background(), []string{"echo", "123456789012345"}, "", nil, time.Second)
		require.NoError(t, err)
		assert.True(t, res.Truncated)
		assert.Equal(t, "1234567890"+TruncationMarker, res.Stdout)
	})

	t.Run("BinaryOutput", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"printf", `a\000b`}, "", nil, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "[Binary Content]", res.Stdout)
	})
}

func TestRun_Timeout(t *testing.T) {
	requireShell(t)
	exec := newTestExecutor(nil)

	t.Run("TimeoutKillsProcess", func(t *testing.T) {
		start := time.Now()
		res, err := exec.Run(context.Background(), []string{"sleep", "5"}, "", nil, time.Second)

		assert.ErrorIs(t, err, ErrTimeout)
		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, time.Second, timeoutErr.Timeout)
		assert.Equal(t, -1, res.ExitCode)
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("OutputCollectedOnTimeout", func(t *testing.T) {
		res, err := exec.Run(context.Background(), []string{"sh", "-c", "echo starting; sleep 10"}, "", nil, 300*time.Millisecond)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Contains(t, res.Stdout, "starting")
	})

	t.Run("NoDescendantSurvives", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("inspects /proc")
		}
		res, err := exec.Run(context.Background(), []string{"sh", "-c", "sleep 30 & echo $!; wait"}, "", nil, 300*time.Millisecond)
		require.ErrorIs(t, err, ErrTimeout)

		pid, convErr := strconv.Atoi(strings.TrimSpace(res.Stdout))
		require.NoError(t, convErr)

		assert.Eventually(t, func() bool { return !processRunning(pid) }, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("IgnoredSigtermEscalates", func(t *testing.T) {
		start := time.Now()
		_, err := exec.Run(context.Background(), []string{"sh", "-c", "trap '' TERM; sleep 10"}, "", nil, 200*time.Millisecond)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestRun_ContextCancelled(t *testing.T) {
	requireShell(t)
	exec := newTestExecutor(nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := exec.Run(ctx, []string{"sleep", "10"}, "", nil, 10*time.Second)
	assert.True(t, errors.Is(err, context.Canceled))
}

// processRunning treats zombies as gone: they hold no resources and only wait to be reaped.
func processRunning(pid int) bool {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return false
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return false
	}
	return fields[2] != "Z" && fields[2] != "X"
}
