package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/gate"
	"github.com/Cyclone1070/toolgate/internal/metrics"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/Cyclone1070/toolgate/internal/tool/service/executor"
	"github.com/Cyclone1070/toolgate/internal/tool/service/fs"
	"github.com/Cyclone1070/toolgate/internal/tool/service/path"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanPrompter struct {
	ch  chan ApprovalRequest
	err error
}

func (p *chanPrompter) Prompt(ctx context.Context, req ApprovalRequest) error {
	if p.err != nil {
		return p.err
	}
	p.ch <- req
	return nil
}

type harness struct {
	d       *Dispatcher
	root    string
	prompts *chanPrompter
	metrics *metrics.Metrics
}

func newHarness(t *testing.T, window time.Duration, mutate func(*config.Config)) *harness {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Gateway.AllowedDirectories = []string{root}
	cfg.Tools.KillGraceMs = 100
	if mutate != nil {
		mutate(cfg)
	}

	osfs := fs.NewOSFileSystem()
	guard, err := path.NewGuard(osfs, cfg.Gateway.AllowedDirectories, "")
	require.NoError(t, err)

	h := &harness{
		root:    root,
		prompts: &chanPrompter{ch: make(chan ApprovalRequest, 8)},
		metrics: metrics.New(),
	}
	h.d = New(cfg, Deps{
		Guard:    guard,
		FS:       osfs,
		Executor: executor.NewOSCommandExecutor(cfg),
		Prompter: h.prompts,
		Window:   window,
		Metrics:  h.metrics,
	})
	return h
}

// start dispatches call in the background.
func (h *harness) start(ctx context.Context, call tool.Call) <-chan tool.Result {
	done := make(chan tool.Result, 1)
	go func() { done <- h.d.Dispatch(ctx, call) }()
	return done
}

func (h *harness) nextPrompt(t *testing.T) ApprovalRequest {
	t.Helper()
	select {
	case req := <-h.prompts.ch:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("no approval prompt")
		return ApprovalRequest{}
	}
}

func (h *harness) noPrompt(t *testing.T) {
	t.Helper()
	select {
	case req := <-h.prompts.ch:
		t.Fatalf("unexpected approval prompt for %s", req.Tool)
	default:
	}
}

func wait(t *testing.T, done <-chan tool.Result) tool.Result {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch did not return")
		return tool.Result{}
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestDispatch_SafeCallRunsWithoutApproval(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "a.txt"), []byte("one\ntwo\n"), 0o644))

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.ReadFile, map[string]any{"path": "a.txt"}))

	require.Equal(t, tool.Success, r.Outcome, r.Content())
	assert.Contains(t, r.Content(), "one\ntwo")
	h.noPrompt(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Dispatches.WithLabelValues("read_file", "success")))
}

func TestDispatch_ApprovedWriteFile(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	target := filepath.Join(h.root, "new.txt")

	done := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{
		"path":    target,
		"content": "hello\nworld",
	}))

	req := h.nextPrompt(t)
	assert.Equal(t, "write_file", req.Tool)
	assert.Equal(t, target, req.Args["path"])
	assert.Contains(t, req.Description(), `"content": "hello\nworld"`)

	_, err := os.Stat(target)
	require.ErrorIs(t, err, os.ErrNotExist, "effect must wait for approval")

	require.NoError(t, h.d.Resolve(req.ID, true))
	r := wait(t, done)

	require.Equal(t, tool.Success, r.Outcome, r.Content())
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", string(got))
}

func TestDispatch_DeniedNeverRunsEffect(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	target := filepath.Join(h.root, "denied.txt")

	done := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "denied.txt", "content": "x"}))
	req := h.nextPrompt(t)
	require.NoError(t, h.d.Resolve(req.ID, false))
	r := wait(t, done)

	assert.Equal(t, tool.Denied, r.Outcome)
	require.NotNil(t, r.Err)
	assert.Equal(t, tool.KindDenied, r.Err.Kind)
	assert.NoFileExists(t, target)
}

func TestDispatch_ExpiredNeverRunsEffect(t *testing.T) {
	window := 200 * time.Millisecond
	h := newHarness(t, window, nil)
	target := filepath.Join(h.root, "late.txt")

	start := time.Now()
	done := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "late.txt", "content": "x"}))
	req := h.nextPrompt(t)
	r := wait(t, done)

	assert.Equal(t, tool.Expired, r.Outcome)
	assert.Equal(t, tool.KindExpired, r.Err.Kind)
	assert.GreaterOrEqual(t, time.Since(start), window)
	assert.Less(t, time.Since(start), window+time.Second)
	assert.NoFileExists(t, target)

	err := h.d.Resolve(req.ID, true)
	assert.ErrorIs(t, err, gate.ErrAlreadyResolved)
	assert.NoFileExists(t, target)
}

func TestDispatch_DoubleResolveRunsOnce(t *testing.T) {
	requireShell(t)
	h := newHarness(t, time.Minute, nil)

	done := h.start(context.Background(), tool.NewCall("c1", tool.RunCommand, map[string]any{"command": "echo x >> count.txt"}))
	req := h.nextPrompt(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.d.Resolve(req.ID, true)
		}(i)
	}
	wg.Wait()
	r := wait(t, done)
	require.Equal(t, tool.Success, r.Outcome, r.Content())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, gate.ErrAlreadyResolved)
	}
	assert.Equal(t, 1, succeeded)

	got, err := os.ReadFile(filepath.Join(h.root, "count.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(got))
}

func TestDispatch_SinglePendingSlot(t *testing.T) {
	h := newHarness(t, time.Minute, nil)

	first := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "a.txt", "content": "a"}))
	req := h.nextPrompt(t)

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "b.txt", "content": "b"}))
	assert.Equal(t, tool.Rejected, r.Outcome)
	assert.Equal(t, tool.KindConflict, r.Err.Kind)
	h.noPrompt(t)
	assert.Equal(t, 1, h.d.Status().PendingApprovals)

	t.Run("other conversations are independent", func(t *testing.T) {
		other := h.start(context.Background(), tool.NewCall("c2", tool.WriteFile, map[string]any{"path": "c.txt", "content": "c"}))
		otherReq := h.nextPrompt(t)
		assert.Equal(t, "c2", otherReq.ConversationID)
		assert.Equal(t, 2, h.d.Status().PendingApprovals)
		require.NoError(t, h.d.Resolve(otherReq.ID, true))
		assert.Equal(t, tool.Success, wait(t, other).Outcome)
	})

	require.NoError(t, h.d.Resolve(req.ID, false))
	assert.Equal(t, tool.Denied, wait(t, first).Outcome)
	assert.NoFileExists(t, filepath.Join(h.root, "b.txt"))

	t.Run("slot is free after resolution", func(t *testing.T) {
		next := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "b.txt", "content": "b"}))
		nextReq := h.nextPrompt(t)
		require.NoError(t, h.d.Resolve(nextReq.ID, true))
		assert.Equal(t, tool.Success, wait(t, next).Outcome)
	})
}

func TestDispatch_RejectedStillReportsPathViolation(t *testing.T) {
	h := newHarness(t, time.Minute, nil)

	first := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "a.txt", "content": "a"}))
	req := h.nextPrompt(t)

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "../escape.txt", "content": "b"}))
	assert.Equal(t, tool.Failed, r.Outcome)
	assert.Equal(t, tool.KindPathViolation, r.Err.Kind)

	require.NoError(t, h.d.Resolve(req.ID, false))
	wait(t, first)
}

func TestDispatch_PolicyFailuresSkipTheGate(t *testing.T) {
	h := newHarness(t, time.Minute, func(c *config.Config) { c.Gateway.MaxFileSizeKB = 1 })
	big := strings.Repeat("x", 2048)
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "big.txt"), []byte(big), 0o644))

	tests := []struct {
		name string
		call tool.Call
		kind tool.ErrorKind
	}{
		{"write outside the sandbox", tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "/etc/toolgate-test", "content": "x"}), tool.KindPathViolation},
		{"traversal", tool.NewCall("c1", tool.WriteFile, map[string]any{"path": h.root + "/../x", "content": "x"}), tool.KindPathViolation},
		{"command in a directory outside", tool.NewCall("c1", tool.RunCommand, map[string]any{"command": "ls", "cwd": "/"}), tool.KindPathViolation},
		{"oversized write", tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "w.txt", "content": big}), tool.KindFileTooLarge},
		{"oversized read", tool.NewCall("c1", tool.ReadFile, map[string]any{"path": "big.txt"}), tool.KindFileTooLarge},
		{"missing path", tool.NewCall("c1", tool.WriteFile, map[string]any{"content": "x"}), tool.KindInvalidArgument},
		{"path of the wrong type", tool.NewCall("c1", tool.ReadFile, map[string]any{"path": 42}), tool.KindInvalidArgument},
		{"unparsable command", tool.NewCall("c1", tool.RunCommand, map[string]any{"command": "echo ("}), tool.KindInvalidArgument},
		{"empty command", tool.NewCall("c1", tool.RunCommand, map[string]any{"command": "  "}), tool.KindInvalidArgument},
		{"empty commit message", tool.NewCall("c1", tool.GitCommit, map[string]any{"message": ""}), tool.KindInvalidArgument},
		{"search without pattern", tool.NewCall("c1", tool.Search, map[string]any{}), tool.KindInvalidArgument},
		{"unknown tool", tool.NewCall("c1", tool.Name("rm_rf"), nil), tool.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := h.d.Dispatch(context.Background(), tt.call)
			assert.Equal(t, tool.Failed, r.Outcome)
			require.NotNil(t, r.Err)
			assert.Equal(t, tt.kind, r.Err.Kind, r.Err.Message)
			h.noPrompt(t)
		})
	}
	assert.NoFileExists(t, filepath.Join(h.root, "w.txt"))
	assert.Zero(t, h.d.Status().PendingApprovals)
}

func TestDispatch_RunCommandTimeout(t *testing.T) {
	requireShell(t)
	h := newHarness(t, time.Minute, nil)

	done := h.start(context.Background(), tool.NewCall("c1", tool.RunCommand, map[string]any{
		"command":         "sleep 5",
		"timeout_seconds": 1,
	}))
	req := h.nextPrompt(t)
	assert.Contains(t, req.Notes, "Programs: sleep")

	start := time.Now()
	require.NoError(t, h.d.Resolve(req.ID, true))
	r := wait(t, done)

	assert.Equal(t, tool.Failed, r.Outcome)
	assert.Equal(t, tool.KindTimeout, r.Err.Kind)
	assert.Nil(t, r.Payload)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestDispatch_NonZeroExitIsSuccess(t *testing.T) {
	requireShell(t)
	h := newHarness(t, time.Minute, func(c *config.Config) { c.Gateway.RequireConfirmation = false })

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.RunCommand, map[string]any{"command": "echo oops >&2; exit 3"}))

	require.Equal(t, tool.Success, r.Outcome, r.Content())
	assert.Contains(t, r.Content(), "Exit code: 3")
	assert.Contains(t, r.Content(), "oops")
}

func TestDispatch_ConfirmationDisabled(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	h.d.SetRequireConfirmation(false)
	assert.False(t, h.d.Status().RequireConfirmation)

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "direct.txt", "content": "x"}))

	require.Equal(t, tool.Success, r.Outcome, r.Content())
	h.noPrompt(t)
	assert.FileExists(t, filepath.Join(h.root, "direct.txt"))
}

func TestDispatch_PromptFailure(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	h.prompts.err = errors.New("chat unreachable")

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "x.txt", "content": "x"}))

	assert.Equal(t, tool.Failed, r.Outcome)
	assert.Equal(t, tool.KindPromptFailure, r.Err.Kind)
	assert.Contains(t, r.Err.Message, "chat unreachable")
	assert.Zero(t, h.d.Status().PendingApprovals)
	assert.NoFileExists(t, filepath.Join(h.root, "x.txt"))

	h.prompts.err = nil
	done := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "x.txt", "content": "x"}))
	req := h.nextPrompt(t)
	require.NoError(t, h.d.Resolve(req.ID, true))
	assert.Equal(t, tool.Success, wait(t, done).Outcome)
}

func TestDispatch_CancelWhileWaiting(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := h.start(ctx, tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "x.txt", "content": "x"}))
	req := h.nextPrompt(t)
	cancel()
	r := wait(t, done)

	assert.Equal(t, tool.Failed, r.Outcome)
	assert.Equal(t, tool.KindCancelled, r.Err.Kind)
	assert.ErrorIs(t, h.d.Resolve(req.ID, true), gate.ErrAlreadyResolved)
	assert.NoFileExists(t, filepath.Join(h.root, "x.txt"))
}

func TestDispatch_HistoryBound(t *testing.T) {
	h := newHarness(t, time.Minute, func(c *config.Config) { c.Gateway.MaxHistoryLen = 3 })
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, os.WriteFile(filepath.Join(h.root, name), []byte(name), 0o644))
		h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.ReadFile, map[string]any{"path": name}))
	}

	history := h.d.History("c1")
	require.Len(t, history, 3)
	for i, want := range []string{"b", "c", "d"} {
		got, _ := history[i].Call.Arg("path")
		assert.Equal(t, want, got)
	}

	assert.True(t, h.d.Clear("c1"))
	assert.Empty(t, h.d.History("c1"))
}

func TestDispatch_ReloadAllowedRoots(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	other, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(other, "o.txt"), []byte("o"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "r.txt"), []byte("r"), 0o644))

	read := func(p string) tool.Result {
		return h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.ReadFile, map[string]any{"path": p}))
	}
	assert.Equal(t, tool.KindPathViolation, read(filepath.Join(other, "o.txt")).Err.Kind)

	require.NoError(t, h.d.SetAllowedRoots([]string{other}, ""))
	assert.Equal(t, []string{other}, h.d.Status().AllowedRoots)

	assert.Equal(t, tool.Success, read(filepath.Join(other, "o.txt")).Outcome)
	assert.Equal(t, tool.KindPathViolation, read(filepath.Join(h.root, "r.txt")).Err.Kind)

	assert.Error(t, h.d.SetAllowedRoots(nil, ""))
	assert.Equal(t, []string{other}, h.d.Status().AllowedRoots)
}

func TestDispatch_ApprovalRechecksPaths(t *testing.T) {
	t.Run("root revoked while waiting", func(t *testing.T) {
		h := newHarness(t, time.Minute, nil)
		other, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)

		done := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "a.txt", "content": "a"}))
		req := h.nextPrompt(t)
		require.NoError(t, h.d.SetAllowedRoots([]string{other}, ""))
		require.NoError(t, h.d.Resolve(req.ID, true))

		r := wait(t, done)
		assert.Equal(t, tool.Failed, r.Outcome)
		assert.Equal(t, tool.KindPathViolation, r.Err.Kind)
		assert.NoFileExists(t, filepath.Join(h.root, "a.txt"))
	})

	t.Run("directory swapped for a symlink while waiting", func(t *testing.T) {
		h := newHarness(t, time.Minute, nil)
		other, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, h.d.SetAllowedRoots([]string{h.root, other}, h.root))
		sub := filepath.Join(h.root, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))

		done := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "sub/a.txt", "content": "a"}))
		req := h.nextPrompt(t)
		require.NoError(t, os.Remove(sub))
		require.NoError(t, os.Symlink(other, sub))
		require.NoError(t, h.d.Resolve(req.ID, true))

		r := wait(t, done)
		assert.Equal(t, tool.Failed, r.Outcome)
		assert.Equal(t, tool.KindPathViolation, r.Err.Kind)
		assert.Contains(t, r.Err.Message, ErrPathChanged.Error())
		assert.NoFileExists(t, filepath.Join(other, "a.txt"))
	})
}

func TestDispatch_RejectedRecordedInDispatchOrder(t *testing.T) {
	h := newHarness(t, time.Minute, nil)

	first := h.start(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "a.txt", "content": "a"}))
	req := h.nextPrompt(t)

	r := h.d.Dispatch(context.Background(), tool.NewCall("c1", tool.WriteFile, map[string]any{"path": "b.txt", "content": "b"}))
	require.Equal(t, tool.Rejected, r.Outcome)
	assert.Empty(t, h.d.History("c1"))

	require.NoError(t, h.d.Resolve(req.ID, true))
	require.Equal(t, tool.Success, wait(t, first).Outcome)

	require.Eventually(t, func() bool { return len(h.d.History("c1")) == 2 }, 2*time.Second, 5*time.Millisecond)
	history := h.d.History("c1")
	assert.Equal(t, tool.Success, history[0].Result.Outcome)
	assert.Equal(t, tool.Rejected, history[1].Result.Outcome)
	got, _ := history[1].Call.Arg("path")
	assert.Equal(t, "b.txt", got)
}

func TestDispatch_ConversationSerializedInOrder(t *testing.T) {
	requireShell(t)
	h := newHarness(t, time.Minute, func(c *config.Config) { c.Gateway.RequireConfirmation = false })
	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(h.root, fmt.Sprintf("f%d", i)), []byte("x"), 0o644))
	}

	slow := h.start(context.Background(), tool.NewCall("c1", tool.RunCommand, map[string]any{"command": "sleep 1"}))
	time.Sleep(50 * time.Millisecond)

	var queued []<-chan tool.Result
	for i := 0; i < n; i++ {
		queued = append(queued, h.start(context.Background(), tool.NewCall("c1", tool.ReadFile, map[string]any{"path": fmt.Sprintf("f%d", i)})))
		time.Sleep(20 * time.Millisecond)
	}

	t.Run("other conversations are not held up", func(t *testing.T) {
		r := h.d.Dispatch(context.Background(), tool.NewCall("c2", tool.ReadFile, map[string]any{"path": "f0"}))
		assert.Equal(t, tool.Success, r.Outcome)
		assert.Empty(t, h.d.History("c1"))
	})

	require.Equal(t, tool.Success, wait(t, slow).Outcome)
	for _, done := range queued {
		assert.Equal(t, tool.Success, wait(t, done).Outcome)
	}

	history := h.d.History("c1")
	require.Len(t, history, n+1)
	assert.Equal(t, tool.RunCommand, history[0].Call.Name)
	for i := 0; i < n; i++ {
		got, _ := history[i+1].Call.Arg("path")
		assert.Equal(t, fmt.Sprintf("f%d", i), got)
	}
}

func TestDispatch_SafeToolsEndToEnd(t *testing.T) {
	h := newHarness(t, time.Minute, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "src", "main.go"), []byte("package main\n// TODO: wire flags\n"), 0o644))

	tests := []struct {
		name string
		call tool.Call
		want string
	}{
		{"list_dir", tool.NewCall("c1", tool.ListDir, map[string]any{"recursive": "true"}), "main.go"},
		{"tree", tool.NewCall("c1", tool.Tree, map[string]any{"max_depth": 2.0}), "src/"},
		{"search", tool.NewCall("c1", tool.Search, map[string]any{"pattern": "PACKAGE", "file_extension": ".go"}), "src/main.go:1: package main"},
		{"todo_find", tool.NewCall("c1", tool.TodoFind, map[string]any{"path": "src"}), "[TODO] main.go:2:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := h.d.Dispatch(context.Background(), tt.call)
			require.Equal(t, tool.Success, r.Outcome, r.Content())
			assert.Contains(t, r.Content(), tt.want)
		})
	}
	h.noPrompt(t)
}

func TestDeclarations(t *testing.T) {
	decls := Declarations()
	require.Len(t, decls, len(tool.Names))
	for i, d := range decls {
		assert.Equal(t, string(tool.Names[i]), d.Name)
		assert.NotEmpty(t, d.Description)
		require.NotNil(t, d.Parameters)
		assert.Equal(t, tool.TypeObject, d.Parameters.Type)
	}
}
