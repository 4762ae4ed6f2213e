// Package gitcmd runs the git tools through the git binary.
package gitcmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/helper/content"
	"github.com/Cyclone1070/toolgate/internal/tool/service/executor"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
)

type commandExecutor interface {
	Run(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

// pathGuard re-checks the work tree root, which may lie above the requested path.
type pathGuard interface {
	Resolve(raw string) (string, error)
}

// Tool implements git_status, git_diff, git_log, git_commit and git_push.
type Tool struct {
	exec   commandExecutor
	guard  pathGuard
	config *config.Config
}

// NewTool creates a new Tool with injected dependencies.
func NewTool(exec commandExecutor, guard pathGuard, cfg *config.Config) *Tool {
	if exec == nil {
		panic("exec is required")
	}
	if guard == nil {
		panic("guard is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &Tool{exec: exec, guard: guard, config: cfg}
}

// Open locates the repository for path and checks its root against the sandbox.
// Dispatch calls it before approval so a bad repo_path fails early.
func (t *Tool) Open(path string) (*git.Repository, error) {
	repo, err := git.OpenRepository(path)
	if err != nil {
		return nil, err
	}
	if _, err := t.guard.Resolve(repo.Root); err != nil {
		return nil, &RepoOutsideSandboxError{Path: path, Root: repo.Root}
	}
	return repo, nil
}

// Status runs git status --short --branch.
func (t *Tool) Status(ctx context.Context, req *StatusRequest) (*Response, error) {
	repo, err := t.Open(req.RepoPath)
	if err != nil {
		return nil, err
	}
	out, err := t.git(ctx, repo, t.timeout(), "status", "--short", "--branch")
	if err != nil {
		return nil, err
	}
	return t.respond(repo, out, "Working tree is clean"), nil
}

// Diff returns the --stat summary followed by the diff itself, cut to the
// configured number of lines.
func (t *Tool) Diff(ctx context.Context, req *DiffRequest) (*Response, error) {
	repo, err := t.Open(req.RepoPath)
	if err != nil {
		return nil, err
	}

	args := []string{"diff", "--stat"}
	detail := []string{"diff"}
	if req.Staged {
		args = append(args, "--cached")
		detail = append(detail, "--cached")
	}

	stat, err := t.git(ctx, repo, t.timeout(), args...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(stat) == "" {
		empty := "No changes"
		if req.Staged {
			empty += " staged"
		}
		return t.respond(repo, "", empty), nil
	}

	diff, err := t.git(ctx, repo, t.timeout(), detail...)
	if err != nil {
		return nil, err
	}
	limit := t.config.Tools.GitDiffMaxLines
	if head, cut := content.HeadLines(diff, limit); cut {
		diff = fmt.Sprintf("%s\n\n... (%d more lines)", head, content.CountLines(diff)-limit)
	}

	out := fmt.Sprintf("Summary:\n%s\n\nDiff:\n%s", strings.TrimSpace(stat), strings.TrimSpace(diff))
	return t.respond(repo, out, ""), nil
}

// Log runs git log -N --oneline --decorate.
func (t *Tool) Log(ctx context.Context, req *LogRequest) (*Response, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}
	repo, err := t.Open(req.RepoPath)
	if err != nil {
		return nil, err
	}
	if repo.Unborn {
		return t.respond(repo, "", "No commits yet"), nil
	}
	out, err := t.git(ctx, repo, t.timeout(), "log", fmt.Sprintf("-%d", req.Count), "--oneline", "--decorate")
	if err != nil {
		return nil, err
	}
	return t.respond(repo, out, "No commits yet"), nil
}

// Commit stages every change in the work tree and commits it.
// NOTE: This tool does NOT enforce approval - the caller is responsible for that.
func (t *Tool) Commit(ctx context.Context, req *CommitRequest) (*Response, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}
	repo, err := t.Open(req.RepoPath)
	if err != nil {
		return nil, err
	}
	if _, err := t.git(ctx, repo, t.timeout(), "add", "-A"); err != nil {
		return nil, err
	}
	out, err := t.git(ctx, repo, t.timeout(), "commit", "-m", req.Message)
	if err != nil {
		return nil, err
	}
	return t.respond(repo, out, ""), nil
}

// Push pushes the current branch with the longer push timeout.
// NOTE: This tool does NOT enforce approval - the caller is responsible for that.
func (t *Tool) Push(ctx context.Context, req *PushRequest) (*Response, error) {
	repo, err := t.Open(req.RepoPath)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(t.config.Tools.GitPushTimeoutSeconds) * time.Second
	res, err := t.run(ctx, repo, timeout, "push")
	if err != nil {
		return nil, err
	}
	// git push reports progress on stderr.
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	return t.respond(repo, out, "Push successful"), nil
}

func (t *Tool) timeout() time.Duration {
	return time.Duration(t.config.Tools.GitTimeoutSeconds) * time.Second
}

func (t *Tool) git(ctx context.Context, repo *git.Repository, timeout time.Duration, args ...string) (string, error) {
	res, err := t.run(ctx, repo, timeout, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

func (t *Tool) run(ctx context.Context, repo *git.Repository, timeout time.Duration, args ...string) (*executor.Result, error) {
	command := append([]string{"git"}, args...)
	env := append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	res, err := t.exec.Run(ctx, command, repo.Root, env, timeout)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &GitError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

func (t *Tool) respond(repo *git.Repository, out, empty string) *Response {
	out = strings.TrimSpace(out)
	if out == "" {
		out = empty
	}
	return &Response{Root: repo.Root, Branch: repo.Branch, Output: out}
}
