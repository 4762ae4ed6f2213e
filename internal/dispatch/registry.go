package dispatch

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/Cyclone1070/toolgate/internal/tool/directory"
	"github.com/Cyclone1070/toolgate/internal/tool/file"
	"github.com/Cyclone1070/toolgate/internal/tool/gitcmd"
	"github.com/Cyclone1070/toolgate/internal/tool/search"
	"github.com/Cyclone1070/toolgate/internal/tool/shell"
	"github.com/Cyclone1070/toolgate/internal/tool/todo"
)

// effect performs the side effect of a prepared call.
type effect func(ctx context.Context) (tool.Payload, error)

// prepared is a call whose arguments are resolved, decoded and checked.
// Nothing has touched the filesystem beyond reads needed for the checks.
type prepared struct {
	args  map[string]any
	notes []string
	run   effect
}

type validator interface {
	Validate(cfg *config.Config) error
}

// handler binds a tool name to its argument handling and effect.
type handler struct {
	paths   []pathArg
	prepare func(ctx context.Context, args map[string]any) (*prepared, error)
}

// typed builds a prepare func that decodes args into Req, validates it, runs
// the optional check, and defers run until the effect is invoked.
func typed[Req any, PReq interface {
	*Req
	validator
}, Resp tool.Payload](
	name tool.Name,
	cfg *config.Config,
	check func(PReq) ([]string, error),
	run func(context.Context, PReq) (Resp, error),
) func(context.Context, map[string]any) (*prepared, error) {
	return func(ctx context.Context, args map[string]any) (*prepared, error) {
		req := PReq(new(Req))
		if err := decodeArgs(name, args, req); err != nil {
			return nil, err
		}
		if err := req.Validate(cfg); err != nil {
			return nil, &ArgumentError{Tool: name, Cause: err}
		}

		var notes []string
		if check != nil {
			n, err := check(req)
			if err != nil {
				return nil, err
			}
			notes = n
		}

		return &prepared{
			args:  args,
			notes: notes,
			run: func(ctx context.Context) (tool.Payload, error) {
				resp, err := run(ctx, req)
				if err != nil {
					return nil, err
				}
				return resp, nil
			},
		}, nil
	}
}

type statter interface {
	Stat(path string) (os.FileInfo, error)
}

// tools groups the concrete tool implementations the registry routes to.
type tools struct {
	read   *file.ReadFileTool
	write  *file.WriteFileTool
	list   *directory.ListDirTool
	tree   *directory.TreeTool
	search *search.SearchTool
	todo   *todo.FindTool
	git    *gitcmd.Tool
	shell  *shell.ShellTool
}

func newRegistry(cfg *config.Config, fs statter, t tools) map[tool.Name]handler {
	required := func(key string) []pathArg { return []pathArg{{key: key}} }
	optional := func(key string) []pathArg { return []pathArg{{key: key, optional: true}} }

	// The read size ceiling is enforced before the tool opens the file.
	readSize := func(req *file.ReadFileRequest) ([]string, error) {
		info, err := fs.Stat(req.Path)
		if err == nil && !info.IsDir() && info.Size() > cfg.MaxFileSizeBytes() {
			return nil, &file.TooLargeError{Path: req.Path, Size: info.Size(), Limit: cfg.MaxFileSizeBytes()}
		}
		return nil, nil
	}
	writeNotes := func(req *file.WriteFileRequest) ([]string, error) {
		if _, err := fs.Stat(req.Path); errors.Is(err, os.ErrNotExist) {
			return []string{"creates a new file"}, nil
		}
		return []string{"overwrites an existing file"}, nil
	}
	commandNotes := func(req *shell.RunCommandRequest) ([]string, error) {
		a, err := t.shell.Prepare(req)
		if err != nil {
			return nil, err
		}
		var notes []string
		if len(a.Programs) > 0 {
			notes = append(notes, "Programs: "+strings.Join(a.Programs, ", "))
		}
		if extra := a.Notes(); len(extra) > 0 {
			notes = append(notes, "Uses: "+strings.Join(extra, ", "))
		}
		return notes, nil
	}
	repo := func(p string) ([]string, error) {
		r, err := t.git.Open(p)
		if err != nil {
			return nil, err
		}
		if r.Branch == "" {
			return []string{"Repository: " + r.Root}, nil
		}
		return []string{"Repository: " + r.Root + " (" + r.Branch + ")"}, nil
	}

	return map[tool.Name]handler{
		tool.ReadFile: {
			paths:   required("path"),
			prepare: typed(tool.ReadFile, cfg, readSize, t.read.Run),
		},
		tool.WriteFile: {
			paths:   required("path"),
			prepare: typed(tool.WriteFile, cfg, writeNotes, t.write.Run),
		},
		tool.ListDir: {
			paths:   optional("path"),
			prepare: typed[directory.ListDirRequest](tool.ListDir, cfg, nil, t.list.Run),
		},
		tool.Tree: {
			paths:   optional("path"),
			prepare: typed[directory.TreeRequest](tool.Tree, cfg, nil, t.tree.Run),
		},
		tool.Search: {
			paths:   optional("directory"),
			prepare: typed[search.SearchRequest](tool.Search, cfg, nil, t.search.Run),
		},
		tool.TodoFind: {
			paths:   optional("path"),
			prepare: typed[todo.FindRequest](tool.TodoFind, cfg, nil, t.todo.Run),
		},
		tool.GitStatus: {
			paths: optional("repo_path"),
			prepare: typed(tool.GitStatus, cfg,
				func(r *gitcmd.StatusRequest) ([]string, error) { return repo(r.RepoPath) }, t.git.Status),
		},
		tool.GitDiff: {
			paths: optional("repo_path"),
			prepare: typed(tool.GitDiff, cfg,
				func(r *gitcmd.DiffRequest) ([]string, error) { return repo(r.RepoPath) }, t.git.Diff),
		},
		tool.GitLog: {
			paths: optional("repo_path"),
			prepare: typed(tool.GitLog, cfg,
				func(r *gitcmd.LogRequest) ([]string, error) { return repo(r.RepoPath) }, t.git.Log),
		},
		tool.GitCommit: {
			paths: optional("repo_path"),
			prepare: typed(tool.GitCommit, cfg,
				func(r *gitcmd.CommitRequest) ([]string, error) { return repo(r.RepoPath) }, t.git.Commit),
		},
		tool.GitPush: {
			paths: optional("repo_path"),
			prepare: typed(tool.GitPush, cfg,
				func(r *gitcmd.PushRequest) ([]string, error) { return repo(r.RepoPath) }, t.git.Push),
		},
		tool.RunCommand: {
			paths:   optional("cwd"),
			prepare: typed(tool.RunCommand, cfg, commandNotes, t.shell.Run),
		},
	}
}
