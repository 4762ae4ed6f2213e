package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
)

// fileSystem defines the minimal filesystem operations needed for directory walks.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.DirEntry, error)
}

// ignoreSource hands out gitignore matchers.
type ignoreSource interface {
	MatcherFor(dir string) git.Matcher
}

// ListDirTool handles directory listing operations.
type ListDirTool struct {
	fs      fileSystem
	ignores ignoreSource
	config  *config.Config
}

// NewListDirTool creates a new ListDirTool with injected dependencies.
func NewListDirTool(fs fileSystem, ignores ignoreSource, cfg *config.Config) *ListDirTool {
	if fs == nil {
		panic("fs is required")
	}
	if ignores == nil {
		panic("ignores is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ListDirTool{fs: fs, ignores: ignores, config: cfg}
}

// Run lists a directory. Hidden and gitignored entries are skipped. With
// Recursive set, subdirectories are expanded up to the configured depth.
// Symlinked directories are listed but never expanded, so the walk stays
// below req.Path, which must already be resolved by the path guard.
func (t *ListDirTool) Run(ctx context.Context, req *ListDirRequest) (*ListDirResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}
	if err := requireDir(t.fs, req.Path); err != nil {
		return nil, err
	}

	maxDepth := 0
	if req.Recursive {
		maxDepth = t.config.Tools.ListMaxDepth
	}

	w := &listWalker{
		tool:     t,
		matcher:  t.ignores.MatcherFor(req.Path),
		maxDepth: maxDepth,
		limit:    t.config.Tools.ListMaxEntries,
	}
	if err := w.walk(ctx, req.Path, 0); err != nil {
		return nil, err
	}

	return &ListDirResponse{
		Path:      req.Path,
		Entries:   w.entries,
		Truncated: w.truncated,
		Limit:     w.limit,
	}, nil
}

type listWalker struct {
	tool      *ListDirTool
	matcher   git.Matcher
	maxDepth  int
	limit     int
	entries   []Entry
	truncated bool
}

func (w *listWalker) walk(ctx context.Context, dir string, depth int) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	children, err := visibleEntries(w.tool.fs, w.matcher, dir)
	if err != nil {
		return err
	}

	for _, child := range children {
		if len(w.entries) >= w.limit {
			w.truncated = true
			return nil
		}
		isDir := isDirEntry(w.tool.fs, dir, child)
		w.entries = append(w.entries, Entry{Name: child.Name(), IsDir: isDir, Depth: depth})

		if child.IsDir() && depth < w.maxDepth {
			if err := w.walk(ctx, filepath.Join(dir, child.Name()), depth+1); err != nil {
				return err
			}
			if w.truncated {
				return nil
			}
		}
	}
	return nil
}

// visibleEntries lists dir sorted by name, without hidden or gitignored entries.
func visibleEntries(fs fileSystem, matcher git.Matcher, dir string) ([]os.DirEntry, error) {
	all, err := fs.ListDir(dir)
	if err != nil {
		return nil, &ListDirError{Path: dir, Cause: err}
	}

	visible := make([]os.DirEntry, 0, len(all))
	for _, entry := range all {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if ignored(matcher, full, entry.IsDir()) {
			continue
		}
		visible = append(visible, entry)
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Name() < visible[j].Name() })
	return visible, nil
}

func ignored(matcher git.Matcher, abs string, isDir bool) bool {
	rel, err := filepath.Rel(matcher.Root(), abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return matcher.ShouldIgnore(rel, isDir)
}

// isDirEntry follows symlinks so a link to a directory lists as one.
// Only real directories are descended into.
func isDirEntry(fs fileSystem, dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

func requireDir(fs fileSystem, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrFileMissing
		}
		return &StatError{Path: path, Cause: err}
	}
	if !info.IsDir() {
		return ErrNotADirectory
	}
	return nil
}
