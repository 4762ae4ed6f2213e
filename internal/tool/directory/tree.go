package directory

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/helper/content"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
)

// treeSkip holds names that never appear in a tree, hidden or not.
var treeSkip = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	".DS_Store":    true,
	".eggs":        true,
}

// TreeTool renders a directory as an ASCII tree.
type TreeTool struct {
	fs      fileSystem
	ignores ignoreSource
	config  *config.Config
}

// NewTreeTool creates a new TreeTool with injected dependencies.
func NewTreeTool(fs fileSystem, ignores ignoreSource, cfg *config.Config) *TreeTool {
	if fs == nil {
		panic("fs is required")
	}
	if ignores == nil {
		panic("ignores is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &TreeTool{fs: fs, ignores: ignores, config: cfg}
}

// Run draws the tree below req.Path. Files carry their size. Output stops at
// the configured line cap.
func (t *TreeTool) Run(ctx context.Context, req *TreeRequest) (*TreeResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}
	if err := requireDir(t.fs, req.Path); err != nil {
		return nil, err
	}

	depth := req.MaxDepth
	if depth == 0 {
		depth = t.config.Tools.TreeDefaultDepth
	}

	lines := []string{filepath.Base(req.Path) + "/"}
	matcher := t.ignores.MatcherFor(req.Path)
	if err := t.build(ctx, req.Path, matcher, "", depth, 0, &lines); err != nil {
		return nil, err
	}

	resp := &TreeResponse{Path: req.Path, Lines: lines}
	if limit := t.config.Tools.TreeMaxLines; len(lines) > limit {
		resp.Lines = lines[:limit]
		resp.Truncated = true
	}
	return resp, nil
}

func (t *TreeTool) build(ctx context.Context, dir string, matcher git.Matcher, prefix string, maxDepth, depth int, lines *[]string) error {
	if depth >= maxDepth {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// One line past the cap is enough to know the output was truncated.
	if len(*lines) > t.config.Tools.TreeMaxLines {
		return nil
	}

	all, err := visibleEntries(t.fs, matcher, dir)
	if err != nil {
		// Unreadable subdirectories are left empty.
		if depth > 0 {
			return nil
		}
		return err
	}

	entries := all[:0]
	for _, e := range all {
		if !treeSkip[e.Name()] {
			entries = append(entries, e)
		}
	}

	for i, entry := range entries {
		last := i == len(entries)-1
		connector, extension := "|-", "| "
		if last {
			connector, extension = "+-", "  "
		}

		full := filepath.Join(dir, entry.Name())
		// Symlinks are drawn as files so the tree cannot loop.
		if entry.IsDir() {
			*lines = append(*lines, fmt.Sprintf("%s%s %s/", prefix, connector, entry.Name()))
			if err := t.build(ctx, full, matcher, prefix+extension, maxDepth, depth+1, lines); err != nil {
				return err
			}
			continue
		}

		size := int64(0)
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		*lines = append(*lines, fmt.Sprintf("%s%s %s (%s)", prefix, connector, entry.Name(), content.HumanSize(size)))
	}
	return nil
}
