package todo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/helper/scan"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
)

var skipDirs = map[string]bool{
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
}

type fileSystem interface {
	scan.FileSystem
	Stat(path string) (os.FileInfo, error)
}

type ignoreSource interface {
	MatcherFor(dir string) git.Matcher
}

// FindTool reports TODO-style marker comments in source files.
type FindTool struct {
	fs      fileSystem
	ignores ignoreSource
	config  *config.Config
}

// NewFindTool creates a new FindTool with injected dependencies.
func NewFindTool(fs fileSystem, ignores ignoreSource, cfg *config.Config) *FindTool {
	if fs == nil {
		panic("fs is required")
	}
	if ignores == nil {
		panic("ignores is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &FindTool{fs: fs, ignores: ignores, config: cfg}
}

// Run scans req.Path for marker comments, case-insensitively.
func (t *FindTool) Run(ctx context.Context, req *FindRequest) (*FindResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileMissing
		}
		return nil, &StatError{Path: req.Path, Cause: err}
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	resp := &FindResponse{}
	maxResults := t.config.Tools.TodoMaxResults

	opts := scan.Options{
		Matcher:     t.ignores.MatcherFor(req.Path),
		SkipDirs:    skipDirs,
		SampleSize:  t.config.Tools.BinarySampleSize,
		MaxFileSize: t.config.MaxFileSizeBytes(),
		Include: func(name string) bool {
			return slices.Contains(Extensions, filepath.Ext(name))
		},
	}

	err = scan.Lines(ctx, t.fs, req.Path, opts, func(rel string, n int, line string) error {
		marker := findMarker(line)
		if marker == "" {
			return nil
		}
		resp.Items = append(resp.Items, Item{Marker: marker, File: rel, Line: n, Text: strings.TrimSpace(line)})
		if len(resp.Items) >= maxResults {
			resp.HitMaxResults = true
			return scan.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, &WalkError{Path: req.Path, Cause: err}
	}
	return resp, nil
}

func findMarker(line string) string {
	upper := strings.ToUpper(line)
	for _, m := range Markers {
		if strings.Contains(upper, m) {
			return m
		}
	}
	return ""
}
