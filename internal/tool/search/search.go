package search

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/helper/scan"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
)

// maxLineLength truncates matching lines in the response.
const maxLineLength = 500

// fileSystem defines the minimal filesystem interface needed by search tools.
type fileSystem interface {
	scan.FileSystem
	Stat(path string) (os.FileInfo, error)
}

// ignoreSource hands out gitignore matchers.
type ignoreSource interface {
	MatcherFor(dir string) git.Matcher
}

// SearchTool handles content searching operations.
type SearchTool struct {
	fs      fileSystem
	ignores ignoreSource
	config  *config.Config
}

// NewSearchTool creates a new SearchTool with injected dependencies.
func NewSearchTool(fs fileSystem, ignores ignoreSource, cfg *config.Config) *SearchTool {
	if fs == nil {
		panic("fs is required")
	}
	if ignores == nil {
		panic("ignores is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &SearchTool{fs: fs, ignores: ignores, config: cfg}
}

// Run finds lines containing req.Pattern, ignoring case, in the text files
// below req.Directory. Hidden, gitignored and binary files are skipped.
// req.Directory must already be resolved by the path guard.
func (t *SearchTool) Run(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(req.Directory)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileMissing
		}
		return nil, &StatError{Path: req.Directory, Cause: err}
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	resp := &SearchResponse{Directory: req.Directory, Pattern: req.Pattern}
	needle := strings.ToLower(req.Pattern)
	maxResults := t.config.Tools.SearchMaxResults

	opts := scan.Options{
		Matcher:     t.ignores.MatcherFor(req.Directory),
		SampleSize:  t.config.Tools.BinarySampleSize,
		MaxFileSize: t.config.MaxFileSizeBytes(),
	}
	if ext := req.FileExtension; ext != "" {
		opts.Include = func(name string) bool { return strings.HasSuffix(name, ext) }
	}

	err = scan.Lines(ctx, t.fs, req.Directory, opts, func(rel string, n int, line string) error {
		if !strings.Contains(strings.ToLower(line), needle) {
			return nil
		}
		text := strings.TrimSpace(line)
		if len(text) > maxLineLength {
			text = text[:maxLineLength] + "...[truncated]"
		}
		resp.Matches = append(resp.Matches, Match{File: rel, LineNumber: n, LineContent: text})
		if len(resp.Matches) >= maxResults {
			resp.HitMaxResults = true
			return scan.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, &WalkError{Path: req.Directory, Cause: err}
	}

	return resp, nil
}
