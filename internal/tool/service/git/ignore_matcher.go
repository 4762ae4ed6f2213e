package git

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/tool/helper/content"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// maxGitignoreSize caps how much of a .gitignore is parsed.
const maxGitignoreSize = 1 << 20

// fileSystem defines the minimal filesystem interface needed for gitignore loading.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string, limit int64) ([]byte, error)
}

// Matcher decides whether a path below its root is gitignored.
type Matcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
	Root() string
}

// IgnoreMatcher implements gitignore pattern matching using go-git's gitignore matcher.
type IgnoreMatcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewIgnoreMatcher creates a new gitignore matcher by loading .gitignore from root.
// Returns a matcher that never ignores if .gitignore doesn't exist (no error).
func NewIgnoreMatcher(root string, fs fileSystem) (*IgnoreMatcher, error) {
	if root == "" {
		panic("root is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	gitignorePath := filepath.Join(root, ".gitignore")

	if _, err := fs.Stat(gitignorePath); err != nil {
		return &IgnoreMatcher{root: root}, nil
	}

	data, err := fs.ReadFile(gitignorePath, maxGitignoreSize)
	if err != nil {
		return nil, &GitignoreReadError{Path: gitignorePath, Cause: err}
	}

	var patterns []gitignore.Pattern
	for _, line := range content.SplitLines(string(data)) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(trimmed, nil))
	}

	return &IgnoreMatcher{root: root, matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore checks if a path relative to Root matches any gitignore patterns.
// Returns false if no .gitignore was loaded.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}

	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// Root is the directory the patterns are anchored at.
func (m *IgnoreMatcher) Root() string {
	return m.root
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}

	parts := strings.Split(filepath.ToSlash(path), "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}

	return segments
}

// NoOpMatcher is a gitignore matcher that never ignores any files.
// It is used when gitignore functionality is disabled or fails to initialize.
type NoOpMatcher struct {
	Dir string
}

// ShouldIgnore always returns false for NoOpMatcher.
func (m *NoOpMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	return false
}

func (m *NoOpMatcher) Root() string {
	return m.Dir
}
