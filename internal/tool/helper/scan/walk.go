// Package scan walks a directory tree line by line over its text files.
package scan

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/tool/helper/content"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
)

// ErrStop ends a walk early without reporting an error.
var ErrStop = errors.New("stop walk")

// maxLineLength bounds a single scanned line. Longer lines (minified bundles)
// end the file's scan.
const maxLineLength = 1 << 20

// FileSystem defines the filesystem operations a walk needs.
type FileSystem interface {
	ListDir(path string) ([]os.DirEntry, error)
	ReadHead(path string, n int) ([]byte, error)
}

// Options controls which files are visited.
type Options struct {
	Matcher     git.Matcher
	Include     func(name string) bool // nil visits every file
	SkipDirs    map[string]bool        // directory names never entered
	SampleSize  int                    // bytes inspected for binary detection
	MaxFileSize int64                  // larger files are skipped; 0 disables
}

// LineFunc receives each line of each visited file. rel uses forward slashes
// and is relative to the walk root; n is 1-based.
type LineFunc func(rel string, n int, line string) error

// Lines visits the non-hidden, non-ignored text files below root in name
// order and calls fn for every line. Unreadable files are skipped. fn may
// return ErrStop to end the walk.
func Lines(ctx context.Context, fsys FileSystem, root string, opts Options, fn LineFunc) error {
	err := walkDir(ctx, fsys, root, root, opts, fn)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func walkDir(ctx context.Context, fsys FileSystem, root, dir string, opts Options, fn LineFunc) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	entries, err := fsys.ListDir(dir)
	if err != nil {
		if dir == root {
			return err
		}
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if ignored(opts.Matcher, full, entry.IsDir()) {
			continue
		}

		if entry.IsDir() {
			if opts.SkipDirs[name] {
				continue
			}
			if err := walkDir(ctx, fsys, root, full, opts, fn); err != nil {
				return err
			}
			continue
		}
		// Symlinks and special files are not followed.
		if !entry.Type().IsRegular() {
			continue
		}
		if opts.Include != nil && !opts.Include(name) {
			continue
		}

		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}
		if err := scanFile(fsys, full, filepath.ToSlash(rel), entry, opts, fn); err != nil {
			return err
		}
	}
	return nil
}

func scanFile(fsys FileSystem, full, rel string, entry fs.DirEntry, opts Options, fn LineFunc) error {
	if opts.MaxFileSize > 0 {
		if info, err := entry.Info(); err != nil || info.Size() > opts.MaxFileSize {
			return nil
		}
	}

	head, err := fsys.ReadHead(full, opts.SampleSize)
	if err != nil || content.IsBinaryContent(head) {
		return nil
	}

	f, err := os.Open(full)
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	n := 0
	for scanner.Scan() {
		n++
		if err := fn(rel, n, strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	return nil
}

func ignored(matcher git.Matcher, abs string, isDir bool) bool {
	if matcher == nil {
		return false
	}
	rel, err := filepath.Rel(matcher.Root(), abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return matcher.ShouldIgnore(rel, isDir)
}
