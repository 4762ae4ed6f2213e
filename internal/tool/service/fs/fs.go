// Package fs is the gateway's only door to the real filesystem. Paths given
// to it are expected to have passed the path guard already.
package fs

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// OSFileSystem implements the filesystem interfaces of the tools on top of os.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (fs *OSFileSystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

func (fs *OSFileSystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (fs *OSFileSystem) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// ListDir returns the entries of a directory sorted by name.
func (fs *OSFileSystem) ListDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// EnsureDirs creates path and any missing parents.
func (fs *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// ReadFile reads a whole file, refusing anything larger than limit bytes.
// The limit also holds for a file that grows after it was checked.
// A limit of 0 disables the check.
func (fs *OSFileSystem) ReadFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > limit {
		return nil, &TooLargeError{Path: path, Size: info.Size(), Limit: limit}
	}

	var buf bytes.Buffer
	buf.Grow(int(info.Size()))
	n, err := buf.ReadFrom(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, &TooLargeError{Path: path, Size: n, Limit: limit}
	}
	return buf.Bytes(), nil
}

// ReadHead reads at most n bytes from the start of a file.
func (fs *OSFileSystem) ReadHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

// WriteFileAtomic replaces path with content. The data goes to a temp file
// in the same directory, which gets perm and is renamed over the target, so
// readers see either the old file or the complete new one.
func (fs *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".toolgate-*")
	if err != nil {
		return &WriteError{Path: path, Stage: StageCreate, Cause: err}
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	fail := func(stage WriteStage, cause error) error {
		return &WriteError{Path: path, Stage: stage, Cause: cause}
	}

	if _, err := tmp.Write(content); err != nil {
		return fail(StageWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(StageSync, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(StageChmod, err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fail(StageClose, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fail(StageRename, err)
	}
	return nil
}
