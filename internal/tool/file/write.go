package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// WriteFileTool handles file writing operations.
type WriteFileTool struct {
	fileOps fileWriter
	config  *config.Config
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, cfg *config.Config) *WriteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &WriteFileTool{
		fileOps: fileOps,
		config:  cfg,
	}
}

// Run creates or overwrites a file with exactly req.Content, creating parent
// directories as needed. The write is atomic (temp file + rename) and keeps
// the permissions of a file it replaces.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *WriteFileTool) Run(ctx context.Context, req *WriteFileRequest) (*WriteFileResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	data := []byte(req.Content)
	perm := os.FileMode(0o644)
	created := true
	info, err := t.fileOps.Stat(req.Path)
	switch {
	case err == nil && info.IsDir():
		return nil, ErrIsDirectory
	case err == nil:
		perm = info.Mode().Perm()
		created = false
	case !errors.Is(err, os.ErrNotExist):
		return nil, &StatError{Path: req.Path, Cause: err}
	}

	parentDir := filepath.Dir(req.Path)
	if err := t.fileOps.EnsureDirs(parentDir); err != nil {
		return nil, &EnsureDirsError{Path: parentDir, Cause: err}
	}

	if err := t.fileOps.WriteFileAtomic(req.Path, data, perm); err != nil {
		return nil, &WriteError{Path: req.Path, Cause: err}
	}

	return &WriteFileResponse{
		Path:         req.Path,
		BytesWritten: len(data),
		Created:      created,
	}, nil
}
