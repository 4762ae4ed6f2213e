package file

import (
	"context"
	"errors"
	"os"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/helper/content"
)

// fileReader defines the minimal filesystem operations needed for reading files.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string, limit int64) ([]byte, error)
}

// ReadFileTool handles file reading operations.
type ReadFileTool struct {
	fileOps fileReader
	config  *config.Config
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, cfg *config.Config) *ReadFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ReadFileTool{
		fileOps: fileOps,
		config:  cfg,
	}
}

// Run reads a whole text file. req.Path must already be resolved by the path guard.
// Returns an error if the file is missing, a directory, binary, or over the size limit.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *ReadFileTool) Run(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	info, err := t.fileOps.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileMissing
		}
		return nil, &StatError{Path: req.Path, Cause: err}
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	limit := t.config.MaxFileSizeBytes()
	if info.Size() > limit {
		return nil, &TooLargeError{Path: req.Path, Size: info.Size(), Limit: limit}
	}

	// The limit is passed again: the file may have grown since Stat.
	data, err := t.fileOps.ReadFile(req.Path, limit)
	if err != nil {
		return nil, &ReadError{Path: req.Path, Cause: err}
	}

	if content.IsBinaryContent(data) {
		return nil, ErrBinaryFile
	}

	text := string(data)
	return &ReadFileResponse{
		Path:    req.Path,
		Content: text,
		Lines:   content.CountLines(text),
		Size:    int64(len(data)),
	}, nil
}
