package file

import (
	"fmt"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// -- Read File --

type ReadFileRequest struct {
	Path string `mapstructure:"path"`
}

func (r *ReadFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

type ReadFileResponse struct {
	Path    string
	Content string
	Lines   int
	Size    int64
}

func (r *ReadFileResponse) LLMContent() string {
	return fmt.Sprintf("File: %s (%d lines)\n\n%s", r.Path, r.Lines, r.Content)
}

// -- Write File --

type WriteFileRequest struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

func (r *WriteFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return ErrPathRequired
	}
	if limit := cfg.MaxFileSizeBytes(); int64(len(r.Content)) > limit {
		return &TooLargeError{Path: r.Path, Size: int64(len(r.Content)), Limit: limit}
	}
	return nil
}

type WriteFileResponse struct {
	Path         string
	BytesWritten int
	Created      bool
}

func (r *WriteFileResponse) LLMContent() string {
	verb := "Updated"
	if r.Created {
		verb = "Created"
	}
	return fmt.Sprintf("%s %s (%d bytes)", verb, r.Path, r.BytesWritten)
}
