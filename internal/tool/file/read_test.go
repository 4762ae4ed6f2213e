package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/service/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statFailFS fails Stat with a non-ENOENT error.
type statFailFS struct {
	*fs.OSFileSystem
}

func (s statFailFS) Stat(path string) (os.FileInfo, error) {
	return nil, errors.New("permission denied")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Gateway.MaxFileSizeKB = 1
	tool := NewReadFileTool(fs.NewOSFileSystem(), cfg)

	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o644))
		return p
	}

	t.Run("reads text with header", func(t *testing.T) {
		p := write("a.txt", []byte("one\ntwo\nthree"))
		resp, err := tool.Run(context.Background(), &ReadFileRequest{Path: p})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Lines)
		assert.Equal(t, "one\ntwo\nthree", resp.Content)
		assert.True(t, strings.HasPrefix(resp.LLMContent(), "File: "+p+" (3 lines)\n"))
	})

	t.Run("empty file", func(t *testing.T) {
		p := write("empty.txt", nil)
		resp, err := tool.Run(context.Background(), &ReadFileRequest{Path: p})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := tool.Run(context.Background(), &ReadFileRequest{Path: filepath.Join(dir, "nope")})
		assert.ErrorIs(t, err, ErrFileMissing)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := tool.Run(context.Background(), &ReadFileRequest{Path: dir})
		assert.ErrorIs(t, err, ErrIsDirectory)
	})

	t.Run("binary", func(t *testing.T) {
		p := write("bin", []byte{'a', 0, 'b'})
		_, err := tool.Run(context.Background(), &ReadFileRequest{Path: p})
		assert.ErrorIs(t, err, ErrBinaryFile)
	})

	t.Run("over limit", func(t *testing.T) {
		p := write("big.txt", []byte(strings.Repeat("x", 1025)))
		_, err := tool.Run(context.Background(), &ReadFileRequest{Path: p})
		assert.ErrorIs(t, err, ErrFileTooLarge)
		var tooLarge *TooLargeError
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, int64(1024), tooLarge.Limit)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		p := write("edge.txt", []byte(strings.Repeat("x", 1024)))
		_, err := tool.Run(context.Background(), &ReadFileRequest{Path: p})
		assert.NoError(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := tool.Run(context.Background(), &ReadFileRequest{})
		assert.ErrorIs(t, err, ErrPathRequired)
	})

	t.Run("stat failure", func(t *testing.T) {
		broken := NewReadFileTool(statFailFS{fs.NewOSFileSystem()}, cfg)
		_, err := broken.Run(context.Background(), &ReadFileRequest{Path: "/x"})
		var statErr *StatError
		assert.ErrorAs(t, err, &statErr)
	})
}
