package directory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/tool/service/fs"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout creates files (content "x") and directories (trailing slash) below a fresh root.
func layout(t *testing.T, paths ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return root
}

func newListTool(cfg *config.Config) *ListDirTool {
	osfs := fs.NewOSFileSystem()
	return NewListDirTool(osfs, git.NewService(osfs, true, nil), cfg)
}

func TestListDir(t *testing.T) {
	root := layout(t,
		"b.txt", "a/", "a/inner.go", "a/deep/", "a/deep/er/", "a/deep/er/x/", "a/deep/er/x/y.txt",
		".hidden", ".git/", "build/", "build/out.bin", ".gitignore",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("# comment\nbuild/\n"), 0o644))

	t.Run("flat listing", func(t *testing.T) {
		resp, err := newListTool(config.DefaultConfig()).Run(context.Background(), &ListDirRequest{Path: root})
		require.NoError(t, err)
		assert.Equal(t, []Entry{
			{Name: "a", IsDir: true},
			{Name: "b.txt"},
		}, resp.Entries)
		assert.Equal(t, fmt.Sprintf("Contents of %s:\n  a/\n  b.txt", root), resp.LLMContent())
	})

	t.Run("recursive stops at max depth", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.ListMaxDepth = 2
		resp, err := newListTool(cfg).Run(context.Background(), &ListDirRequest{Path: root, Recursive: true})
		require.NoError(t, err)

		var names []string
		for _, e := range resp.Entries {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{"a", "deep", "er", "inner.go", "b.txt"}, names)
		assert.Contains(t, resp.LLMContent(), "\n      er/")
	})

	t.Run("entry cap", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.ListMaxEntries = 1
		resp, err := newListTool(cfg).Run(context.Background(), &ListDirRequest{Path: root})
		require.NoError(t, err)
		assert.Len(t, resp.Entries, 1)
		assert.True(t, resp.Truncated)
		assert.Contains(t, resp.LLMContent(), "... (truncated at 1 entries)")
	})

	t.Run("gitignore disabled", func(t *testing.T) {
		osfs := fs.NewOSFileSystem()
		tool := NewListDirTool(osfs, git.NewService(osfs, false, nil), config.DefaultConfig())
		resp, err := tool.Run(context.Background(), &ListDirRequest{Path: root})
		require.NoError(t, err)
		assert.Len(t, resp.Entries, 3)
	})

	t.Run("empty directory", func(t *testing.T) {
		empty := layout(t)
		resp, err := newListTool(config.DefaultConfig()).Run(context.Background(), &ListDirRequest{Path: empty})
		require.NoError(t, err)
		assert.Equal(t, "Directory "+empty+" is empty", resp.LLMContent())
	})

	t.Run("not a directory", func(t *testing.T) {
		_, err := newListTool(config.DefaultConfig()).Run(context.Background(), &ListDirRequest{Path: filepath.Join(root, "b.txt")})
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := newListTool(config.DefaultConfig()).Run(context.Background(), &ListDirRequest{Path: filepath.Join(root, "nope")})
		assert.ErrorIs(t, err, ErrFileMissing)
	})
}

func TestListDir_SymlinkLoop(t *testing.T) {
	root := layout(t, "a/", "a/f.txt")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "up")))

	resp, err := newListTool(config.DefaultConfig()).Run(context.Background(), &ListDirRequest{Path: root, Recursive: true})
	require.NoError(t, err)
	assert.False(t, resp.Truncated)
	assert.Equal(t, []Entry{
		{Name: "a", IsDir: true},
		{Name: "f.txt", Depth: 1},
		{Name: "up", IsDir: true, Depth: 1},
	}, resp.Entries)
}

func TestListDir_SymlinkOutsideRoot(t *testing.T) {
	root := layout(t, "a/", "a/f.txt")
	outside := layout(t, "secret-name.txt")
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	resp, err := newListTool(config.DefaultConfig()).Run(context.Background(), &ListDirRequest{Path: root, Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "a", IsDir: true},
		{Name: "f.txt", Depth: 1},
		{Name: "link", IsDir: true},
	}, resp.Entries)
	assert.NotContains(t, resp.LLMContent(), "secret-name.txt")
}

func TestListDir_Cancelled(t *testing.T) {
	root := layout(t, "a/")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newListTool(config.DefaultConfig()).Run(ctx, &ListDirRequest{Path: root})
	assert.ErrorIs(t, err, context.Canceled)
}
