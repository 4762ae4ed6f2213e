package git

import (
	"errors"
	"log/slog"

	"github.com/Cyclone1070/toolgate/internal/logging"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository describes the work tree that contains a directory.
type Repository struct {
	Root   string
	Branch string // empty for a detached or unborn HEAD
	Unborn bool   // no commits yet
}

// OpenRepository finds the work tree containing dir, walking up like git does.
func OpenRepository(dir string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, &NotARepositoryError{Path: dir}
		}
		return nil, &OpenError{Path: dir, Cause: err}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, &OpenError{Path: dir, Cause: err}
	}

	info := &Repository{Root: wt.Filesystem.Root()}

	head, err := repo.Head()
	switch {
	case err == nil && head.Name().IsBranch():
		info.Branch = head.Name().Short()
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		info.Unborn = true
	case err != nil:
		return nil, &OpenError{Path: dir, Cause: err}
	}

	return info, nil
}

// Service hands out gitignore matchers for directory walks.
type Service struct {
	fs      fileSystem
	enabled bool
	logger  *slog.Logger
}

// NewService creates a Service. When enabled is false every matcher is a no-op.
func NewService(fs fileSystem, enabled bool, logger *slog.Logger) *Service {
	if fs == nil {
		panic("fs is required")
	}
	return &Service{fs: fs, enabled: enabled, logger: logging.OrDiscard(logger)}
}

// MatcherFor returns a matcher anchored at the work tree containing dir, or
// at dir itself when dir is not in a repository. Load failures degrade to a
// no-op matcher.
func (s *Service) MatcherFor(dir string) Matcher {
	if !s.enabled {
		return &NoOpMatcher{Dir: dir}
	}

	root := dir
	if repo, err := OpenRepository(dir); err == nil {
		root = repo.Root
	}

	m, err := NewIgnoreMatcher(root, s.fs)
	if err != nil {
		s.logger.Warn("gitignore unavailable", "root", root, "error", err)
		return &NoOpMatcher{Dir: dir}
	}
	return m
}
