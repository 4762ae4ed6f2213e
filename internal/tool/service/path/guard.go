package path

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"syscall"
)

// maxSymlinkHops bounds link expansion during one resolution, as the kernel does.
const maxSymlinkHops = 40

// FileSystem defines the minimal filesystem interface needed for path resolution.
type FileSystem interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
	UserHomeDir() (string, error)
}

// rootSet is one immutable allow-list snapshot.
type rootSet struct {
	roots   []string
	project string
}

// Guard checks candidate paths against the allow-list.
// The allow-list is swapped atomically; a Resolve in flight uses the snapshot it started with.
type Guard struct {
	fs    FileSystem
	roots atomic.Pointer[rootSet]
}

// NewGuard creates a Guard over canonicalised roots. projectRoot is the base for
// relative paths; empty means the first root.
func NewGuard(fs FileSystem, roots []string, projectRoot string) (*Guard, error) {
	if fs == nil {
		panic("fs is required")
	}
	g := &Guard{fs: fs}
	if err := g.SetRoots(roots, projectRoot); err != nil {
		return nil, err
	}
	return g, nil
}

// CanonicaliseRoot canonicalises a root by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// SetRoots replaces the allow-list. Every root is canonicalised first; on error
// the previous allow-list stays in effect.
func (g *Guard) SetRoots(roots []string, projectRoot string) error {
	if len(roots) == 0 {
		return ErrNoAllowedRoots
	}

	canonical := make([]string, 0, len(roots))
	for _, root := range roots {
		expanded, err := expandTilde(g.fs, root)
		if err != nil {
			return &RootError{Root: root, Cause: err}
		}
		resolved, err := CanonicaliseRoot(expanded)
		if err != nil {
			return err
		}
		if !slices.Contains(canonical, resolved) {
			canonical = append(canonical, resolved)
		}
	}

	project := canonical[0]
	if projectRoot != "" {
		expanded, err := expandTilde(g.fs, projectRoot)
		if err != nil {
			return &RootError{Root: projectRoot, Cause: err}
		}
		resolved, err := CanonicaliseRoot(expanded)
		if err != nil {
			return err
		}
		if !withinAny(resolved, canonical) {
			return &RootError{Root: resolved, Cause: ErrOutsideSandbox}
		}
		project = resolved
	}

	g.roots.Store(&rootSet{roots: canonical, project: project})
	return nil
}

// Roots returns a copy of the active allow-list.
func (g *Guard) Roots() []string {
	snap := g.roots.Load()
	if snap == nil {
		return nil
	}
	return slices.Clone(snap.roots)
}

// ProjectRoot returns the base used for relative paths.
func (g *Guard) ProjectRoot() string {
	snap := g.roots.Load()
	if snap == nil {
		return ""
	}
	return snap.project
}

// Resolve canonicalises raw and checks it against the active allow-list.
// Missing trailing components are allowed so write targets can be checked
// before they exist.
func (g *Guard) Resolve(raw string) (string, error) {
	snap := g.roots.Load()
	if snap == nil || len(snap.roots) == 0 {
		return "", ErrNoAllowedRoots
	}
	return resolve(g.fs, raw, snap.project, snap.roots)
}

// Rel returns abs relative to whichever allowed root contains it, with forward slashes.
func (g *Guard) Rel(abs string) string {
	snap := g.roots.Load()
	if snap == nil {
		return filepath.ToSlash(abs)
	}
	best := ""
	for _, root := range snap.roots {
		if within(abs, root) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(best, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Resolve is the stateless form of Guard.Resolve. roots must already be canonical.
func Resolve(fs FileSystem, raw, projectRoot string, roots []string) (string, error) {
	if len(roots) == 0 {
		return "", ErrNoAllowedRoots
	}
	return resolve(fs, raw, projectRoot, roots)
}

func resolve(fs FileSystem, raw, projectRoot string, roots []string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyPath
	}

	expanded, err := expandTilde(fs, raw)
	if err != nil {
		return "", &ViolationError{Path: raw, Kind: Unresolvable, Cause: err}
	}

	// Plain concatenation, not filepath.Join: Join would clean ".." lexically
	// before symlinks get a chance to move the walk.
	abs := expanded
	if !filepath.IsAbs(abs) {
		abs = projectRoot + string(filepath.Separator) + expanded
	}

	resolved, err := canonicalise(fs, abs)
	if err != nil {
		return "", &ViolationError{Path: raw, Kind: Unresolvable, Cause: err}
	}

	if withinAny(resolved, roots) {
		return resolved, nil
	}

	kind := OutsideSandbox
	if hasDotDot(raw) {
		kind = Traversal
	}
	return "", &ViolationError{Path: raw, Resolved: resolved, Kind: kind}
}

// canonicalise walks abs one component at a time from the filesystem root,
// splicing symlink targets into the remaining components. ".." applies to the
// physical directory reached so far. Missing components are kept as plain
// names so a later ".." still lands on a real, resolved directory.
func canonicalise(fs FileSystem, abs string) (string, error) {
	volume := filepath.VolumeName(abs)
	sep := string(filepath.Separator)
	current := volume + sep
	pending := splitComponents(abs[len(volume):])
	hops := 0

	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]

		switch part {
		case "", ".":
			continue
		case "..":
			current = filepath.Dir(current)
			continue
		}

		next := filepath.Join(current, part)
		info, err := fs.Lstat(next)
		if err != nil {
			if isMissing(err) {
				current = next
				continue
			}
			return "", &LstatError{Path: next, Cause: err}
		}

		if info.Mode()&os.ModeSymlink == 0 {
			current = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", &SymlinkLoopError{Path: abs, Hops: hops}
		}

		target, err := fs.Readlink(next)
		if err != nil {
			return "", &ReadlinkError{Path: next, Cause: err}
		}
		if filepath.IsAbs(target) {
			targetVolume := filepath.VolumeName(target)
			current = targetVolume + sep
			target = target[len(targetVolume):]
		}
		pending = append(splitComponents(target), pending...)
	}

	return current, nil
}

// expandTilde handles "~" and "~/..." only; "~user" is left alone.
func expandTilde(fs FileSystem, p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := fs.UserHomeDir()
	if err != nil {
		return "", &TildeExpansionError{Cause: err}
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}

func splitComponents(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}

func hasDotDot(p string) bool {
	return slices.Contains(splitComponents(p), "..")
}

func isMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func withinAny(p string, roots []string) bool {
	for _, root := range roots {
		if within(p, root) {
			return true
		}
	}
	return false
}

// within uses a separator-terminated prefix so /allowed-evil never matches /allowed.
func within(p, root string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}
