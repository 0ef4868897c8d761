// Package workspace resolves user-supplied paths against the sandbox root.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/config"
)

// Resolver turns possibly-relative paths into canonical absolute paths
// rooted at the workspace.
type Resolver struct {
	root string
}

// New creates a Resolver for root. root is expanded, made absolute and
// canonicalized once; it does not need to exist.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(config.ExpandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve workspace %q", root)
	}
	return &Resolver{root: canonical(abs)}, nil
}

// Root returns the canonical workspace root.
func (r *Resolver) Root() string { return r.root }

// Resolve expands "~", places relative paths under the root and resolves
// symlinks and ".." against the real filesystem, so "link/.." names the
// parent of the link target. It never checks existence and never fails.
func (r *Resolver) Resolve(path string) string {
	p := path
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = home + p[1:]
		}
	}
	if !filepath.IsAbs(p) {
		p = r.root + string(filepath.Separator) + p
	}
	return canonical(p)
}

// Join builds a root-relative location without further resolution.
func (r *Resolver) Join(elem ...string) string {
	return filepath.Join(append([]string{r.root}, elem...)...)
}

// canonical walks an absolute path one component at a time. Each existing
// prefix is replaced by its symlink-free form before the next component is
// applied, so ".." steps out of the link target rather than the link. Once a
// component is missing the rest is appended lexically.
func canonical(p string) string {
	vol := filepath.VolumeName(p)
	resolved := vol + string(filepath.Separator)
	for _, part := range strings.Split(filepath.ToSlash(p[len(vol):]), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}
		next := filepath.Join(resolved, part)
		if _, err := os.Lstat(next); err == nil {
			if real, err := filepath.EvalSymlinks(next); err == nil {
				next = real
			}
		}
		resolved = next
	}
	return resolved
}
