package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const sourceExt = ".md"

// ValidID reports whether id consists only of ASCII letters, digits and
// hyphens. It touches no filesystem state.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

// IsChildOf reports whether child lies strictly below parent. Both paths must
// be clean and absolute.
func IsChildOf(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return !(rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel))
}

// HasAnySymlinks reports whether path or any of its ancestors is a symbolic
// link. Components that cannot be inspected count as not being links.
func HasAnySymlinks(path string) bool {
	p := filepath.Clean(path)
	for {
		if info, err := os.Lstat(p); err == nil && info.Mode()&fs.ModeSymlink != 0 {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}

// postPath validates id and returns the canonical path of its source file.
// A missing file evicts id from the cache. Callers must hold c.mu.
func (c *Cache) postPath(id string) (string, error) {
	if !ValidID(id) {
		return "", invalidID(id)
	}

	candidate := filepath.Join(c.postsDir, id+sourceExt)
	if HasAnySymlinks(candidate) {
		c.log.Warn("suspicious post id resolves through a symlink", "id", id)
		return "", invalidID(id)
	}

	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.evict(id)
			return "", notFound(id)
		}
		c.log.Error("resolving post path", "id", id, "err", err)
		return "", fmt.Errorf("resolving post %q: %w", id, err)
	}

	if !IsChildOf(canonical, c.postsDir) {
		c.log.Warn("suspicious post id escapes the posts directory", "id", id)
		return "", invalidID(id)
	}
	if filepath.Ext(canonical) != sourceExt {
		return "", invalidID(id)
	}
	return canonical, nil
}
