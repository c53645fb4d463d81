package content

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"hello", true},
		{"Hello-World-2", true},
		{"-", true},
		{"", false},
		{"hello.md", false},
		{"../secret", false},
		{"a/b", false},
		{`a\b`, false},
		{"/index", false},
		{"héllo", false},
		{"tab\there", false},
		{"under_score", false},
	}
	for _, tt := range tests {
		assert.Equal(t, ValidID(tt.id), tt.want, "ValidID(%q)", tt.id)
	}
}

func TestIsChildOf(t *testing.T) {
	tests := []struct {
		name   string
		child  string
		parent string
		want   bool
	}{
		{"direct child", "/srv/posts/a.md", "/srv/posts", true},
		{"nested child", "/srv/posts/x/a.md", "/srv/posts", true},
		{"same path", "/srv/posts", "/srv/posts", false},
		{"parent", "/srv", "/srv/posts", false},
		{"sibling", "/srv/index.md", "/srv/posts", false},
		{"sibling with shared prefix", "/srv/posts-old/a.md", "/srv/posts", false},
		{"file named with dots", "/srv/posts/..a.md", "/srv/posts", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IsChildOf(filepath.FromSlash(tt.child), filepath.FromSlash(tt.parent)), tt.want)
		})
	}
}

func TestHasAnySymlinks(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	assert.NilError(t, err)
	real := filepath.Join(dir, "real")
	assert.NilError(t, os.Mkdir(real, 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(real, "a.md"), nil, 0o644))

	assert.Assert(t, !HasAnySymlinks(filepath.Join(real, "a.md")))
	assert.Assert(t, !HasAnySymlinks(filepath.Join(real, "missing.md")))

	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	assert.Assert(t, HasAnySymlinks(link))
	assert.Assert(t, HasAnySymlinks(filepath.Join(link, "a.md")))
	assert.Assert(t, HasAnySymlinks(filepath.Join(link, "missing.md")))
}
