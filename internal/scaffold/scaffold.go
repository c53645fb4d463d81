// Package scaffold writes the starter files of a new blog and of new posts.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/model"
)

//go:embed res
var resources embed.FS

// Directory names below a blog root.
const (
	PostsDir  = "posts"
	PublicDir = "public"
	IndexFile = "index.md"
)

// ErrPostExists is returned when a generated post would replace an existing
// file.
var ErrPostExists = errors.New("a post with this id already exists")

var postTemplate = template.Must(template.ParseFS(resources, "res/post.md"))

// Result lists what Init wrote and what it left alone, relative to the blog
// root.
type Result struct {
	Created []string
	Skipped []string
}

// Init lays out a new blog under dir. Existing files are never overwritten.
func Init(dir string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	for _, sub := range []string{PostsDir, PublicDir} {
		logger.Debug("creating directory", "dir", sub)
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return res, fmt.Errorf("creating %s: %w", sub, err)
		}
	}

	files := []struct {
		resource string
		target   string
	}{
		{"res/index.md", IndexFile},
		{"res/styles.css", filepath.Join(PublicDir, "styles.css")},
	}
	for _, f := range files {
		data, err := resources.ReadFile(f.resource)
		if err != nil {
			return res, err
		}
		created, err := writeNew(filepath.Join(dir, f.target), data)
		if err != nil {
			return res, fmt.Errorf("creating %s: %w", f.target, err)
		}
		if !created {
			logger.Warn("not overwriting existing file", "file", f.target)
			res.Skipped = append(res.Skipped, f.target)
			continue
		}
		logger.Debug("created file", "file", f.target)
		res.Created = append(res.Created, f.target)
	}
	return res, nil
}

// NewPost creates posts/<id>.md under dir from the post template and returns
// its path.
func NewPost(dir, id string, now time.Time) (string, error) {
	if !content.ValidID(id) {
		return "", fmt.Errorf("invalid post id %q: use only a-z, A-Z, 0-9 and '-'", id)
	}

	var buf bytes.Buffer
	err := postTemplate.Execute(&buf, struct {
		Title   string
		Created model.Timestamp
	}{
		Title:   TitleFromID(id),
		Created: model.Timestamp{Time: now.Truncate(time.Second)},
	})
	if err != nil {
		return "", fmt.Errorf("rendering post template: %w", err)
	}

	path := filepath.Join(dir, PostsDir, id+".md")
	created, err := writeNew(path, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("creating post %s: %w", id, err)
	}
	if !created {
		return "", fmt.Errorf("%w: %s", ErrPostExists, path)
	}
	return path, nil
}

// TitleFromID turns a post id such as "hello-world" into "Hello World".
func TitleFromID(id string) string {
	words := strings.ReplaceAll(id, "-", " ")
	return cases.Title(language.English).String(strings.TrimSpace(words))
}

// writeNew creates path with data unless it already exists.
func writeNew(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}
