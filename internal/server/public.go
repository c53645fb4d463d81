package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/httpcache"
)

const publicPrefix = "/public/"

// publicPath maps a request path onto a file below the public directory.
// ok is false for anything that must look like a missing file: hidden or
// parent components, key material, or a trip through a symlink.
func (s *Server) publicPath(requestPath string) (string, bool) {
	sub := strings.TrimPrefix(requestPath, publicPrefix)
	if sub == "" {
		return "", false
	}

	parts := strings.Split(sub, "/")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, ".") || strings.ContainsRune(part, '\\') {
			return "", false
		}
		if strings.Contains(part, "id_rsa") {
			return "", false
		}
	}
	if path.Ext(sub) == ".pem" {
		return "", false
	}

	full := filepath.Join(s.publicDir, filepath.FromSlash(sub))
	if !content.IsChildOf(full, s.publicDir) || content.HasAnySymlinks(full) {
		return "", false
	}
	return full, true
}

func (s *Server) handlePublic(w http.ResponseWriter, r *http.Request) {
	full, ok := s.publicPath(r.URL.Path)
	if !ok {
		s.log.Debug("rejected public path", "path", r.URL.Path)
		s.notFound(w, r)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.notFound(w, r)
			return
		}
		s.fail(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if info.IsDir() {
		s.notFound(w, r)
		return
	}

	modified := info.ModTime()
	if httpcache.NotModified(r.Header, modified) {
		notModified(w, modified)
		return
	}

	setCaching(w, staticMaxAge, modified)
	// A zero modtime keeps ServeContent from re-running its own conditional
	// checks; the headers above already carry Last-Modified.
	http.ServeContent(w, r, info.Name(), time.Time{}, f)
}
