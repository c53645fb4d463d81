// Package server exposes the content cache over HTTP.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/model"
	"github.com/ryukoposting/ustack/internal/rss"
)

// Store is the part of the content cache the handlers rely on.
type Store interface {
	Refresh(id string) (content.PostContent, error)
	RefreshIndex(allowScan bool) (content.PostContent, error)
	Posts() []content.PostContent
	RandomID() (string, bool)
	Site() model.SiteMetadata
	Updated() time.Time
	Feed(opts content.FeedOptions) rss.Document
	TTL() time.Duration
}

// Options configures a Server.
type Options struct {
	// PublicDir holds the static files served under /public/.
	PublicDir    string
	IndexPageLen int
	FeedMaxItems int
	Logger       *slog.Logger
}

// Server routes requests to the blog handlers.
type Server struct {
	store     Store
	publicDir string
	pageLen   int
	feedMax   int
	views     *views
	log       *slog.Logger
	handler   http.Handler
}

// New builds a server over store.
func New(store Store, opts Options) (*Server, error) {
	if opts.IndexPageLen <= 0 {
		return nil, fmt.Errorf("index page length must be positive, got %d", opts.IndexPageLen)
	}
	publicDir, err := canonicalDir(opts.PublicDir)
	if err != nil {
		return nil, err
	}
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:     store,
		publicDir: publicDir,
		pageLen:   opts.IndexPageLen,
		feedMax:   opts.FeedMaxItems,
		views:     v,
		log:       logger.With("component", "server"),
	}
	s.handler = s.logRequests(s.routes())
	return s, nil
}

// canonicalDir resolves symlinks in dir when it exists. A missing public
// directory is not fatal; every request under it is simply a 404.
func canonicalDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("public directory %s: %w", dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", fmt.Errorf("public directory %s: %w", dir, err)
	}
	return resolved, nil
}

func (s *Server) routes() *mux.Router {
	// Paths are matched as sent so that traversal attempts reach the
	// validators instead of being redirected.
	r := mux.NewRouter().SkipClean(true)
	read := []string{http.MethodGet, http.MethodHead}

	r.HandleFunc("/", s.handleIndex).Methods(read...)
	r.HandleFunc("/p/{id}", s.handlePost).Methods(read...)
	r.HandleFunc("/rss", s.handleFeed).Methods(read...)
	r.HandleFunc("/archive", s.handleArchive).Methods(read...)
	r.HandleFunc("/random", s.handleRandom).Methods(read...)
	r.PathPrefix("/public/").HandlerFunc(s.handlePublic).Methods(read...)
	r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return strings.EqualFold(req.URL.Path, "/robots.txt")
	}).HandlerFunc(s.handleRobots).Methods(read...)

	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.notFound)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
