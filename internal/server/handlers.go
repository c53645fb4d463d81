package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/httpcache"
	"github.com/ryukoposting/ustack/internal/model"
)

const staticMaxAge = 3600

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := 0
	if values, ok := r.URL.Query()["p"]; ok {
		n, err := strconv.Atoi(values[0])
		if err != nil || n < 0 {
			s.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid page %q", values[0]))
			return
		}
		page = n
	}

	index, err := s.store.RefreshIndex(true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	updated := s.store.Updated()
	if httpcache.NotModified(r.Header, updated) {
		notModified(w, updated)
		return
	}

	posts := s.store.Posts()
	start := min(page*s.pageLen, len(posts))
	end := min(start+s.pageLen, len(posts))

	site := s.store.Site()
	data := model.IndexPage{
		PageData: pageData(site, site.Title, site.URL),
		Body:     template.HTML(index.Body),
		Posts:    listing(posts[start:end]),
		Page:     page + 1,
		PrevPage: page - 1,
		NextPage: page + 1,
		HasPrev:  page > 0,
		HasNext:  end < len(posts),
	}

	setCaching(w, staticMaxAge, updated)
	s.render(w, r, http.StatusOK, indexView, data)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id := strings.ReplaceAll(mux.Vars(r)["id"], ".", "")

	if _, err := s.store.RefreshIndex(false); err != nil {
		s.log.Warn("refreshing index before post", "id", id, "err", err)
	}
	post, err := s.store.Refresh(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if httpcache.NotModified(r.Header, post.LastModified) {
		notModified(w, post.LastModified)
		return
	}

	site := s.store.Site()
	meta := post.Metadata
	published := post.Published()
	author := meta.Author
	if author == "" {
		author = site.Author
	}

	data := model.PostPage{
		PageData:   pageData(site, meta.Title+" | "+site.Title, site.PostURL(post.ID)),
		ID:         post.ID,
		Title:      meta.Title,
		Author:     author,
		Published:  published.Format(publishedLayout),
		Datetime:   published.Format(datetimeLayout),
		Tags:       meta.Tags,
		Body:       template.HTML(post.Body),
		ShareLinks: site.ShareLinks(post.ID),
	}
	data.Highlight = meta.Highlight
	if meta.Summary != "" {
		data.Summary = meta.Summary
	}

	setCaching(w, int(s.store.TTL()/time.Second), post.LastModified)
	s.render(w, r, http.StatusOK, postView, data)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.RefreshIndex(true); err != nil {
		s.fail(w, r, err)
		return
	}
	updated := s.store.Updated()
	if httpcache.NotModified(r.Header, updated) {
		notModified(w, updated)
		return
	}

	opts := content.FeedOptions{
		IncludeContent: !r.URL.Query().Has("headlines"),
		MaxItems:       s.feedMax,
	}
	status := http.StatusOK
	if httpcache.AcceptsFeedDelta(r.Header) {
		if since, ok := httpcache.IfModifiedSince(r.Header); ok {
			opts.Since = since
			status = httpcache.StatusIMUsed
		}
	}

	var buf bytes.Buffer
	if err := s.store.Feed(opts).Write(&buf); err != nil {
		s.fail(w, r, fmt.Errorf("writing feed: %w", err))
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/rss+xml; charset=utf-8")
	h.Set("Cache-Control", fmt.Sprintf("max-age=%d, im", int(s.store.TTL()/time.Second)))
	h.Set("Vary", "A-IM, If-Modified-Since")
	if !updated.IsZero() {
		h.Set("Last-Modified", httpcache.LastModified(updated))
	}
	if status == httpcache.StatusIMUsed {
		h.Set(httpcache.HeaderIM, "feed")
	}
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Debug("writing feed response", "err", err)
	}
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.RefreshIndex(true); err != nil {
		s.fail(w, r, err)
		return
	}
	updated := s.store.Updated()
	if httpcache.NotModified(r.Header, updated) {
		notModified(w, updated)
		return
	}

	site := s.store.Site()
	data := model.ArchivePage{
		PageData: pageData(site, "Archive | "+site.Title, site.URL.JoinPath("archive")),
		Posts:    listing(s.store.Posts()),
	}

	setCaching(w, int(s.store.TTL()/time.Second), updated)
	s.render(w, r, http.StatusOK, archiveView, data)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.RefreshIndex(true); err != nil {
		s.log.Warn("refreshing index before random pick", "err", err)
	}
	id, ok := s.store.RandomID()
	if !ok {
		s.notFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, "/p/"+id, http.StatusFound)
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(robotsTxt)
}

// fail maps a cache error onto a response. Not-found and invalid ids look the
// same to clients; everything else is a 500 carrying the error text.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, content.ErrNotFound) || errors.Is(err, content.ErrInvalidID) {
		s.log.Debug("not found", "path", r.URL.Path, "err", err)
		s.notFound(w, r)
		return
	}
	s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	s.renderError(w, r, http.StatusInternalServerError, err.Error())
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "")
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	site := s.store.Site()
	data := model.ErrorPage{
		PageData: pageData(site, http.StatusText(status)+" | "+site.Title, nil),
		Status:   status,
		Method:   r.Method,
		Path:     r.URL.RequestURI(),
		Message:  message,
	}
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, r, status, errorView, data)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := s.views.render(w, status, name, data); err != nil {
		s.log.Error("rendering view", "view", name, "path", r.URL.Path, "err", err)
		http.Error(w, "error: "+err.Error(), http.StatusInternalServerError)
	}
}

func setCaching(w http.ResponseWriter, maxAge int, modified time.Time) {
	h := w.Header()
	h.Set("Cache-Control", fmt.Sprintf("max-age=%d", maxAge))
	if !modified.IsZero() {
		h.Set("Last-Modified", httpcache.LastModified(modified))
	}
}

func notModified(w http.ResponseWriter, modified time.Time) {
	if !modified.IsZero() {
		w.Header().Set("Last-Modified", httpcache.LastModified(modified))
	}
	w.WriteHeader(http.StatusNotModified)
}

func listing(posts []content.PostContent) []model.PostSummary {
	out := make([]model.PostSummary, 0, len(posts))
	for _, post := range posts {
		meta := post.Meta()
		out = append(out, model.PostSummary{ID: meta.ID, Title: meta.Title, Summary: meta.Summary})
	}
	return out
}
