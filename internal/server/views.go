package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ryukoposting/ustack/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed res/robots.txt
var robotsTxt []byte

const (
	indexView   = "index.html"
	postView    = "post.html"
	archiveView = "archive.html"
	errorView   = "error.html"
)

// Date layouts used on post pages.
const (
	publishedLayout = "Monday, _2 January 2006"
	datetimeLayout  = "2006-01-02"
)

var titleCaser = cases.Title(language.Und)

var viewFuncs = template.FuncMap{
	"tagLabel":   func(tag string) string { return titleCaser.String(tag) },
	"statusText": http.StatusText,
}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template)}
	for _, name := range []string{indexView, postView, archiveView, errorView} {
		t, err := template.New(name).Funcs(viewFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render executes the named page into a buffer first so a template failure
// never leaves a half-written 200 behind.
func (v *views) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func pageData(site model.SiteMetadata, title string, canonical *url.URL) model.PageData {
	data := model.PageData{
		Lang:           site.Lang,
		SiteTitle:      site.Title,
		SiteTitleShort: site.TitleShort(),
		PageTitle:      title,
		Author:         site.Author,
		Summary:        site.Summary,
		Highlight:      site.Highlight,
	}
	if canonical != nil {
		data.CanonicalURL = canonical.String()
	}
	if site.Coffee != nil {
		data.CoffeeURL = site.Coffee.String()
	}
	return data
}
