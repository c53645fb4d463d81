package model

import "html/template"

// PageData is the context shared by every rendered page.
type PageData struct {
	Lang           string
	SiteTitle      string
	SiteTitleShort string
	PageTitle      string
	Author         string
	Summary        string
	CanonicalURL   string
	CoffeeURL      string
	Highlight      bool
}

// PostPage is the context of a single post page.
type PostPage struct {
	PageData
	ID         string
	Title      string
	Author     string
	Published  string
	Datetime   string
	Tags       []string
	Body       template.HTML
	ShareLinks []ShareLink
}

// IndexPage is the context of the paginated index page.
type IndexPage struct {
	PageData
	Body     template.HTML
	Posts    []PostSummary
	Page     int
	PrevPage int
	NextPage int
	HasPrev  bool
	HasNext  bool
}

// ArchivePage is the context of the full post listing.
type ArchivePage struct {
	PageData
	Posts []PostSummary
}

// PostSummary is a post as it appears in listings.
type PostSummary struct {
	ID      string
	Title   string
	Summary string
}

// ErrorPage is the context of the not-found and generic error pages.
type ErrorPage struct {
	PageData
	Status  int
	Method  string
	Path    string
	Message string
}
