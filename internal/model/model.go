package model

import (
	"errors"
	"fmt"
	"net/url"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// PostMetadata is the front matter of a single post.
type PostMetadata struct {
	Title     string
	Author    string
	Summary   string
	Created   *Timestamp
	Highlight bool
	Tags      []string
}

// SiteMetadata is the front matter of the index document. It configures the
// whole site.
type SiteMetadata struct {
	Title      string
	ShortTitle string
	Author     string
	Summary    string
	Highlight  bool
	Tags       []string
	URL        *url.URL
	Twitter    bool
	Lang       string
	Coffee     *url.URL
}

// DefaultLang is used when the index does not name a language.
const DefaultLang = "en_US"

type postMetadataYAML struct {
	Title     *string    `yaml:"title"`
	Author    string     `yaml:"author"`
	Summary   string     `yaml:"summary"`
	Created   *Timestamp `yaml:"created"`
	Highlight bool       `yaml:"highlight"`
	Tags      []string   `yaml:"tags"`
}

type siteMetadataYAML struct {
	Title      *string  `yaml:"title"`
	ShortTitle string   `yaml:"short_title"`
	Author     string   `yaml:"author"`
	Summary    string   `yaml:"summary"`
	Highlight  bool     `yaml:"highlight"`
	Tags       []string `yaml:"tags"`
	URL        *string  `yaml:"url"`
	Twitter    bool     `yaml:"twitter"`
	Lang       string   `yaml:"lang"`
	Coffee     string   `yaml:"coffee"`
}

// ParsePostMetadata decodes and validates a post's front matter block.
func ParsePostMetadata(block []byte) (PostMetadata, error) {
	var raw postMetadataYAML
	if err := yaml.Unmarshal(block, &raw); err != nil {
		return PostMetadata{}, fmt.Errorf("YAML parse error: %w", err)
	}
	if raw.Title == nil {
		return PostMetadata{}, errors.New("missing field `title`")
	}
	return PostMetadata{
		Title:     *raw.Title,
		Author:    raw.Author,
		Summary:   raw.Summary,
		Created:   raw.Created,
		Highlight: raw.Highlight,
		Tags:      normalizeTags(raw.Tags),
	}, nil
}

// ParseSiteMetadata decodes and validates the index front matter block. The
// site URL and the coffee link must both be usable as base URLs.
func ParseSiteMetadata(block []byte) (SiteMetadata, error) {
	var raw siteMetadataYAML
	if err := yaml.Unmarshal(block, &raw); err != nil {
		return SiteMetadata{}, fmt.Errorf("YAML parse error: %w", err)
	}
	if raw.Title == nil {
		return SiteMetadata{}, errors.New("missing field `title`")
	}
	if raw.URL == nil {
		return SiteMetadata{}, errors.New("missing field `url`")
	}
	site, err := parseBaseURL(*raw.URL)
	if err != nil {
		return SiteMetadata{}, fmt.Errorf("url: %w", err)
	}
	var coffee *url.URL
	if raw.Coffee != "" {
		if coffee, err = parseBaseURL(raw.Coffee); err != nil {
			return SiteMetadata{}, fmt.Errorf("coffee: %w", err)
		}
	}
	lang := raw.Lang
	if lang == "" {
		lang = DefaultLang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return SiteMetadata{}, fmt.Errorf("lang %q: %w", lang, err)
	}
	return SiteMetadata{
		Title:      *raw.Title,
		ShortTitle: raw.ShortTitle,
		Author:     raw.Author,
		Summary:    raw.Summary,
		Highlight:  raw.Highlight,
		Tags:       normalizeTags(raw.Tags),
		URL:        site,
		Twitter:    raw.Twitter,
		Lang:       tag.String(),
		Coffee:     coffee,
	}, nil
}

// DefaultSiteMetadata is the placeholder used until the index parses.
func DefaultSiteMetadata() SiteMetadata {
	return SiteMetadata{
		URL:  &url.URL{Scheme: "https", Host: "unspecified.com", Path: "/"},
		Lang: "en-US",
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("relative URL without a base: %q", raw)
	}
	if u.Opaque != "" {
		return nil, fmt.Errorf("%q must be a base URL", raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// normalizeTags turns the tag list into a sorted set.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup || tag == "" {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// PostMetadata projects the site metadata onto the fields shared with posts.
func (s SiteMetadata) PostMetadata() PostMetadata {
	return PostMetadata{
		Title:     s.Title,
		Author:    s.Author,
		Summary:   s.Summary,
		Highlight: s.Highlight,
		Tags:      append([]string(nil), s.Tags...),
	}
}

// TitleShort returns the short title, falling back to the full title.
func (s SiteMetadata) TitleShort() string {
	if s.ShortTitle != "" {
		return s.ShortTitle
	}
	return s.Title
}

// PostURL is the canonical URL of the post with the given id.
func (s SiteMetadata) PostURL(id string) *url.URL {
	return s.URL.JoinPath("p", id)
}

// FeedURL is the canonical URL of the RSS feed.
func (s SiteMetadata) FeedURL() *url.URL {
	return s.URL.JoinPath("rss")
}

// FaviconURL is the canonical URL of the site icon.
func (s SiteMetadata) FaviconURL() *url.URL {
	return s.URL.JoinPath("public", "favicon.png")
}

// ShareLink is a link that shares a post on some platform.
type ShareLink struct {
	Platform string
	URL      string
}

// ShareLinks returns the share links enabled for the post with the given id.
func (s SiteMetadata) ShareLinks(id string) []ShareLink {
	var links []ShareLink
	if s.Twitter {
		intent := url.URL{Scheme: "https", Host: "twitter.com", Path: "/intent/tweet"}
		q := intent.Query()
		q.Set("url", s.PostURL(id).String())
		intent.RawQuery = q.Encode()
		links = append(links, ShareLink{Platform: "twitter", URL: intent.String()})
	}
	return links
}

// Clone returns a deep copy, so the copy can outlive any lock held over s.
func (s SiteMetadata) Clone() SiteMetadata {
	out := s
	out.Tags = append([]string(nil), s.Tags...)
	if s.URL != nil {
		u := *s.URL
		out.URL = &u
	}
	if s.Coffee != nil {
		u := *s.Coffee
		out.Coffee = &u
	}
	return out
}

// Clone returns a deep copy of the metadata.
func (m PostMetadata) Clone() PostMetadata {
	out := m
	out.Tags = append([]string(nil), m.Tags...)
	if m.Created != nil {
		created := *m.Created
		out.Created = &created
	}
	return out
}
