// Package rss holds the RSS 2.0 document model with the atom and content
// namespaces used by the blog feed.
package rss

import (
	"encoding/xml"
	"io"
)

const (
	atomNS    = "http://www.w3.org/2005/Atom"
	contentNS = "http://purl.org/rss/1.0/modules/content/"
)

// Document is the root <rss> element.
type Document struct {
	XMLName   xml.Name `xml:"rss"`
	Version   string   `xml:"version,attr"`
	AtomNS    string   `xml:"xmlns:atom,attr"`
	ContentNS string   `xml:"xmlns:content,attr"`
	Channel   Channel  `xml:"channel"`
}

// Channel is the <channel> element.
type Channel struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	Language      string     `xml:"language,omitempty"`
	PubDate       string     `xml:"pubDate,omitempty"`
	LastBuildDate string     `xml:"lastBuildDate,omitempty"`
	TTL           int        `xml:"ttl,omitempty"`
	Image         *Image     `xml:"image,omitempty"`
	AtomLinks     []AtomLink `xml:"atom:link"`
	Items         []Item     `xml:"item"`
}

// Image is the channel <image> element.
type Image struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// AtomLink is an <atom:link> element, typically the feed's self reference.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

// Item is an <item> element.
type Item struct {
	Title       string   `xml:"title,omitempty"`
	Link        string   `xml:"link,omitempty"`
	Description string   `xml:"description,omitempty"`
	GUID        *GUID    `xml:"guid,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category,omitempty"`
	Content     *Content `xml:"content:encoded,omitempty"`
}

// GUID is an item <guid>.
type GUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// Content carries the full HTML body of an item.
type Content struct {
	Value string `xml:",cdata"`
}

// New wraps channel in an RSS 2.0 document.
func New(channel Channel) Document {
	return Document{
		Version:   "2.0",
		AtomNS:    atomNS,
		ContentNS: contentNS,
		Channel:   channel,
	}
}

// Write encodes the document to w, XML header included.
func (d Document) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Flush()
}
