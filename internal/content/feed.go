package content

import (
	"html"
	"net/url"
	"time"

	"github.com/ryukoposting/ustack/internal/rss"
)

const minFeedTTL = 5 * time.Minute

// FeedOptions selects what goes into a feed document.
type FeedOptions struct {
	// Since drops posts published before it. The zero value keeps every post.
	Since time.Time
	// IncludeContent adds each post's full HTML body.
	IncludeContent bool
	// MaxItems caps the number of items. Zero or less means no cap.
	MaxItems int
}

// Feed builds an RSS document from the cached posts, newest first.
func (c *Cache) Feed(opts FeedOptions) rss.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	channel := c.channel
	channel.AtomLinks = append([]rss.AtomLink(nil), c.channel.AtomLinks...)
	if channel.Image != nil {
		image := *channel.Image
		channel.Image = &image
	}
	if !c.updated.IsZero() {
		channel.LastBuildDate = c.updated.Format(time.RFC1123Z)
	}

	posts := c.postsLocked()
	items := make([]rss.Item, 0, len(posts))
	for _, post := range posts {
		if opts.MaxItems > 0 && len(items) >= opts.MaxItems {
			break
		}
		if !opts.Since.IsZero() && post.Published().Before(opts.Since) {
			continue
		}
		items = append(items, c.feedItem(post, opts.IncludeContent))
	}
	channel.Items = items

	return rss.New(channel)
}

func (c *Cache) feedItem(post PostContent, includeContent bool) rss.Item {
	link := c.site.PostURL(post.ID).String()
	item := rss.Item{
		Title:       post.Metadata.Title,
		Link:        link,
		Description: post.Metadata.Summary,
		GUID:        &rss.GUID{Value: link, IsPermaLink: true},
		Categories:  post.Metadata.Tags,
	}
	if post.Metadata.Created != nil {
		item.PubDate = post.Metadata.Created.RSS()
	}
	if includeContent {
		item.Content = &rss.Content{Value: BasePart(c.site.URL) + post.Body}
	}
	return item
}

// buildChannel derives the channel fields shared by every feed request from
// the current site metadata. Callers must hold c.mu.
func (c *Cache) buildChannel(now time.Time) rss.Channel {
	site := c.site
	channel := rss.Channel{
		Title:       site.Title,
		Link:        site.URL.String(),
		Description: site.Summary,
		Language:    site.Lang,
		PubDate:     now.Format(time.RFC1123Z),
		TTL:         feedTTL(c.ttl),
		Image: &rss.Image{
			URL:   site.FaviconURL().String(),
			Title: site.Title,
			Link:  site.URL.String(),
		},
		AtomLinks: []rss.AtomLink{{
			Href: site.FeedURL().String(),
			Rel:  "self",
			Type: "application/rss+xml",
		}},
	}
	if !c.updated.IsZero() {
		channel.LastBuildDate = c.updated.Format(time.RFC1123Z)
	}
	return channel
}

// feedTTL converts the cache TTL to whole minutes, rounding up, with a floor
// of five minutes.
func feedTTL(ttl time.Duration) int {
	if ttl < minFeedTTL {
		ttl = minFeedTTL
	}
	return int((ttl + time.Minute - 1) / time.Minute)
}

// BasePart is a <base> element that makes relative links in a body resolve
// against the site URL when the body is shown elsewhere.
func BasePart(site *url.URL) string {
	return `<base href="` + html.EscapeString(site.String()) + `" />`
}
