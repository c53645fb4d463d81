package content

import (
	"time"

	"github.com/ryukoposting/ustack/internal/model"
)

// Entry is one parsed source document. Body and Metadata always come from
// the same read of the file.
type Entry struct {
	// LastModified is the file's modification time when it was parsed.
	LastModified time.Time
	// LastChecked is when the entry was last validated against disk.
	LastChecked time.Time
	Metadata    model.PostMetadata
	// Body is rendered HTML.
	Body string
}

// PostMeta is the listing view of a post.
type PostMeta struct {
	ID      string
	Title   string
	Summary string
}

// PostContent is an owned copy of a cached entry, safe to use after the
// cache lock is released.
type PostContent struct {
	ID           string
	Body         string
	LastModified time.Time
	Metadata     model.PostMetadata
}

func (e Entry) content(id string) PostContent {
	return PostContent{
		ID:           id,
		Body:         e.Body,
		LastModified: e.LastModified,
		Metadata:     e.Metadata.Clone(),
	}
}

// Published is the creation date from front matter, or the file's
// modification time when none was given.
func (p PostContent) Published() time.Time {
	return published(p.Metadata, p.LastModified)
}

// Meta projects the post onto its listing view.
func (p PostContent) Meta() PostMeta {
	return PostMeta{ID: p.ID, Title: p.Metadata.Title, Summary: p.Metadata.Summary}
}

func published(meta model.PostMetadata, modified time.Time) time.Time {
	if meta.Created != nil {
		return meta.Created.Time
	}
	return modified
}
