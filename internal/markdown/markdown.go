// Package markdown splits a source document into its front matter block and
// its rendered HTML body.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrMissingFrontMatter is returned when a document has no YAML preamble.
var ErrMissingFrontMatter = errors.New("missing a YAML preamble")

// Document is a parsed source file.
type Document struct {
	// FrontMatter is the raw YAML between the `---` delimiters.
	FrontMatter []byte
	// HTML is the rendered body. It is trusted and must not be escaped again.
	HTML string
}

// Renderer converts markdown sources into Documents. It is safe for
// concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	format *frontmatter.Format
}

// New returns a Renderer configured for blog content: GFM tables, strikethrough
// and task lists, smart punctuation, heading ids and raw HTML passthrough.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{
		md:     md,
		format: frontmatter.NewFormat("---", "---", captureBlock),
	}
}

func captureBlock(data []byte, v interface{}) error {
	block, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("front matter target must be *[]byte, got %T", v)
	}
	*block = append((*block)[:0], data...)
	return nil
}

// Parse splits src into front matter and body and renders the body.
func (r *Renderer) Parse(src []byte) (Document, error) {
	var block []byte
	body, err := frontmatter.MustParse(bytes.NewReader(src), &block, r.format)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return Document{}, ErrMissingFrontMatter
		}
		return Document{}, fmt.Errorf("reading front matter: %w", err)
	}

	var html bytes.Buffer
	if err := r.md.Convert(body, &html); err != nil {
		return Document{}, fmt.Errorf("rendering markdown: %w", err)
	}
	return Document{FrontMatter: block, HTML: html.String()}, nil
}
