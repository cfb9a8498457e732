package site

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ovenbird/crumb/pkg/post"
)

var wikilinkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]*))?\]\]`)

// Renderer converts post Markdown to HTML. Wikilinks are resolved to
// site URLs before conversion; targets with no matching post render as
// a marked span so broken references stay visible in the output.
type Renderer struct {
	md      goldmark.Markdown
	baseURL string
}

// NewRenderer builds a renderer for the given site base URL.
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Render converts p's body to HTML. exists reports whether a slug has
// a page in this build; nil treats every wikilink target as existing.
func (r *Renderer) Render(p *post.Post, exists func(slug string) bool) (string, error) {
	source := r.resolveWikilinks(p.Content, exists)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("site: render %s: %w", p.Slug, err)
	}
	return buf.String(), nil
}

// AbsURL joins a site-relative path onto the base URL.
func (r *Renderer) AbsURL(path string) string {
	return r.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// PostURL returns the canonical page URL for a slug.
func (r *Renderer) PostURL(slug string) string {
	return r.AbsURL(slug) + "/"
}

// resolveWikilinks rewrites [[target]] and [[target|label]] into HTML
// anchors ahead of Markdown conversion. Raw HTML passes through the
// converter because the renderer runs with unsafe output enabled.
func (r *Renderer) resolveWikilinks(content string, exists func(string) bool) string {
	return wikilinkRe.ReplaceAllStringFunc(content, func(match string) string {
		parts := wikilinkRe.FindStringSubmatch(match)
		target := post.Slugify(strings.TrimSpace(parts[1]))
		label := strings.TrimSpace(parts[2])
		if label == "" {
			label = strings.TrimSpace(parts[1])
		}
		if target == "" {
			return html.EscapeString(label)
		}
		if exists != nil && !exists(target) {
			return fmt.Sprintf(`<span class="wikilink-broken">%s</span>`, html.EscapeString(label))
		}
		return fmt.Sprintf(`<a href="%s" class="wikilink">%s</a>`,
			r.PostURL(target), html.EscapeString(label))
	})
}
