package post

import (
	"regexp"
	"strings"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]*))?\]\]`)
	mdLinkRe   = regexp.MustCompile(`\]\(([^()\s]+)(?:\s+"[^"]*")?\)`)
)

// Wikilinks returns the slugs the post body references with [[target]]
// or [[target|label]] syntax, deduplicated, in order of first
// appearance. Targets are slugified so "My Note" and "my-note" resolve
// to the same post.
func (p *Post) Wikilinks() []string {
	matches := wikilinkRe.FindAllStringSubmatch(p.Content, -1)
	var out []string
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		target := Slugify(strings.TrimSpace(m[1]))
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// InternalLinks returns the set of slugs this post links to, through
// wikilinks and through relative Markdown links ending in .md. Each
// slug appears once; order follows first appearance.
func (p *Post) InternalLinks() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(slug string) {
		if slug == "" || slug == p.Slug || seen[slug] {
			return
		}
		seen[slug] = true
		out = append(out, slug)
	}

	for _, target := range p.Wikilinks() {
		add(target)
	}
	for _, m := range mdLinkRe.FindAllStringSubmatch(p.Content, -1) {
		if slug, ok := slugFromHref(m[1]); ok {
			add(slug)
		}
	}
	return out
}

// slugFromHref maps a Markdown link destination to a post slug. Only
// relative .md links count as internal; everything else (absolute
// URLs, anchors, static assets) is ignored.
func slugFromHref(href string) (string, bool) {
	if href == "" || strings.Contains(href, "://") ||
		strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return "", false
	}
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	if !strings.HasSuffix(href, ".md") {
		return "", false
	}
	href = strings.TrimSuffix(href, ".md")
	href = strings.TrimPrefix(href, "./")
	href = strings.TrimPrefix(href, "/")
	for strings.HasPrefix(href, "../") {
		href = strings.TrimPrefix(href, "../")
	}
	slug := Slugify(href)
	return slug, slug != ""
}
