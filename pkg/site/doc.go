// Package site turns a vault of Markdown posts into a static website:
// configuration loading, Markdown-to-HTML rendering with wikilink
// resolution, the build pipeline (pages, tag indexes, feeds, the
// knowledge graph export, a build manifest), and a development server
// that rebuilds on change.
package site
