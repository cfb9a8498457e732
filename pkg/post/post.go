package post

import (
	"fmt"
	"strings"
	"time"
)

// Metadata holds frontmatter fields that have no dedicated Post field.
// Values survive a Parse/Encode round trip untouched.
type Metadata map[string]any

// Post is the central entity of the domain: one Markdown document with
// YAML frontmatter, identified by its slug (path under the content
// directory, without extension).
type Post struct {
	Slug    string
	Title   string
	Date    time.Time
	Tags    []string
	Series  string
	Part    int
	Summary string
	Draft   bool

	// Extra carries unrecognized frontmatter keys.
	Extra Metadata

	// Content is the Markdown body without the frontmatter block.
	Content string
}

// Published reports whether the post should appear in a build:
// not a draft and not dated in the future.
func (p *Post) Published(now time.Time) bool {
	if p.Draft {
		return false
	}
	if !p.Date.IsZero() && p.Date.After(now) {
		return false
	}
	return true
}

// EffectiveTitle returns the frontmatter title, falling back to the
// first ATX heading in the body, then to the slug.
func (p *Post) EffectiveTitle() string {
	if p.Title != "" {
		return p.Title
	}
	for _, line := range strings.Split(p.Content, "\n") {
		line = strings.TrimSpace(line)
		if h, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return p.Slug
}

// EffectiveSummary returns the frontmatter summary, falling back to
// the first body paragraph truncated to at most max runes on a word
// boundary. Headings, code fences, and wikilink brackets are skipped
// or stripped.
func (p *Post) EffectiveSummary(max int) string {
	if p.Summary != "" {
		return truncate(p.Summary, max)
	}
	var para []string
	inFence := false
	for _, line := range strings.Split(p.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trimmed)
	}
	text := strings.Join(para, " ")
	text = strings.ReplaceAll(text, "[[", "")
	text = strings.ReplaceAll(text, "]]", "")
	return truncate(text, max)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

// EventType represents the type of change observed in a vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a post in the vault.
type Event struct {
	Type      EventType
	Slug      string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer, which also satisfies the lifecycle
// event contract used by the vault's watch source bridge.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Slug)
}

type contextKey string

// ChangeReasonKey is the context key for passing the commit message
// (change reason) down to versioned Save/Delete operations.
const ChangeReasonKey contextKey = "change_reason"
