package post_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ovenbird/crumb/pkg/post"
)

func TestPublished(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		p    post.Post
		want bool
	}{
		{"dated past", post.Post{Date: now.Add(-24 * time.Hour)}, true},
		{"undated", post.Post{}, true},
		{"draft", post.Post{Draft: true, Date: now.Add(-24 * time.Hour)}, false},
		{"future dated", post.Post{Date: now.Add(24 * time.Hour)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.p.Published(now); got != c.want {
				t.Errorf("Published() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEffectiveTitle(t *testing.T) {
	p := &post.Post{Slug: "fallback-slug", Content: "intro\n\n# Heading Title\n\nmore"}
	if got := p.EffectiveTitle(); got != "Heading Title" {
		t.Errorf("EffectiveTitle() = %q", got)
	}

	p.Title = "Explicit"
	if got := p.EffectiveTitle(); got != "Explicit" {
		t.Errorf("EffectiveTitle() = %q", got)
	}

	bare := &post.Post{Slug: "only-slug"}
	if got := bare.EffectiveTitle(); got != "only-slug" {
		t.Errorf("EffectiveTitle() = %q", got)
	}
}

func TestEffectiveSummary(t *testing.T) {
	p := &post.Post{
		Content: "# Title\n\n```go\ncode := true\n```\n\nThe [[wiener-process|Wiener process]] underlies\neverything here.\n\nSecond paragraph never shows.",
	}
	got := p.EffectiveSummary(280)
	if got != "The wiener-process|Wiener process underlies everything here." {
		t.Errorf("EffectiveSummary() = %q", got)
	}

	p.Summary = "Hand-written."
	if got := p.EffectiveSummary(280); got != "Hand-written." {
		t.Errorf("EffectiveSummary() = %q", got)
	}
}

func TestEffectiveSummary_Truncation(t *testing.T) {
	p := &post.Post{Content: strings.Repeat("word ", 100)}
	got := p.EffectiveSummary(40)
	if len([]rune(got)) > 41 { // limit plus ellipsis
		t.Errorf("summary too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestEventString(t *testing.T) {
	e := post.Event{Type: post.EventModify, Slug: "notes/alpha", Timestamp: 1730636400}
	if got := e.String(); got != "MODIFY notes/alpha" {
		t.Errorf("String() = %q", got)
	}
}
