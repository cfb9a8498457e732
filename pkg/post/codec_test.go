package post_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ovenbird/crumb/pkg/post"
)

func TestParseBytes_FullDocument(t *testing.T) {
	doc := `---
title: On Ruin Probabilities
date: 2025-11-03
tags: [finance, simulation]
series: cash-flow
part: 2
draft: true
mood: contemplative
---

Body starts here.

Second paragraph.
`
	p, err := post.ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if p.Title != "On Ruin Probabilities" {
		t.Errorf("title = %q", p.Title)
	}
	if got := p.Date.Format("2006-01-02"); got != "2025-11-03" {
		t.Errorf("date = %s", got)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "finance" {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.Series != "cash-flow" || p.Part != 2 {
		t.Errorf("series/part = %q/%d", p.Series, p.Part)
	}
	if !p.Draft {
		t.Error("draft flag lost")
	}
	if p.Extra["mood"] != "contemplative" {
		t.Errorf("extra keys not preserved: %v", p.Extra)
	}
	if !strings.HasPrefix(p.Content, "Body starts here.") {
		t.Errorf("content = %q", p.Content)
	}
}

func TestParseBytes_NoFrontmatter(t *testing.T) {
	p, err := post.ParseBytes([]byte("Just a body.\n"))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if p.Title != "" || len(p.Tags) != 0 {
		t.Error("expected empty metadata")
	}
	if p.Content != "Just a body.\n" {
		t.Errorf("content = %q", p.Content)
	}
}

func TestParseBytes_EdgeCases(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		p, err := post.ParseBytes(nil)
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if p.Content != "" {
			t.Errorf("content = %q", p.Content)
		}
	})

	t.Run("unclosed frontmatter is an error", func(t *testing.T) {
		_, err := post.ParseBytes([]byte("---\ntitle: x\nno closing line"))
		if !errors.Is(err, post.ErrMalformedFrontmatter) {
			t.Errorf("expected ErrMalformedFrontmatter, got %v", err)
		}
	})

	t.Run("crlf line endings", func(t *testing.T) {
		p, err := post.ParseBytes([]byte("---\r\ntitle: windows\r\n---\r\n\r\nbody\r\n"))
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if p.Title != "windows" {
			t.Errorf("title = %q", p.Title)
		}
	})

	t.Run("no trailing newline after closing delimiter", func(t *testing.T) {
		p, err := post.ParseBytes([]byte("---\ntitle: tight\n---"))
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if p.Title != "tight" || p.Content != "" {
			t.Errorf("got title=%q content=%q", p.Title, p.Content)
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := post.ParseBytes([]byte("---\ntitle: [unclosed\n---\n"))
		if !errors.Is(err, post.ErrMalformedFrontmatter) {
			t.Errorf("expected ErrMalformedFrontmatter, got %v", err)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := post.ParseBytes([]byte("---\ndate: someday\n---\n"))
		if !errors.Is(err, post.ErrMalformedFrontmatter) {
			t.Errorf("expected ErrMalformedFrontmatter, got %v", err)
		}
	})
}

func TestEncode_RoundTrip(t *testing.T) {
	in := &post.Post{
		Title:   "Round Trip",
		Date:    time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		Tags:    []string{"go", "notes"},
		Summary: "A short summary.",
		Extra:   post.Metadata{"mood": "calm"},
		Content: "First line.\n\nSecond paragraph.",
	}
	data, err := post.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := post.ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}

	if out.Title != in.Title {
		t.Errorf("title: got %q want %q", out.Title, in.Title)
	}
	if !out.Date.Equal(in.Date) {
		t.Errorf("date: got %v want %v", out.Date, in.Date)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "go" || out.Tags[1] != "notes" {
		t.Errorf("tags: %v", out.Tags)
	}
	if out.Summary != in.Summary {
		t.Errorf("summary: got %q", out.Summary)
	}
	if out.Extra["mood"] != "calm" {
		t.Errorf("extra: %v", out.Extra)
	}
	if strings.TrimRight(out.Content, "\n") != in.Content {
		t.Errorf("content: got %q", out.Content)
	}

	// Encode must be stable across round trips.
	again, err := post.Encode(out)
	if err != nil {
		t.Fatalf("second Encode failed: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("encode not stable:\n--- first ---\n%s\n--- second ---\n%s", data, again)
	}
}

func TestEncode_TagNormalization(t *testing.T) {
	data, err := post.Encode(&post.Post{
		Title: "t",
		Tags:  []string{"Go", "  notes ", "go", ""},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := post.ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "go" || out.Tags[1] != "notes" {
		t.Errorf("tags = %v, want [go notes]", out.Tags)
	}
}

func TestEncode_BodyOnly(t *testing.T) {
	data, err := post.Encode(&post.Post{Content: "plain body"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "plain body\n" {
		t.Errorf("got %q, want body without frontmatter block", data)
	}
}

func TestEncode_RFC3339WhenClockPresent(t *testing.T) {
	in := &post.Post{
		Title: "timed",
		Date:  time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC),
	}
	data, err := post.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), "2025-11-03T14:30:00Z") {
		t.Errorf("expected RFC3339 date in output, got:\n%s", data)
	}
}
