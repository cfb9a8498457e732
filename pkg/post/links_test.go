package post_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ovenbird/crumb/pkg/post"
)

func TestWikilinks(t *testing.T) {
	p := &post.Post{
		Slug: "source",
		Content: "See [[Knowledge Graphs]] and [[gbm-basics|the GBM primer]].\n" +
			"A repeated [[knowledge-graphs]] link and a [[ |blank]] one.\n",
	}
	// The repeated [[knowledge-graphs]] must collapse to its first
	// appearance; the blank target drops out entirely.
	links := p.Wikilinks()
	want := []string{"knowledge-graphs", "gbm-basics"}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("Wikilinks() = %v, want %v", links, want)
	}
}

func TestInternalLinks(t *testing.T) {
	p := &post.Post{
		Slug: "source",
		Content: "Wikilink to [[Alpha Note]], markdown to [beta](beta.md) and " +
			"[nested](./series/part-one.md#anchor), external [x](https://example.com/a.md), " +
			"asset [img](/static/fig.svg), self [me](source.md), dup [[alpha-note]].",
	}
	got := p.InternalLinks()
	want := []string{"alpha-note", "beta", "series/part-one"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InternalLinks() = %v, want %v", got, want)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Already-kebab  ", "already-kebab"},
		{"Notes_on_GBM", "notes-on-gbm"},
		{"series/Part One", "series/part-one"},
		{"Gödel, Escher, Bach", "gdel-escher-bach"},
		{"a//b", "a/b"},
		{"trailing-- ", "trailing"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := post.Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"a", "hello-world", "series/part-one", "a1/b2/c3"}
	for _, s := range valid {
		if err := post.ValidateSlug(s); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"Hello", "a_b", "a--b", "-a", "a-", "/a", "a/", "a//b", "a b", "../etc"}
	for _, s := range invalid {
		if err := post.ValidateSlug(s); !errors.Is(err, post.ErrBadSlug) {
			t.Errorf("ValidateSlug(%q) = %v, want ErrBadSlug", s, err)
		}
	}

	if err := post.ValidateSlug(""); !errors.Is(err, post.ErrEmptySlug) {
		t.Errorf("ValidateSlug(\"\") = %v, want ErrEmptySlug", err)
	}
}
