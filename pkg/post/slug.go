package post

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*(?:/[a-z0-9]+(?:-[a-z0-9]+)*)*$`)

// ValidateSlug checks that a slug is non-empty, lowercase kebab-case,
// optionally nested with "/" separators, and free of path escapes.
func ValidateSlug(slug string) error {
	if slug == "" {
		return ErrEmptySlug
	}
	if !slugRe.MatchString(slug) {
		return fmt.Errorf("%w: %q", ErrBadSlug, slug)
	}
	return nil
}

// Slugify derives a slug from free text: lowercase, spaces and
// underscores become hyphens, anything outside [a-z0-9-/] is dropped,
// runs collapse. "Notes on Gödel" becomes "notes-on-gdel".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	prevSlash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen, prevSlash = false, false
		case r == '/':
			if !prevSlash && b.Len() > 0 {
				b.WriteByte('/')
				prevSlash, prevHyphen = true, false
			}
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !prevHyphen && !prevSlash && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	out := b.String()
	out = strings.TrimRight(out, "-/")
	out = strings.ReplaceAll(out, "-/", "/")
	out = strings.ReplaceAll(out, "/-", "/")
	return out
}
