package post

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// dateLayouts are the accepted frontmatter date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// frontmatter is the YAML view of a Post. Unknown keys land in Extra
// via the inline map and are preserved on Encode.
type frontmatter struct {
	Title   string   `yaml:"title,omitempty"`
	Date    string   `yaml:"date,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Series  string   `yaml:"series,omitempty"`
	Part    int      `yaml:"part,omitempty"`
	Summary string   `yaml:"summary,omitempty"`
	Draft   bool     `yaml:"draft,omitempty"`
	Extra   Metadata `yaml:",inline"`
}

// Parse reads a Markdown document with optional YAML frontmatter.
// A document without a frontmatter block is all body. The slug is not
// part of the document; callers set it from the file path.
func Parse(r io.Reader) (*Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("post: read document: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Post, error) {
	p := &Post{Extra: Metadata{}}

	head, body, found, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	if !found {
		p.Content = strings.TrimLeft(string(data), "\r\n")
		return p, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
	}
	p.Title = fm.Title
	p.Tags = fm.Tags
	p.Series = fm.Series
	p.Part = fm.Part
	p.Summary = fm.Summary
	p.Draft = fm.Draft
	if len(fm.Extra) > 0 {
		p.Extra = fm.Extra
	}
	if fm.Date != "" {
		t, err := parseDate(fm.Date)
		if err != nil {
			return nil, err
		}
		p.Date = t
	}
	p.Content = strings.TrimLeft(string(body), "\r\n")
	return p, nil
}

// Encode writes the post back to canonical document form: frontmatter
// block (omitted when every field is empty), blank line, body, trailing
// newline. Tags are deduplicated and sorted so encoded output is stable.
func Encode(p *Post) ([]byte, error) {
	fm := frontmatter{
		Title:   p.Title,
		Tags:    normalizeTags(p.Tags),
		Series:  p.Series,
		Part:    p.Part,
		Summary: p.Summary,
		Draft:   p.Draft,
	}
	if len(p.Extra) > 0 {
		fm.Extra = p.Extra
	}
	if !p.Date.IsZero() {
		fm.Date = formatDate(p.Date)
	}

	body := strings.TrimRight(p.Content, "\n")

	if fm.isEmpty() {
		if body == "" {
			return []byte{}, nil
		}
		return []byte(body + "\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter)
	buf.WriteByte('\n')
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("post: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("post: encode frontmatter: %w", err)
	}
	buf.WriteString(delimiter)
	buf.WriteByte('\n')
	if body != "" {
		buf.WriteByte('\n')
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (fm frontmatter) isEmpty() bool {
	return fm.Title == "" && fm.Date == "" && len(fm.Tags) == 0 &&
		fm.Series == "" && fm.Part == 0 && fm.Summary == "" &&
		!fm.Draft && len(fm.Extra) == 0
}

// splitFrontmatter returns the YAML block and the body. The opening
// delimiter must be the first line of the document and the closing one
// must sit alone on its own line. A block that opens but never closes
// is an error, not a body.
func splitFrontmatter(data []byte) (head, body []byte, found bool, err error) {
	doc := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")) // strip UTF-8 BOM
	line, rest := cutLine(doc)
	if !isDelimiter(line) {
		return nil, data, false, nil
	}
	blockStart := rest
	for rest != nil {
		line, next := cutLine(rest)
		if isDelimiter(line) {
			head = blockStart[:len(blockStart)-len(rest)]
			head = bytes.TrimSuffix(head, []byte("\n"))
			head = bytes.TrimSuffix(head, []byte("\r"))
			return head, next, true, nil
		}
		rest = next
	}
	return nil, nil, false, fmt.Errorf("%w: frontmatter opened but never closed", ErrMalformedFrontmatter)
}

func cutLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:]
	}
	return b, nil
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, "\r")) == delimiter
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrMalformedFrontmatter, s)
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Location() == time.UTC {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
