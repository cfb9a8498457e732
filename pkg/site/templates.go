package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"
)

//go:embed templates/*.html.tmpl
var defaultTemplates embed.FS

// pageNames are the page templates a build renders through the base
// layout. A site can override any of them (and the base) by placing a
// file of the same name in its templates directory.
var pageNames = []string{"post", "index", "tag", "tags"}

type templateSet struct {
	pages map[string]*template.Template
}

// loadTemplates assembles one template per page: the base layout plus
// the page's content block, preferring files from overrideDir over the
// embedded defaults.
func loadTemplates(overrideDir string, funcs template.FuncMap) (*templateSet, error) {
	read := func(name string) (string, error) {
		file := name + ".html.tmpl"
		if overrideDir != "" {
			if data, err := os.ReadFile(filepath.Join(overrideDir, file)); err == nil {
				return string(data), nil
			}
		}
		data, err := defaultTemplates.ReadFile("templates/" + file)
		if err != nil {
			return "", fmt.Errorf("site: missing template %s: %w", name, err)
		}
		return string(data), nil
	}

	base, err := read("base")
	if err != nil {
		return nil, err
	}

	ts := &templateSet{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		body, err := read(name)
		if err != nil {
			return nil, err
		}
		t, err := template.New("base").Funcs(funcs).Parse(base)
		if err != nil {
			return nil, fmt.Errorf("site: parse base template: %w", err)
		}
		if _, err := t.Parse(body); err != nil {
			return nil, fmt.Errorf("site: parse template %s: %w", name, err)
		}
		ts.pages[name] = t
	}
	return ts, nil
}

func (ts *templateSet) execute(w io.Writer, page string, data any) error {
	t, ok := ts.pages[page]
	if !ok {
		return fmt.Errorf("site: unknown page template %q", page)
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("site: execute template %s: %w", page, err)
	}
	return nil
}

// formatDate is the template-facing date format.
func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
