// Package views renders catalog pages from embedded html/template files.
//
// Text fields are stored with markup characters already replaced by entities,
// so templates print them through the escaped func instead of letting
// html/template encode them a second time.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

var funcs = template.FuncMap{
	// escaped marks stored, pre-escaped text as safe markup.
	"escaped": func(s string) template.HTML { return template.HTML(s) },
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(files, layoutFile)
	if err != nil {
		return nil, errors.Wrap(err, "parse layout")
	}
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(files, name)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// Render executes view into a buffer first so a failing template never
// leaves a half-written page behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, view string, data interface{}) error {
	t, ok := r.pages[view]
	if !ok {
		return errors.Errorf("unknown view %q", view)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.Wrapf(err, "render %s", view)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether view exists.
func (r *Renderer) Has(view string) bool {
	_, ok := r.pages[view]
	return ok
}
