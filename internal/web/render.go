// Package web is the browser front end: list, create, edit, toggle and
// delete over the shared store, rendered server-side with html/template
// and redirect-after-POST throughout.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates
var templatesFS embed.FS

// Renderer holds the parsed page templates. Each page is combined with
// base.html and executed through the "base" entry point.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	base, err := templatesFS.ReadFile("templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("read base template: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		page, err := templatesFS.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tmpl, err := template.New(name).Parse(string(base))
		if err != nil {
			return nil, fmt.Errorf("parse base for %s: %w", name, err)
		}
		if _, err := tmpl.Parse(string(page)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render executes the named page template and writes the result to w.
func (r *Renderer) Render(w http.ResponseWriter, templateName string, data interface{}) error {
	tmpl, ok := r.templates[templateName]
	if !ok {
		return fmt.Errorf("template %q not found", templateName)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("execute template %q: %w", templateName, err)
	}
	return nil
}

// RenderError writes a minimal error page with the given status code.
func (r *Renderer) RenderError(w http.ResponseWriter, code int, message string) {
	http.Error(w, fmt.Sprintf("Error %d: %s", code, message), code)
}
