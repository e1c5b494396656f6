package views

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

// Page is the data envelope every template is executed with.
type Page struct {
	Title         string
	Flash         string
	Authenticated bool
	Data          any
}

// Renderer renders HTML pages from the embedded templates folder. Each page
// template is parsed together with the base layout at construction time.
type Renderer struct {
	logger    *slog.Logger
	templates map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Format("Mon, Jan 2 2006 at 15:04")
	},
}

// pageTemplates lists every page that can be rendered. Parsing happens once
// here so a broken template fails at startup, not on first request.
var pageTemplates = []string{
	"event_list.html",
	"event_detail.html",
	"booking_success.html",
	"signup.html",
	"login.html",
	"not_found.html",
	"error.html",
}

// NewRenderer parses all page templates and returns a Renderer.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{logger: logger, templates: templates}, nil
}

// Render writes the named page with the given status code. A missing template
// name is a programming error and renders as a plain 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base.html", page); err != nil {
		// Headers are already sent; all we can do is log.
		r.logger.Error("render template", "name", name, "err", err)
	}
}
