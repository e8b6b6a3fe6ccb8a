package handlers

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DocsPath is where the API reference page is served.
const DocsPath = "/docs"

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en" data-theme="{{.Theme}}">
  <head>
    <meta charset="utf-8" />
    <meta name="referrer" content="same-origin" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <link href="https://unpkg.com/@stoplight/elements@8/styles.min.css" rel="stylesheet" />
    <script src="https://unpkg.com/@stoplight/elements@8/web-components.min.js" crossorigin="anonymous"></script>
    <style>
      html[data-theme="dark"] { color-scheme: dark; }
      html[data-theme="dark"] body { background-color: #111; }
    </style>
{{- if .SystemTheme}}
    <script>
      const dark = window.matchMedia('(prefers-color-scheme: dark)');
      document.documentElement.setAttribute('data-theme', dark.matches ? 'dark' : 'light');
      dark.addEventListener('change', e => {
        document.documentElement.setAttribute('data-theme', e.matches ? 'dark' : 'light');
      });
    </script>
{{- end}}
  </head>
  <body style="height: 100vh; margin: 0;">
    <elements-api apiDescriptionUrl="{{.SpecPath}}" router="hash" layout="sidebar" tryItCredentialsPolicy="same-origin" />
  </body>
</html>
`))

// DocsHandler serves the OpenAPI reference UI using Stoplight Elements.
type DocsHandler struct {
	Title       string
	SpecPath    string
	Theme       string
	SystemTheme bool
}

// DocsOption is a functional option for configuring DocsHandler.
type DocsOption func(*DocsHandler)

// WithTheme sets a fixed theme ("dark" or "light").
func WithTheme(theme string) DocsOption {
	return func(h *DocsHandler) {
		h.Theme = theme
		h.SystemTheme = false
	}
}

// NewDocsHandler creates a new documentation handler. The page follows the
// system theme unless WithTheme is given.
func NewDocsHandler(title, specPath string, opts ...DocsOption) *DocsHandler {
	h := &DocsHandler{
		Title:       title,
		SpecPath:    specPath,
		Theme:       "dark",
		SystemTheme: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterChiRoutes registers the docs page.
func (h *DocsHandler) RegisterChiRoutes(r chi.Router) {
	r.Get(DocsPath, h.ServeHTTP)
}

// ServeHTTP serves the documentation page.
func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = docsPage.Execute(w, h)
}
