package mediate

import (
	"html/template"
	"net/http"
)

// DocsOption configures the docs UI.
type DocsOption func(*docsConfig)

type docsConfig struct {
	Title   string
	SpecURL string
}

// WithDocsTitle sets the page title for the docs UI.
func WithDocsTitle(title string) DocsOption {
	return func(c *docsConfig) { c.Title = title }
}

// WithDocsSpecURL points the docs UI at a different OpenAPI document URL.
func WithDocsSpecURL(url string) DocsOption {
	return func(c *docsConfig) { c.SpecURL = url }
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
  <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
</head>
<body>
  <elements-api
    apiDescriptionUrl="{{.SpecURL}}"
    router="hash"
    layout="sidebar"
  />
</body>
</html>`))

// ServeDocs mounts an interactive documentation UI (Stoplight Elements)
// at the given path, reading the OpenAPI document from /openapi.json
// unless WithDocsSpecURL says otherwise. Pair it with ServeSpec.
func (r *Router) ServeDocs(path string, opts ...DocsOption) {
	cfg := docsConfig{Title: r.title, SpecURL: "/openapi.json"}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort template render
		docsTemplate.Execute(w, cfg)
	})
}
