package mediate

import (
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ServeSpec mounts a GET handler serving the OpenAPI document as JSON.
// The document is rebuilt on every request, so routes registered later
// still appear.
func (r *Router) ServeSpec(pattern string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(r.Spec())
	})
}

// ServeSpecYAML mounts a GET handler serving the OpenAPI document as YAML.
func (r *Router) ServeSpecYAML(pattern string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		yaml.NewEncoder(w).Encode(r.Spec())
	})
}

// WriteSpec writes the OpenAPI document to w as indented JSON, for
// generating a committed document from a build step.
func (r *Router) WriteSpec(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Spec())
}

// WriteSpecYAML writes the OpenAPI document to w as YAML.
func (r *Router) WriteSpecYAML(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(r.Spec())
}
