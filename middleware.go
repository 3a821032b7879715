package mediate

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Middleware is the standard func(http.Handler) http.Handler signature,
// so anything from the wider Go middleware ecosystem plugs in directly.
type Middleware func(next http.Handler) http.Handler

// Recovery returns middleware that turns handler panics into a plain 500
// response. The panic value and stack are logged; the connection stays
// usable for subsequent requests.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				slog.Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
