package mediate

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDConfig configures the RequestID middleware. Zero values fall
// back to the "X-Request-ID" header and a random UUID generator.
type RequestIDConfig struct {
	Header    string
	Generator func() string
}

func (c RequestIDConfig) withDefaults() RequestIDConfig {
	if c.Header == "" {
		c.Header = "X-Request-ID"
	}
	if c.Generator == nil {
		c.Generator = uuid.NewString
	}
	return c
}

// RequestID returns middleware that tags every request with an ID:
// the incoming header value when the client sent one, a generated one
// otherwise. The ID lands in the request context and on the response
// header, where the logging middleware picks it up.
func RequestID(cfg ...RequestIDConfig) Middleware {
	var c RequestIDConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}
	c = c.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(c.Header)
			if id == "" {
				id = c.Generator()
			}

			w.Header().Set(c.Header, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request's ID, or "" when the RequestID
// middleware is not in the chain.
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
