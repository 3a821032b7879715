package mediate

import (
	"context"
	"net/http"
)

// ctxKey gives every stored type its own context slot, so middleware
// packages cannot collide the way string keys do.
type ctxKey[T any] struct{}

// SetValue returns a copy of r whose context carries val, keyed by the
// value's type. Call it from middleware before invoking the next handler.
func SetValue[T any](r *http.Request, val T) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey[T]{}, val))
}

// GetValue reads the value of type T previously stored with SetValue.
func GetValue[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKey[T]{}).(T)
	return v, ok
}
