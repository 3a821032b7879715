package mediate

import (
	"context"
	"net/http"
	"reflect"
	"sync"
	"time"
)

// Router holds routes, middleware, and endpoint configuration, and
// implements http.Handler.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware

	mu     sync.Mutex
	routes []routeInfo

	title    string
	version  string
	tagDescs map[string]string

	validator    Validator
	errorHandler ErrorHandler

	// Endpoint options: serializer settings and the deserialization
	// failure hook, both consulted by the request pipeline.
	jsonOpts   JSONOptions
	decodeHook DecodeErrorHook

	// defaultErr is the body type documented for undeclared client
	// errors and the default response.
	defaultErr reflect.Type

	// conventions are inherited response providers, consulted for
	// routes with no significant providers of their own.
	conventions []ResponseMeta

	userEncoders []Encoder
	userDecoders []Decoder
	codecs       *codecRegistry
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title (used in the OpenAPI document).
func WithTitle(title string) RouterOption {
	return func(r *Router) { r.title = title }
}

// WithVersion sets the API version (used in the OpenAPI document).
func WithVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

// WithValidator sets a global request validator.
func WithValidator(v Validator) RouterOption {
	return func(r *Router) { r.validator = v }
}

// WithTagDescriptions sets tag descriptions for the OpenAPI document.
func WithTagDescriptions(descs map[string]string) RouterOption {
	return func(r *Router) { r.tagDescs = descs }
}

// ErrorHandler is a custom error response writer.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) { r.errorHandler = h }
}

// DecodeErrorHook is invoked when a request body fails to deserialize,
// before the error response is written. Fire-and-forget: no ordering
// guarantees across requests.
type DecodeErrorHook func(r *http.Request, err error)

// WithDecodeErrorHook sets the deserialization failure hook.
// The default is a no-op.
func WithDecodeErrorHook(hook DecodeErrorHook) RouterOption {
	return func(r *Router) { r.decodeHook = hook }
}

// WithJSONOptions sets the JSON serializer options consulted on every
// request.
func WithJSONOptions(opts JSONOptions) RouterOption {
	return func(r *Router) { r.jsonOpts = opts }
}

// DefaultErrorAs sets the body type documented for undeclared client
// errors and the default response. The default is ProblemDetail, the
// body the framework actually writes.
func DefaultErrorAs[T any]() RouterOption {
	return func(r *Router) { r.defaultErr = reflect.TypeFor[T]() }
}

// WithResponseConvention adds inherited response providers. They apply
// to every route that carries no significant providers of its own, and
// route providers still overwrite them per status code.
func WithResponseConvention(metas ...ResponseMeta) RouterOption {
	return func(r *Router) { r.conventions = append(r.conventions, metas...) }
}

// WithEncoder registers an additional response encoder.
func WithEncoder(enc Encoder) RouterOption {
	return func(r *Router) { r.userEncoders = append(r.userEncoders, enc) }
}

// WithDecoder registers an additional request body decoder.
func WithDecoder(dec Decoder) RouterOption {
	return func(r *Router) { r.userDecoders = append(r.userDecoders, dec) }
}

// New creates a Router. Options are applied in order; the codec
// registry is sealed afterwards, so encoders and decoders must be
// registered here rather than after construction.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux:        http.NewServeMux(),
		defaultErr: reflect.TypeFor[ProblemDetail](),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.codecs = newCodecRegistry(r.jsonOpts, r.userEncoders, r.userDecoders)
	return r
}

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](h)
	}
	h.ServeHTTP(w, req)
}

// ListenAndServe runs an HTTP server on addr until the context is
// cancelled, then drains in-flight requests for up to 30 seconds.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// addRoute registers a routeInfo with the router's mux and stores it
// for OpenAPI generation. Global middleware is applied in ServeHTTP,
// not here — only group middleware is baked into ri.handler.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mux.Handle(ri.method+" "+ri.pattern, ri.handler)
	r.routes = append(r.routes, ri)
}
