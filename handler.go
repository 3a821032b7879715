package mediate

import (
	"context"
	"net/http"
)

// Void is used as a type parameter when a request has no parameters/body
// or a response has no body (results in 204 No Content).
type Void struct{}

// Handler is the core typed handler signature. The framework owns
// serialization — handlers never see http.ResponseWriter or *http.Request.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// RequestHandler is the mediator form of Handler: a type that processes
// exactly one request type and produces one response type. Register
// implementations with Mount.
type RequestHandler[Req, Resp any] interface {
	Handle(ctx context.Context, req *Req) (*Resp, error)
}

// Route is a (HTTP method, route template) pair declared for a handler.
// A handler may declare any number of routes.
type Route struct {
	Method  string
	Pattern string
}

// RouteDeclarer is optionally implemented by RequestHandler types to
// declare their own routes. Routes are read once, at mount time.
type RouteDeclarer interface {
	Routes() []Route
}

// RawHandler is an escape hatch for anything that needs direct access to
// the underlying http primitives.
type RawHandler func(w http.ResponseWriter, r *http.Request)
