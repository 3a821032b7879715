// Package mediate mounts mediator-style request handlers — one request
// type in, one response type out — as HTTP endpoints, and merges the
// response metadata declared on each endpoint into an OpenAPI 3.1
// document.
//
// The core handler signature removes http.ResponseWriter and *http.Request:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Handlers can be plain functions registered with the package-level
// helpers:
//
//	r := mediate.New(mediate.WithTitle("Orders API"), mediate.WithVersion("1.0.0"))
//	mediate.Get(r, "/orders/{id}", getOrder)
//	mediate.Post(r, "/orders", createOrder, mediate.WithStatus(http.StatusCreated))
//
// or mediator-style types that declare their own routes:
//
//	type CreateOrder struct{ store *Store }
//
//	func (CreateOrder) Routes() []mediate.Route {
//	    return []mediate.Route{{Method: http.MethodPost, Pattern: "/orders"}}
//	}
//
//	func (h CreateOrder) Handle(ctx context.Context, req *CreateOrderReq) (*Order, error) { ... }
//
//	mediate.Mount(r, CreateOrder{store: store})
//
// Each route carries an ordered list of response metadata providers
// (ResponseAs, Response, Produces, DefaultResponse, WithErrors). The
// providers are merged per status code — last writer wins for the body
// type, media types accumulate — and undeclared body types are filled in
// from the handler's response type (2xx) or the router's default error
// type (4xx and the default response). The merged descriptors are what
// the OpenAPI generator renders.
//
// Request types use struct tags for parameter binding and a Body field
// for request bodies; route patterns use Go 1.22 ServeMux syntax:
//
//	type CreateOrderReq struct {
//	    OrgID string `path:"org_id"`
//	    Body  struct {
//	        SKU string `json:"sku" validate:"required"`
//	    }
//	}
//
// Middleware uses the standard func(http.Handler) http.Handler signature,
// so the entire Go middleware ecosystem works natively.
package mediate
