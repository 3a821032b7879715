package mediate

import (
	"net/http"
	"reflect"
)

// routeInfo is the per-route record kept by the router. Dispatch uses
// the handler and pattern; the OpenAPI builder reads everything else.
type routeInfo struct {
	method      string
	pattern     string
	handler     http.Handler
	reqType     reflect.Type
	respType    reflect.Type
	status      int
	operationID string

	summary    string
	desc       string
	tags       []string
	deprecated bool

	// responses are the route's response metadata providers, in
	// declaration order.
	responses []ResponseMeta

	// extraRoutes holds additional (method, pattern) pairs supplied
	// with At; consumed by Mount.
	extraRoutes []Route
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// At declares an additional (method, pattern) route for a mounted
// handler. Only meaningful with Mount; the direct registration helpers
// already carry a method and pattern.
func At(method, pattern string) RouteOption {
	return func(ri *routeInfo) {
		ri.extraRoutes = append(ri.extraRoutes, Route{Method: method, Pattern: pattern})
	}
}

// WithStatus sets the default HTTP status code for the response.
func WithStatus(code int) RouteOption {
	return func(ri *routeInfo) { ri.status = code }
}

// WithSummary sets the OpenAPI summary for the route.
func WithSummary(s string) RouteOption {
	return func(ri *routeInfo) { ri.summary = s }
}

// WithDescription sets the OpenAPI description for the route.
func WithDescription(d string) RouteOption {
	return func(ri *routeInfo) { ri.desc = d }
}

// WithTags adds OpenAPI tags to the route.
func WithTags(tags ...string) RouteOption {
	return func(ri *routeInfo) { ri.tags = append(ri.tags, tags...) }
}

// WithDeprecated marks the route as deprecated in the OpenAPI document.
func WithDeprecated() RouteOption {
	return func(ri *routeInfo) { ri.deprecated = true }
}

// WithOperationID sets a custom OpenAPI operationId.
func WithOperationID(id string) RouteOption {
	return func(ri *routeInfo) { ri.operationID = id }
}

// WithErrors declares additional HTTP error status codes for the route.
// Each code becomes an untyped response provider; client-error codes are
// documented with the router's default error type.
func WithErrors(codes ...int) RouteOption {
	return func(ri *routeInfo) {
		for _, code := range codes {
			ri.responses = append(ri.responses, ResponseMeta{Status: code})
		}
	}
}
