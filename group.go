package mediate

import "slices"

// Group collects routes under a shared path prefix, with tags,
// middleware, and response providers applied to every route registered
// through it. Groups implement Registrar, so the package-level
// registration helpers accept them interchangeably with *Router.
type Group struct {
	router     *Router
	prefix     string
	middleware []Middleware
	tags       []string
	responses  []ResponseMeta
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupTags adds OpenAPI tags to every route in the group.
func WithGroupTags(tags ...string) GroupOption {
	return func(g *Group) { g.tags = append(g.tags, tags...) }
}

// WithGroupMiddleware wraps every route in the group. Unlike Use, group
// middleware is baked into the route handler at registration time.
func WithGroupMiddleware(mw ...Middleware) GroupOption {
	return func(g *Group) { g.middleware = append(g.middleware, mw...) }
}

// WithGroupResponses adds response providers to every route in the
// group. They run before the route's own providers, so per-route
// declarations overwrite them status by status.
func WithGroupResponses(metas ...ResponseMeta) GroupOption {
	return func(g *Group) { g.responses = append(g.responses, metas...) }
}

// Group creates a route group rooted at prefix.
func (r *Router) Group(prefix string, opts ...GroupOption) *Group {
	g := &Group{router: r, prefix: prefix}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Group) addRoute(ri routeInfo) {
	ri.pattern = g.prefix + ri.pattern
	if len(g.tags) > 0 {
		ri.tags = append(slices.Clone(g.tags), ri.tags...)
	}
	if len(g.responses) > 0 {
		ri.responses = append(slices.Clone(g.responses), ri.responses...)
	}
	g.router.addRoute(ri)
}

func (g *Group) getValidator() Validator        { return g.router.validator }
func (g *Group) getErrorHandler() ErrorHandler  { return g.router.errorHandler }
func (g *Group) getCodecs() *codecRegistry      { return g.router.codecs }
func (g *Group) getDecodeHook() DecodeErrorHook { return g.router.decodeHook }
func (g *Group) routeMiddleware() []Middleware  { return g.middleware }
