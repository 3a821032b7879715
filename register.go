package mediate

import (
	"errors"
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	getValidator() Validator
	getErrorHandler() ErrorHandler
	getCodecs() *codecRegistry
	getDecodeHook() DecodeErrorHook
	routeMiddleware() []Middleware
}

func (r *Router) getValidator() Validator        { return r.validator }
func (r *Router) getErrorHandler() ErrorHandler  { return r.errorHandler }
func (r *Router) getCodecs() *codecRegistry      { return r.codecs }
func (r *Router) getDecodeHook() DecodeErrorHook { return r.decodeHook }
func (r *Router) routeMiddleware() []Middleware  { return nil }

// wrapRouteMiddleware bakes group-level middleware into a route
// handler, innermost last.
func wrapRouteMiddleware(h http.Handler, mws []Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// defaultRouteStatus resolves the status written for successful
// responses when no WithStatus option was given: 204 for Void
// responses, 200 otherwise.
func defaultRouteStatus(respType reflect.Type) int {
	if respType == reflect.TypeFor[Void]() {
		return http.StatusNoContent
	}
	return http.StatusOK
}

// register is the internal generic registration function.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:   method,
		pattern:  pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}
	for _, opt := range opts {
		opt(&ri)
	}
	ri.extraRoutes = nil

	if ri.status == 0 {
		ri.status = defaultRouteStatus(ri.respType)
	}

	ri.handler = wrapRouteMiddleware(buildHandler(h, ri.status, reg), reg.routeMiddleware())
	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler running the
// full request pipeline: bind, validate, invoke, encode.
func buildHandler[Req, Resp any](h Handler[Req, Resp], defaultStatus int, reg Registrar) http.Handler {
	validator := reg.getValidator()
	errHandler := reg.getErrorHandler()
	codecs := reg.getCodecs()
	decodeHook := reg.getDecodeHook()

	writeErr := func(w http.ResponseWriter, r *http.Request, err error) {
		if errHandler != nil {
			errHandler(w, r, err)
			return
		}
		writeErrorResponse(w, err)
	}

	// validate runs the request's own SelfValidator first, then the
	// router-wide validator.
	validate := func(req *Req) error {
		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				return err
			}
		}
		if validator != nil {
			return validator.Validate(req)
		}
		return nil
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest[Req](r, codecs)
		if err != nil {
			// The deserialization hook fires only for body failures,
			// not for parameter binding errors.
			if decodeHook != nil && errors.Is(err, ErrBindBody) {
				decodeHook(r, err)
			}
			var sc StatusCoder
			if !errors.As(err, &sc) {
				err = Error(http.StatusBadRequest, err.Error())
			}
			writeErr(w, r, err)
			return
		}

		if err := validate(req); err != nil {
			writeErr(w, r, err)
			return
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			writeErr(w, r, err)
			return
		}

		if _, ok := any(resp).(*Void); ok || resp == nil {
			w.WriteHeader(defaultStatus)
			return
		}
		encodeResponse(w, r, resp, defaultStatus, codecs)
	})
}

// Mount registers a RequestHandler at every route it declares. Routes
// come from the handler's RouteDeclarer implementation and from At
// options; declaring none is a programming error.
func Mount[Req, Resp any](reg Registrar, h RequestHandler[Req, Resp], opts ...RouteOption) {
	var probe routeInfo
	for _, opt := range opts {
		opt(&probe)
	}

	var routes []Route
	if rd, ok := any(h).(RouteDeclarer); ok {
		routes = append(routes, rd.Routes()...)
	}
	routes = append(routes, probe.extraRoutes...)

	if len(routes) == 0 {
		panic("mediate: Mount: handler declares no routes")
	}

	for _, rt := range routes {
		register(reg, rt.Method, rt.Pattern, Handler[Req, Resp](h.Handle), opts...)
	}
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH handler.
func Patch[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, h, opts...)
}

// Raw registers a raw http.Handler with manual OperationInfo for the
// OpenAPI document.
func Raw(reg Registrar, method, pattern string, h RawHandler, info OperationInfo) {
	ri := routeInfo{
		method:    method,
		pattern:   pattern,
		summary:   info.Summary,
		desc:      info.Description,
		tags:      info.Tags,
		status:    info.Status,
		responses: info.Responses,
		handler:   http.HandlerFunc(h),
	}
	if ri.status == 0 {
		ri.status = http.StatusOK
	}

	ri.handler = wrapRouteMiddleware(ri.handler, reg.routeMiddleware())
	reg.addRoute(ri)
}
