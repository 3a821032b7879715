package mediate

import (
	"net/http"
	"reflect"
	"slices"
	"sort"
)

// ResponseMeta declares one possible HTTP response for a route: a status
// code, an optional body type, the media types it may be served as, and
// whether it documents the fallback ("default") response. A zero Status
// with a nil Type is a media-type-only declaration.
type ResponseMeta struct {
	Status       int
	Type         reflect.Type
	ContentTypes []string
	Default      bool
}

// significant reports whether the provider carries more than media types.
// Routes without a significant provider still consult the router's
// response conventions.
func (m ResponseMeta) significant() bool {
	return m.Type != nil || m.Status != 0 || m.Default
}

// Response adds an untyped response provider for the given status code.
// The body type is filled in during aggregation: 200/201 take the
// handler's response type, client errors and the default response take
// the router's default error type, everything else documents no content.
func Response(status int, contentTypes ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.responses = append(ri.responses, ResponseMeta{
			Status:       status,
			ContentTypes: contentTypes,
		})
	}
}

// ResponseAs adds a response provider for the given status code with an
// explicit body type.
func ResponseAs[T any](status int, contentTypes ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.responses = append(ri.responses, ResponseMeta{
			Status:       status,
			Type:         reflect.TypeFor[T](),
			ContentTypes: contentTypes,
		})
	}
}

// Produces declares media types without a status code or body type.
// The media types accumulate onto every response of the route. A route
// carrying only Produces providers still consults the router's response
// conventions.
func Produces(contentTypes ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.responses = append(ri.responses, ResponseMeta{
			ContentTypes: contentTypes,
		})
	}
}

// DefaultResponse adds the fallback response provider, documenting every
// status code not otherwise declared. Its body type is the router's
// default error type.
func DefaultResponse(contentTypes ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.responses = append(ri.responses, ResponseMeta{
			Default:      true,
			ContentTypes: contentTypes,
		})
	}
}

// DefaultResponseAs adds the fallback response provider with an explicit
// body type.
func DefaultResponseAs[T any](contentTypes ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.responses = append(ri.responses, ResponseMeta{
			Default:      true,
			Type:         reflect.TypeFor[T](),
			ContentTypes: contentTypes,
		})
	}
}

// responseEntry is one merged response descriptor: the aggregation
// output consumed by the OpenAPI builder. A nil Type means no body; nil
// ContentTypes means "negotiate at request time".
type responseEntry struct {
	Status       int
	Type         reflect.Type
	ContentTypes []string
	Default      bool
}

// declaredResponseType normalizes a handler's response type for
// aggregation. Void means no body and the empty interface is the "any
// object" marker — both report nil, i.e. no concrete type to infer.
func declaredResponseType(t reflect.Type) reflect.Type {
	if t == nil || t == reflect.TypeFor[Void]() {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface {
		return nil
	}
	return t
}

// mergeResponses merges a route's ordered response providers into the
// status-keyed descriptor set rendered by the OpenAPI builder.
//
// Providers are walked in order. The last provider targeting a status
// wins its body type; media types accumulate across all providers and
// apply to every entry. If the route has no significant provider, the
// router's conventions are consulted ahead of the route's own
// media-type declarations. Untyped entries are filled in afterwards: 200/201
// take the declared type, client errors and the default response take
// defaultErr, everything else stays bodyless.
//
// defaultStatus is the route's registration status (200, or 204 for
// bodyless handlers, or whatever WithStatus set). When no provider
// declares a success status, it shows through: a success entry is
// synthesized at defaultStatus — at 200 only if there is a declared
// type to document.
//
// Pure function of its inputs.
func mergeResponses(declared reflect.Type, providers, conventions []ResponseMeta, defaultErr reflect.Type, defaultStatus int) []responseEntry {
	all := providers
	if len(conventions) > 0 && !slices.ContainsFunc(providers, ResponseMeta.significant) {
		all = make([]ResponseMeta, 0, len(conventions)+len(providers))
		all = append(all, conventions...)
		all = append(all, providers...)
	}

	// Media types accumulate globally, preserving first-seen order.
	var contentTypes []string
	entries := make(map[int]*responseEntry)
	var order []int

	for _, p := range all {
		for _, ct := range p.ContentTypes {
			if !slices.Contains(contentTypes, ct) {
				contentTypes = append(contentTypes, ct)
			}
		}

		if p.Status == 0 && !p.Default {
			continue // media-type-only provider
		}

		key := p.Status // default response keys at 0
		e, ok := entries[key]
		if !ok {
			e = &responseEntry{Status: p.Status}
			entries[key] = e
			order = append(order, key)
		}
		e.Type = p.Type // last writer wins
		e.Default = e.Default || p.Default
	}

	if !hasSuccessEntry(entries) {
		if defaultStatus == 0 {
			defaultStatus = http.StatusOK
		}
		if declared != nil || defaultStatus != http.StatusOK {
			if _, ok := entries[defaultStatus]; !ok {
				e := &responseEntry{Status: defaultStatus}
				if declared != nil && defaultStatus != http.StatusNoContent {
					e.Type = declared
				}
				entries[defaultStatus] = e
				order = append(order, defaultStatus)
			}
		}
	}

	out := make([]responseEntry, 0, len(entries))
	for _, key := range order {
		e := entries[key]

		if e.Type == nil {
			switch {
			case (e.Status == http.StatusOK || e.Status == http.StatusCreated) && declared != nil:
				e.Type = declared
			case e.Default || (e.Status >= 400 && e.Status < 500):
				e.Type = defaultErr
			}
		}

		e.ContentTypes = slices.Clone(contentTypes)
		out = append(out, *e)
	}

	// Deterministic output: ascending status, default response last.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Default != out[j].Default {
			return !out[i].Default
		}
		return out[i].Status < out[j].Status
	})

	return out
}

// hasSuccessEntry reports whether any merged entry declares a 2xx status.
func hasSuccessEntry(entries map[int]*responseEntry) bool {
	for status := range entries {
		if status >= 200 && status < 300 {
			return true
		}
	}
	return false
}
