package mediate

import "net/http"

// RawRequest, embedded in a request type, gives the handler the
// underlying *http.Request without opting out of typed dispatch.
type RawRequest struct {
	Request *http.Request
}

// OperationInfo supplies the OpenAPI metadata for routes registered with
// Raw, where nothing can be inferred from handler types. Responses may
// carry the same response metadata providers typed routes declare
// through options.
type OperationInfo struct {
	Summary     string
	Description string
	Tags        []string
	Status      int
	Responses   []ResponseMeta
}
