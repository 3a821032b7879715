package mediate

import (
	"encoding/json"
	"errors"
	"net/http"
)

// CookieSetter lets a response type attach cookies to the response.
type CookieSetter interface {
	Cookies() []*http.Cookie
}

// HeaderSetter lets a response type set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// encodeResponse negotiates an encoder from the Accept header and writes
// resp. Cookies and headers declared by the response type go out first;
// a StatusCoder response overrides the route's default status.
func encodeResponse(w http.ResponseWriter, r *http.Request, resp any, defaultStatus int, codecs *codecRegistry) {
	if cs, ok := resp.(CookieSetter); ok {
		for _, c := range cs.Cookies() {
			http.SetCookie(w, c)
		}
	}
	if hs, ok := resp.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}

	enc, ok := codecs.negotiate(r.Header.Get("Accept"))
	if !ok {
		writeErrorResponse(w, Error(http.StatusNotAcceptable, "no encoder for accept header"))
		return
	}

	status := defaultStatus
	if sc, ok := resp.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, resp)
}

// writeErrorResponse renders err as an RFC 9457 problem details body.
// A *ProblemDetail anywhere in the chain is written as-is; any other
// error is wrapped into one, with the status from StatusCoder when the
// error carries one.
func writeErrorResponse(w http.ResponseWriter, err error) {
	pd := new(ProblemDetail)
	if !errors.As(err, &pd) {
		status := ErrorStatus(err)
		pd = &ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(status),
			Status: status,
			Detail: err.Error(),
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(pd.Status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(pd)
}
