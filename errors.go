package mediate

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors marking which part of the request failed to bind.
// ErrBindBody is the one the decode-error hook keys on.
var (
	ErrBindPath   = errors.New("bind path")
	ErrBindQuery  = errors.New("bind query")
	ErrBindHeader = errors.New("bind header")
	ErrBindCookie = errors.New("bind cookie")
	ErrBindBody   = errors.New("bind body")
)

// StatusCoder is implemented by errors and responses that carry their
// own HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is the RFC 9457 problem details body this package writes
// for errors. It doubles as the default body type the OpenAPI layer
// documents for undeclared client errors and the default response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError reports one failed field in a validation problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// HTTPError pairs a message with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string   { return e.Message }
func (e *HTTPError) StatusCode() int { return e.Status }

// Error builds an *HTTPError with the given status and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf is Error with fmt.Sprintf formatting.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus unwraps the status code from err, defaulting to 500 when
// nothing in the chain implements StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
