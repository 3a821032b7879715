package mediate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/mediate"
)

func TestRequestID_generated(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	r.Use(mediate.RequestID())
	mediate.Get(r, "/id", func(_ context.Context, _ *mediate.Void) (*mediate.Void, error) {
		return &mediate.Void{}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_respects_incoming_header(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	r.Use(mediate.RequestID())
	mediate.Get(r, "/id", func(_ context.Context, _ *mediate.Void) (*mediate.Void, error) {
		return &mediate.Void{}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-ID", "client-chosen")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "client-chosen", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_custom_config(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	r.Use(mediate.RequestID(mediate.RequestIDConfig{
		Header:    "X-Trace-ID",
		Generator: func() string { return "fixed" },
	}))
	mediate.Get(r, "/id", func(_ context.Context, _ *mediate.Void) (*mediate.Void, error) {
		return &mediate.Void{}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))

	assert.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
}

func TestGetRequestID_absent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, mediate.GetRequestID(req))
}
