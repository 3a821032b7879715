package mediate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/mediate"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	r.Use(mediate.Recovery())
	mediate.Get(r, "/panic", func(_ context.Context, _ *mediate.Void) (*mediate.Void, error) {
		panic("boom")
	})
	mediate.Get(r, "/calm", func(_ context.Context, _ *mediate.Void) (*mediate.Void, error) {
		return &mediate.Void{}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The server keeps serving after a recovered panic.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calm", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
