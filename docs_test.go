package mediate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/mediate"
)

func TestServeDocs(t *testing.T) {
	t.Parallel()

	r := mediate.New(mediate.WithTitle("Orders API"))
	r.ServeDocs("/docs")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Orders API</title>")
	assert.Contains(t, body, `apiDescriptionUrl="/openapi.json"`)
	assert.Contains(t, body, "elements-api")
}

func TestServeDocs_options(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	r.ServeDocs("/docs",
		mediate.WithDocsTitle("Reference"),
		mediate.WithDocsSpecURL("/api/openapi.yaml"),
	)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Reference</title>")
	assert.Contains(t, body, `apiDescriptionUrl="/api/openapi.yaml"`)
}
