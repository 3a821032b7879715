package mediate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/mediate"
)

type pingReq struct {
	Name string `query:"name"`
}

type pingResp struct {
	Echo string `json:"echo"`
}

// pingHandler declares its own routes.
type pingHandler struct{}

func (pingHandler) Routes() []mediate.Route {
	return []mediate.Route{
		{Method: http.MethodGet, Pattern: "/ping"},
		{Method: http.MethodGet, Pattern: "/ping/legacy"},
	}
}

func (pingHandler) Handle(_ context.Context, req *pingReq) (*pingResp, error) {
	return &pingResp{Echo: req.Name}, nil
}

// echoHandler declares no routes of its own; it relies on At.
type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, req *pingReq) (*pingResp, error) {
	return &pingResp{Echo: req.Name}, nil
}

func TestMount_declared_routes(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	mediate.Mount(r, pingHandler{})

	for _, path := range []string{"/ping", "/ping/legacy"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?name=hi", nil))

		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp pingResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "hi", resp.Echo)
	}
}

func TestMount_at_option(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	mediate.Mount(r, echoHandler{}, mediate.At(http.MethodGet, "/echo"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo?name=yo", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp pingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "yo", resp.Echo)
}

func TestMount_combines_declared_and_at(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	mediate.Mount(r, pingHandler{}, mediate.At(http.MethodGet, "/ping/alias"))

	spec := r.Spec()
	assert.Contains(t, spec.Paths, "/ping")
	assert.Contains(t, spec.Paths, "/ping/legacy")
	assert.Contains(t, spec.Paths, "/ping/alias")
}

func TestMount_no_routes_panics(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	assert.PanicsWithValue(t, "mediate: Mount: handler declares no routes", func() {
		mediate.Mount(r, echoHandler{})
	})
}

func TestMount_route_options_apply(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	mediate.Mount(r, echoHandler{},
		mediate.At(http.MethodGet, "/echo"),
		mediate.WithSummary("Echo a name"),
		mediate.WithTags("echo"),
	)

	op := r.Spec().Paths["/echo"]["get"]
	assert.Equal(t, "Echo a name", op.Summary)
	assert.Contains(t, op.Tags, "echo")
}
