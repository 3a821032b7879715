package mediate_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/mediate"
)

type noteReq struct {
	Body struct {
		Text string `json:"text"`
	}
}

type noteResp struct {
	Text string `json:"text"`
}

func newNoteRouter(opts ...mediate.RouterOption) *mediate.Router {
	r := mediate.New(opts...)
	mediate.Post(r, "/notes", func(_ context.Context, req *noteReq) (*noteResp, error) {
		return &noteResp{Text: req.Body.Text}, nil
	})
	return r
}

func TestRouter_decode_error_hook(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		hooked []error
	)
	r := newNoteRouter(mediate.WithDecodeErrorHook(func(_ *http.Request, err error) {
		mu.Lock()
		defer mu.Unlock()
		hooked = append(hooked, err)
	}))

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"text"`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hooked, 1)
	assert.ErrorIs(t, hooked[0], mediate.ErrBindBody)
}

func TestRouter_decode_error_hook_skips_param_errors(t *testing.T) {
	t.Parallel()

	type pagedReq struct {
		Page int `query:"page"`
	}

	var called bool
	r := mediate.New(mediate.WithDecodeErrorHook(func(_ *http.Request, _ error) {
		called = true
	}))
	mediate.Get(r, "/paged", func(_ context.Context, _ *pagedReq) (*noteResp, error) {
		return &noteResp{}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/paged?page=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "binding failures outside the body must not fire the hook")
}

func TestRouter_decode_error_hook_default_noop(t *testing.T) {
	t.Parallel()

	r := newNoteRouter()

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() { r.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_json_options_indent(t *testing.T) {
	t.Parallel()

	r := newNoteRouter(mediate.WithJSONOptions(mediate.JSONOptions{Indent: "  "}))

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\n  \"text\"")
}

func TestRouter_json_options_disallow_unknown_fields(t *testing.T) {
	t.Parallel()

	strict := newNoteRouter(mediate.WithJSONOptions(mediate.JSONOptions{DisallowUnknownFields: true}))
	lax := newNoteRouter()

	payload := `{"text":"hi","bogus":true}`

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	strict.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	lax.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_json_options_html_escape(t *testing.T) {
	t.Parallel()

	escaped := newNoteRouter()
	unescaped := newNoteRouter(mediate.WithJSONOptions(mediate.JSONOptions{DisableHTMLEscape: true}))

	payload := `{"text":"<b>"}`

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	escaped.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `\u003cb\u003e`)
	assert.NotContains(t, rec.Body.String(), `<b>`)

	req = httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	unescaped.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `<b>`)
}

func TestRouter_custom_error_handler(t *testing.T) {
	t.Parallel()

	r := mediate.New(mediate.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(err.Error()))
	}))
	mediate.Get(r, "/fail", func(_ context.Context, _ *mediate.Void) (*noteResp, error) {
		return nil, mediate.Error(http.StatusConflict, "boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "boom", rec.Body.String())
}

func TestRouter_use_middleware_order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) mediate.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := mediate.New()
	r.Use(mw("outer"), mw("inner"))
	mediate.Get(r, "/ordered", func(_ context.Context, _ *mediate.Void) (*mediate.Void, error) {
		return &mediate.Void{}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ordered", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}

type textEncoder struct{}

func (textEncoder) ContentType() string { return "text/plain" }

func (textEncoder) Encode(w io.Writer, _ any) error {
	_, err := io.WriteString(w, "text")
	return err
}

func TestRouter_custom_encoder(t *testing.T) {
	t.Parallel()

	r := newNoteRouter(mediate.WithEncoder(textEncoder{}))

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "text", rec.Body.String())
}

func TestRouter_problem_detail_passthrough(t *testing.T) {
	t.Parallel()

	r := mediate.New()
	mediate.Get(r, "/problem", func(_ context.Context, _ *mediate.Void) (*noteResp, error) {
		return nil, &mediate.ProblemDetail{
			Type:   "https://example.com/errors/locked",
			Title:  "Locked",
			Status: http.StatusLocked,
			Detail: "resource is locked",
		}
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/problem", nil))

	require.Equal(t, http.StatusLocked, rec.Code)

	var pd mediate.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	assert.Equal(t, "https://example.com/errors/locked", pd.Type)
	assert.Equal(t, "resource is locked", pd.Detail)
}
