// Package mediatetest provides typed test helpers for the mediate framework.
package mediatetest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bjaus/mediate"
)

// Client wraps an httptest.Server for convenient API testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client from a router.
func NewClient(t testing.TB, r *mediate.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded API response.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Raw     *http.Response
}

// Get sends a typed GET request.
func Get[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodGet, path, nil)
}

// Post sends a typed POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodPost, path, body)
}

// Put sends a typed PUT request with a JSON body.
func Put[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodPut, path, body)
}

// Patch sends a typed PATCH request with a JSON body.
func Patch[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodPatch, path, body)
}

// Delete sends a typed DELETE request.
func Delete[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodDelete, path, nil)
}

func do[Resp any](t testing.TB, c *Client, method, path string, body any) *Response[Resp] {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	out := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Raw:     resp,
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if len(data) > 0 && resp.StatusCode < 300 {
		var decoded Resp
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("decode response body: %v", err)
		}
		out.Body = &decoded
	}

	return out
}
