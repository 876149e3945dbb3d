// Package backend is the HTTP JSON client for the analytics backend.
// It exposes three primitives (Get, Post, Delete) that concatenate a
// configured base URL with a caller-escaped path, and maps any non-2xx
// response to a compact backend error carrying the path, status code and
// raw body text.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quarrylabs/quarry-mcp/pkg/errmodel"
)

// Client issues requests against a single backend base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Tests use it to
// point at httptest servers; deployments can use it to set a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// New creates a Client for the given base URL (no trailing slash). The
// default transport is wrapped with otelhttp so every backend call shows
// up as a client span.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get issues a GET to baseURL+path and returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post serializes body as JSON, issues a POST to baseURL+path and returns
// the raw JSON response body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, errmodel.New(errmodel.CategorySystem, "encode", "encoding request body: "+err.Error(), map[string]any{"path": path})
	}
	return c.do(ctx, http.MethodPost, path, &buf)
}

// Delete issues a DELETE to baseURL+path and returns the raw JSON body.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, errmodel.New(errmodel.CategoryBackend, "unreachable", "backend request "+path+" failed: "+err.Error(), map[string]any{"path": path})
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errmodel.New(errmodel.CategoryBackend, "read", "reading backend response from "+path+": "+err.Error(), map[string]any{"path": path})
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errmodel.Backend(path, res.StatusCode, string(raw))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// Some mutating endpoints answer 204 with no body.
		return json.RawMessage(`null`), nil
	}
	if !json.Valid(raw) {
		return nil, errmodel.Decode(path, errInvalidJSON)
	}
	return json.RawMessage(raw), nil
}

// DecodeInto decodes a raw response into v, converting failures into a
// decode error (distinct from a backend HTTP error).
func DecodeInto(path string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errmodel.Decode(path, err)
	}
	return nil
}

var errInvalidJSON = errors.New("response body is not valid JSON")
