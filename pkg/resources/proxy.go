// Package resources forwards resource CRUD and search to the backend's
// /resources endpoints. Descriptors are decoded defensively into typed
// values; the proxy adds no logic beyond endpoint shaping.
package resources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/quarrylabs/quarry-mcp/pkg/backend"
	"github.com/quarrylabs/quarry-mcp/pkg/errmodel"
)

// DefaultListLimit caps list results when the caller gives no limit.
const DefaultListLimit = 50

// Descriptor is a backend resource document. Exactly one of Content
// (text) and Body (structured JSON) is authoritative; the discriminator
// drives how reads are rendered.
type Descriptor struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Type      string          `json:"type,omitempty"`
	Content   string          `json:"content,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	Etag      string          `json:"etag,omitempty"`
	Embedding []float64       `json:"embedding,omitempty"`
}

// Structured reports whether the JSON body, rather than the text
// content, is the authoritative form.
func (d Descriptor) Structured() bool {
	return len(d.Body) > 0 && string(d.Body) != "null"
}

// Proxy issues one backend call per operation.
type Proxy struct {
	client *backend.Client
}

// NewProxy builds a Proxy over the given backend client.
func NewProxy(c *backend.Client) *Proxy {
	return &Proxy{client: c}
}

// List fetches resources, optionally filtered by a semantic query and/or
// a type tag. A non-positive limit falls back to DefaultListLimit.
func (p *Proxy) List(ctx context.Context, query, kind string, limit int) ([]Descriptor, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	if kind != "" {
		q.Set("type", kind)
	}
	q.Set("limit", strconv.Itoa(limit))

	path := "/resources/list?" + q.Encode()
	raw, err := p.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	var out struct {
		Resources []Descriptor `json:"resources"`
	}
	if err := backend.DecodeInto(path, raw, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

// Get fetches a single resource by identifier. A backend 404 is mapped
// to a caller-input "resource not found" error naming the identifier.
func (p *Proxy) Get(ctx context.Context, id string) (Descriptor, error) {
	path := "/resources/get?id=" + url.QueryEscape(id)
	raw, err := p.client.Get(ctx, path)
	if err != nil {
		if ce := errmodel.From(err); ce.Category == errmodel.CategoryBackend {
			if status, ok := ce.Context["status"].(int); ok && status == 404 {
				return Descriptor{}, NotFound(id)
			}
		}
		return Descriptor{}, err
	}
	var d Descriptor
	if err := backend.DecodeInto(path, raw, &d); err != nil {
		return Descriptor{}, err
	}
	if d.ID == "" {
		return Descriptor{}, NotFound(id)
	}
	return d, nil
}

// Upsert creates or replaces a resource keyed by its identifier. Text
// content triggers embedding on the backend side; the proxy never
// computes embeddings itself.
func (p *Proxy) Upsert(ctx context.Context, d Descriptor) (Descriptor, error) {
	if d.ID == "" {
		return Descriptor{}, errmodel.Validation("missing_field", "missing required field: id", map[string]any{"field": "id"})
	}
	raw, err := p.client.Post(ctx, "/resources/upsert", d)
	if err != nil {
		return Descriptor{}, err
	}
	var out Descriptor
	if err := backend.DecodeInto("/resources/upsert", raw, &out); err != nil {
		return Descriptor{}, err
	}
	if out.ID == "" {
		out = d
	}
	return out, nil
}

// Delete removes a resource by identifier.
func (p *Proxy) Delete(ctx context.Context, id string) error {
	_, err := p.client.Delete(ctx, "/resources/delete?id="+url.QueryEscape(id))
	return err
}

// NotFound is the canonical unknown-identifier error.
func NotFound(id string) error {
	return errmodel.Validation("not_found", "resource not found: "+id, map[string]any{"id": id})
}
