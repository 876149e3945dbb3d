package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quarrylabs/quarry-mcp/pkg/errmodel"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func TestGetDecodesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("path=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	raw, err := c.Get(context.Background(), "/health")
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := DecodeInto("/health", raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "ok" {
		t.Fatalf("status=%s", out.Status)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method=%s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content-type=%s", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["sql"] != "SELECT 1" {
			t.Fatalf("body=%v", body)
		}
		_, _ = w.Write([]byte(`{"rows":[]}`))
	})
	if _, err := c.Post(context.Background(), "/validate-sql", map[string]any{"sql": "SELECT 1"}); err != nil {
		t.Fatal(err)
	}
}

func TestNon2xxCarriesPathStatusBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	})
	_, err := c.Get(context.Background(), "/question-bank/p1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errmodel.IsCategory(err, errmodel.CategoryBackend) {
		t.Fatalf("category: %#v", errmodel.From(err))
	}
	msg := err.Error()
	for _, want := range []string{"/question-bank/p1", "404", "not found"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestMalformedJSONIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"truncated":`))
	})
	_, err := c.Get(context.Background(), "/datasets")
	if !errmodel.IsCategory(err, errmodel.CategoryDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestEmptyBodyIsNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	raw, err := c.Delete(context.Background(), "/resources/delete?id=x")
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "null" {
		t.Fatalf("raw=%s", raw)
	}
}
