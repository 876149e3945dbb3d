package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quarrylabs/quarry-mcp/pkg/backend"
	"github.com/quarrylabs/quarry-mcp/pkg/config"
	"github.com/quarrylabs/quarry-mcp/pkg/credentials"
	"github.com/quarrylabs/quarry-mcp/pkg/resources"
)

func newTestDeps(t *testing.T, policy credentials.Policy, cfg config.Config, h http.HandlerFunc) Deps {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := backend.New(srv.URL, backend.WithHTTPClient(srv.Client()))
	return Deps{
		Client:   client,
		Resolver: credentials.NewResolver(policy, cfg),
		Proxy:    resources.NewProxy(client),
		Dataset:  cfg.Dataset,
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestCatalogVariesByPolicy(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {}
	envReg, err := NewCatalog(newTestDeps(t, credentials.PolicyEnvironment, config.Config{}, h))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := envReg.Get("GetQuestionBank"); !ok {
		t.Fatal("environment catalog missing GetQuestionBank")
	}

	legacyReg, err := NewCatalog(newTestDeps(t, credentials.PolicyLegacy, config.Config{}, h))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := legacyReg.Get("GetQuestionBank"); ok {
		t.Fatal("legacy catalog must not offer question-bank tools")
	}
	if _, ok := legacyReg.Get("ExecuteSQL"); !ok {
		t.Fatal("legacy catalog missing ExecuteSQL")
	}
}

func TestIdentitySchemaPerPolicy(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {}
	cases := []struct {
		policy   credentials.Policy
		required []string
		absent   []string
	}{
		{credentials.PolicyExplicit, []string{"sql", "profileId", "credentials"}, nil},
		{credentials.PolicyEnvironment, []string{"sql", "profileId"}, []string{"credentials"}},
		{credentials.PolicyLegacy, []string{"sql"}, []string{"profileId", "credentials"}},
	}
	for _, tc := range cases {
		reg, err := NewCatalog(newTestDeps(t, tc.policy, config.Config{}, h))
		if err != nil {
			t.Fatal(err)
		}
		def, _ := reg.Get("ExecuteSQL")
		var schema struct {
			Properties map[string]any `json:"properties"`
			Required   []string       `json:"required"`
		}
		if err := json.Unmarshal(def.InputSchema, &schema); err != nil {
			t.Fatal(err)
		}
		req := map[string]bool{}
		for _, r := range schema.Required {
			req[r] = true
		}
		for _, want := range tc.required {
			if !req[want] {
				t.Fatalf("policy %v: %q not required in %s", tc.policy, want, def.InputSchema)
			}
		}
		for _, notWant := range tc.absent {
			if _, ok := schema.Properties[notWant]; ok {
				t.Fatalf("policy %v: %q should not be a property", tc.policy, notWant)
			}
		}
	}
}

func TestExecuteSQLForwardsIdentity(t *testing.T) {
	var got map[string]any
	deps := newTestDeps(t, credentials.PolicyEnvironment, config.Config{CredentialsJSON: `{"sa":1}`}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/execute-sql" {
			t.Fatalf("path=%s", r.URL.Path)
		}
		got = decodeBody(t, r)
		_, _ = w.Write([]byte(`{"rows":[]}`))
	})
	def := deps.executeSQL()
	if _, err := def.Handler(context.Background(), map[string]any{"sql": "SELECT 1", "profileId": "p1", "maxRows": float64(100)}); err != nil {
		t.Fatal(err)
	}
	if got["sql"] != "SELECT 1" || got["profileId"] != "p1" || got["credentials"] != `{"sa":1}` {
		t.Fatalf("body=%v", got)
	}
	if got["maxRows"] != float64(100) {
		t.Fatalf("maxRows=%v", got["maxRows"])
	}
}

func TestGetTableGraphForwardsDatasetsUnderProfileScope(t *testing.T) {
	var got map[string]any
	deps := newTestDeps(t, credentials.PolicyEnvironment, config.Config{CredentialsJSON: `{}`}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph" {
			t.Fatalf("path=%s", r.URL.Path)
		}
		got = decodeBody(t, r)
		_, _ = w.Write([]byte(`{"tables":{}}`))
	})
	def := deps.getTableGraph()
	args := map[string]any{"profileId": "p1", "datasets": []any{"sales", "crm"}}
	if _, err := def.Handler(context.Background(), args); err != nil {
		t.Fatal(err)
	}
	ds, ok := got["datasets"].([]any)
	if !ok || len(ds) != 2 {
		t.Fatalf("datasets=%v", got["datasets"])
	}
}

func TestLegacyForwardsDataset(t *testing.T) {
	var got map[string]any
	deps := newTestDeps(t, credentials.PolicyLegacy, config.Config{Dataset: "warehouse"}, func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		_, _ = w.Write([]byte(`{"valid":true}`))
	})
	def := deps.validateSQL()
	if _, err := def.Handler(context.Background(), map[string]any{"sql": "SELECT 1"}); err != nil {
		t.Fatal(err)
	}
	if got["dataset"] != "warehouse" {
		t.Fatalf("body=%v", got)
	}
	if _, ok := got["credentials"]; ok {
		t.Fatal("legacy call must not carry credentials")
	}

	// An explicit dataset argument wins over the configured default.
	if _, err := def.Handler(context.Background(), map[string]any{"sql": "SELECT 1", "dataset": "sandbox"}); err != nil {
		t.Fatal(err)
	}
	if got["dataset"] != "sandbox" {
		t.Fatalf("body=%v", got)
	}
}

func TestQuestionBankEscapesProfileID(t *testing.T) {
	var gotPath string
	deps := newTestDeps(t, credentials.PolicyEnvironment, config.Config{CredentialsJSON: `{}`}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"questions":[]}`))
	})
	def := deps.getQuestionBank()
	if _, err := def.Handler(context.Background(), map[string]any{"profileId": "team/alpha beta"}); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/question-bank/team%2Falpha%20beta" {
		t.Fatalf("path=%s", gotPath)
	}
}

func TestValidateArgsNamesMissingField(t *testing.T) {
	schema := objectSchema(map[string]any{
		"sql":       stringProp(""),
		"profileId": stringProp(""),
	}, []string{"sql", "profileId"})
	err := ValidateArgs("ExecuteSQL", schema, map[string]any{"sql": "SELECT 1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "profileId") {
		t.Fatalf("error %q does not name profileId", err.Error())
	}
}
