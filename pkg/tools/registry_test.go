package tools

import (
	"context"
	"testing"
)

func noopHandler(ctx context.Context, args map[string]any) ([]byte, error) {
	return []byte(`{}`), nil
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Definition{Name: "a", Handler: noopHandler}); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Get("a"); !ok {
		t.Fatal("tool not found")
	}
	if _, ok := reg.Get("b"); ok {
		t.Fatal("unexpected tool")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Definition{Name: "a", Handler: noopHandler}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(Definition{Name: "a", Handler: noopHandler}); err == nil {
		t.Fatal("expected duplicate-name error")
	}
}

func TestRegisterRejectsEmptyNameAndNilHandler(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Definition{Handler: noopHandler}); err == nil {
		t.Fatal("expected empty-name error")
	}
	if err := reg.Register(Definition{Name: "a"}); err == nil {
		t.Fatal("expected nil-handler error")
	}
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		if err := reg.Register(Definition{Name: n, Handler: noopHandler}); err != nil {
			t.Fatal(err)
		}
	}
	for run := 0; run < 2; run++ {
		got := reg.List()
		if len(got) != len(names) {
			t.Fatalf("len=%d", len(got))
		}
		for i, n := range names {
			if got[i].Name != n {
				t.Fatalf("run %d: got[%d]=%s want %s", run, i, got[i].Name, n)
			}
		}
	}
}
