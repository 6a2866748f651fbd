package mapping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lever2lever/migrator/leverapi"
)

func newResolverAgainst(t *testing.T, handler http.HandlerFunc) (*Resolver, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := leverapi.NewClient(nil, server.URL, "test-key")
	if err != nil {
		server.Close()
		t.Fatalf("NewClient failed: %v", err)
	}

	return NewResolver(client), server.Close
}

func TestResolveUserMatchesByEmail(t *testing.T) {
	resolver, closeServer := newResolverAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"u1","name":"A","email":"other@x.com"},{"id":"u2","name":"B","email":"b@x.com"}]}`))
	})
	defer closeServer()

	id, ok := resolver.ResolveUser(context.Background(), "b@x.com")
	if !ok || id != "u2" {
		t.Errorf("ResolveUser = %q, %v; want u2, true", id, ok)
	}
}

func TestResolveUserNoMatch(t *testing.T) {
	resolver, closeServer := newResolverAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})
	defer closeServer()

	if id, ok := resolver.ResolveUser(context.Background(), "nobody@x.com"); ok || id != "" {
		t.Errorf("ResolveUser = %q, %v; want empty, false", id, ok)
	}
}

func TestResolveUserEmptyEmailSkipsLookup(t *testing.T) {
	called := false
	resolver, closeServer := newResolverAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"data":[]}`))
	})
	defer closeServer()

	if _, ok := resolver.ResolveUser(context.Background(), ""); ok {
		t.Error("Expected no resolution for an empty email")
	}
	if called {
		t.Error("Expected no remote call for an empty email")
	}
}

func TestResolveStageSwallowsLookupFailure(t *testing.T) {
	resolver, closeServer := newResolverAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer closeServer()

	if id, ok := resolver.ResolveStage(context.Background(), "Phone Screen"); ok || id != "" {
		t.Errorf("ResolveStage = %q, %v; want empty, false on lookup failure", id, ok)
	}
}

func TestResolveArchiveReasonMatchesByText(t *testing.T) {
	resolver, closeServer := newResolverAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"ar1","text":"Hired"},{"id":"ar2","text":"Withdrew"}]}`))
	})
	defer closeServer()

	id, ok := resolver.ResolveArchiveReason(context.Background(), "Withdrew")
	if !ok || id != "ar2" {
		t.Errorf("ResolveArchiveReason = %q, %v; want ar2, true", id, ok)
	}
}
