package logs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lectern/internal/logs"
	"lectern/internal/services"
)

func TestClientFetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/logs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(logs.Result{Lines: []string{"hello"}, Offset: 42})
	}))
	defer server.Close()

	client, err := logs.NewClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Fetch(context.Background(), logs.Query{Offset: -1, Limit: 20, Follow: true})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(result.Lines) != 1 || result.Lines[0] != "hello" || result.Offset != 42 {
		t.Fatalf("unexpected result: %#v", result)
	}
	for _, want := range []string{"offset=-1", "limit=20", "follow=1"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestClientFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := logs.NewClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Fetch(context.Background(), logs.Query{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestNilClientIsUnavailable(t *testing.T) {
	client, err := logs.NewClient("")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client for empty bind")
	}
	_, err = client.Fetch(context.Background(), logs.Query{})
	if !logs.IsAPIUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestIsAPIUnavailableConnectionRefused(t *testing.T) {
	client, err := logs.NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Fetch(context.Background(), logs.Query{})
	if !logs.IsAPIUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
