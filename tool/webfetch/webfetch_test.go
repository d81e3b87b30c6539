package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchTool_Name(t *testing.T) {
	if got := NewFetchTool().Name(); got != "web_fetch" {
		t.Errorf("Name() = %q, want web_fetch", got)
	}
}

func TestFetchTool_ConvertsHTMLToMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<h1>Hello</h1><p>World</p>"))
	}))
	defer server.Close()

	out, err := NewFetchTool().Call(context.Background(), map[string]any{"url": server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md, _ := out["markdown"].(string)
	if !strings.Contains(md, "Hello") || !strings.Contains(md, "World") {
		t.Errorf("markdown = %q, want it to contain Hello and World", md)
	}
}

func TestFetchTool_MissingURL(t *testing.T) {
	_, err := NewFetchTool().Call(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestFetchTool_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetchTool().Call(context.Background(), map[string]any{"url": server.URL})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
