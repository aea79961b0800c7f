package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(ProviderConfig{Name: "cohere", Model: "embed-v3"}, time.Second)
	if err == nil {
		t.Fatal("expected error for unknown provider name")
	}
	if !strings.Contains(err.Error(), "unknown embedding provider") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRequiresModel(t *testing.T) {
	_, err := New(ProviderConfig{Name: ProviderOllama, URL: "http://localhost:11434"}, time.Second)
	if err == nil {
		t.Fatal("expected error when model is missing")
	}
}

func TestNewRequiresOllamaURL(t *testing.T) {
	_, err := New(ProviderConfig{Name: ProviderOllama, Model: "nomic-embed-text"}, time.Second)
	if err == nil {
		t.Fatal("expected error when ollama url is missing")
	}
}

func TestOllamaEmbedderParsesVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["model"] != "nomic-embed-text" {
			t.Fatalf("unexpected model %v", payload["model"])
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	embedder, err := New(ProviderConfig{
		Name:  ProviderOllama,
		Model: "nomic-embed-text",
		URL:   server.URL,
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vector, err := embedder.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector) != 3 || vector[1] != 0.2 {
		t.Fatalf("unexpected vector: %v", vector)
	}
}

func TestOllamaEmbedderChecksDimensions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2}})
	}))
	defer server.Close()

	embedder, err := New(ProviderConfig{
		Name:       ProviderOllama,
		Model:      "nomic-embed-text",
		URL:        server.URL,
		Dimensions: 768,
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := embedder.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected dimension check to fail")
	}
}

func TestOllamaEmbedderSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	embedder, err := New(ProviderConfig{
		Name:  ProviderOllama,
		Model: "missing-model",
		URL:   server.URL,
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = embedder.Embed(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected backend error to surface, got %v", err)
	}
}
