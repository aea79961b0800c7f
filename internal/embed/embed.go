// Package embed provides embedding providers for the chunking and retrieval
// pipeline. Providers form a closed set selected by name at startup; an
// unknown provider name is a configuration error, not a runtime dispatch
// miss.
package embed

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Embedder maps text to a fixed-dimension embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Provider names, the closed set of supported backends.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// ProviderConfig describes one embedding backend.
type ProviderConfig struct {
	Name       string `json:"name"`
	Model      string `json:"model"`
	URL        string `json:"url,omitempty"`
	APIKey     string `json:"apiKey,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// New constructs the embedder for the named provider. The name must be one
// of the enumerated providers.
func New(cfg ProviderConfig, timeout time.Duration) (Embedder, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("embedding model is required for provider %q", cfg.Name)
	}
	switch cfg.Name {
	case ProviderOllama:
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, fmt.Errorf("url is required for the %s provider", ProviderOllama)
		}
		return newOllamaEmbedder(cfg, timeout), nil
	case ProviderOpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("apiKey is required for the %s provider", ProviderOpenAI)
		}
		return newOpenAIEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (supported: %s, %s)", cfg.Name, ProviderOllama, ProviderOpenAI)
	}
}

// checkDimensions verifies a returned vector against the configured
// dimensionality, when one is configured.
func checkDimensions(cfg ProviderConfig, vector []float64) error {
	if cfg.Dimensions > 0 && len(vector) != cfg.Dimensions {
		return fmt.Errorf("provider %s returned a %d-dimension vector, expected %d", cfg.Name, len(vector), cfg.Dimensions)
	}
	return nil
}
