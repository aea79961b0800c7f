package embed

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openaiEmbedder struct {
	cfg    ProviderConfig
	client *openai.Client
}

func newOpenAIEmbedder(cfg ProviderConfig) *openaiEmbedder {
	if strings.TrimSpace(cfg.URL) != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		clientCfg.BaseURL = cfg.URL
		return &openaiEmbedder{cfg: cfg, client: openai.NewClientWithConfig(clientCfg)}
	}
	return &openaiEmbedder{cfg: cfg, client: openai.NewClient(cfg.APIKey)}
}

// Embed requests an embedding vector from the OpenAI embeddings API.
func (e *openaiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.cfg.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response returned empty vector")
	}

	vector := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float64(v)
	}
	if err := checkDimensions(e.cfg, vector); err != nil {
		return nil, err
	}

	return vector, nil
}
