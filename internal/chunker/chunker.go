// Package chunker splits document text into retrieval-sized chunks using
// sentence-level embedding similarity and token budgets.
package chunker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/mwiater/ragmark/internal/segment"
)

// ErrDimensionMismatch reports embedding vectors of inconsistent length
// within a single chunking call.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder maps text to a fixed-dimension embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Options controls chunk boundary decisions.
type Options struct {
	// SimilarityThreshold is the cosine similarity below which adjacent
	// sentences are considered a topic break. Range [0,1].
	SimilarityThreshold float64 `json:"similarityThreshold"`
	// MaxTokens is the hard ceiling on a chunk's token count. A single
	// sentence longer than MaxTokens still becomes one chunk; sentences are
	// never split.
	MaxTokens int `json:"maxTokens"`
	// MinTokens suppresses splits while the chunk in progress is still
	// below this size, regardless of similarity.
	MinTokens int `json:"minTokens"`
}

// DefaultOptions returns the chunking defaults used across the harness.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: 0.65,
		MaxTokens:           500,
		MinTokens:           100,
	}
}

// Validate checks option ranges. It runs before any embedding request is
// issued, so an invalid configuration never partially executes.
func (o Options) Validate() error {
	if o.SimilarityThreshold < 0 || o.SimilarityThreshold > 1 {
		return fmt.Errorf("similarityThreshold must be within [0,1], got %v", o.SimilarityThreshold)
	}
	if o.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be greater than zero, got %d", o.MaxTokens)
	}
	if o.MinTokens <= 0 {
		return fmt.Errorf("minTokens must be greater than zero, got %d", o.MinTokens)
	}
	if o.MinTokens > o.MaxTokens {
		return fmt.Errorf("minTokens (%d) must not exceed maxTokens (%d)", o.MinTokens, o.MaxTokens)
	}
	return nil
}

type sentence struct {
	text      string
	tokens    int
	embedding []float64
}

// Chunk splits text into chunks of adjacent, semantically similar sentences.
// A chunk boundary is introduced where cosine similarity between neighboring
// sentences drops below the threshold, or where the token budget would be
// exceeded, but never while the chunk in progress is below MinTokens. The
// returned chunks partition the sentence sequence in original order.
func Chunk(ctx context.Context, text string, embedder Embedder, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts := segment.Sentences(text)
	if len(parts) == 0 {
		return []string{text}, nil
	}

	sentences, err := embedSentences(ctx, embedder, parts)
	if err != nil {
		return nil, err
	}

	var chunks []string
	var buffer []string
	currentTokens := 0

	flush := func() {
		chunks = append(chunks, strings.Join(buffer, " "))
		buffer = buffer[:0]
	}

	for i, s := range sentences {
		if len(buffer) == 0 {
			buffer = append(buffer, s.text)
			currentTokens = s.tokens
			continue
		}

		similarity := cosineSimilarity(sentences[i-1].embedding, s.embedding)
		shouldSplit := similarity < opts.SimilarityThreshold || currentTokens+s.tokens > opts.MaxTokens

		if shouldSplit && currentTokens >= opts.MinTokens {
			flush()
			buffer = append(buffer, s.text)
			currentTokens = s.tokens
			continue
		}

		buffer = append(buffer, s.text)
		currentTokens += s.tokens
	}
	if len(buffer) > 0 {
		flush()
	}

	return chunks, nil
}

// embedSentences embeds every sentence concurrently while preserving
// sentence order in the result. The first embedding failure aborts the call;
// a dimensionality disagreement between any two vectors is reported as
// ErrDimensionMismatch.
func embedSentences(ctx context.Context, embedder Embedder, parts []string) ([]sentence, error) {
	sentences := make([]sentence, len(parts))
	errs := make([]error, len(parts))

	var wg sync.WaitGroup
	for i, text := range parts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			vector, err := embedder.Embed(ctx, text)
			if err != nil {
				errs[i] = fmt.Errorf("embed sentence %d: %w", i, err)
				return
			}
			sentences[i] = sentence{
				text:      text,
				tokens:    segment.TokenCount(text),
				embedding: vector,
			}
		}(i, text)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	dim := len(sentences[0].embedding)
	for i, s := range sentences {
		if len(s.embedding) != dim {
			return nil, fmt.Errorf("sentence %d has dimension %d, expected %d: %w", i, len(s.embedding), dim, ErrDimensionMismatch)
		}
	}

	return sentences, nil
}

// cosineSimilarity returns dot(a,b)/(|a|*|b|), or 0 when either vector has
// zero norm.
func cosineSimilarity(a, b []float64) float64 {
	normA := vectorNorm(a)
	if normA == 0 {
		return 0
	}
	normB := vectorNorm(b)
	if normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}
