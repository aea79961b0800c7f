package chunker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

// vectorEmbedder returns canned vectors keyed by sentence text.
type vectorEmbedder struct {
	vectors map[string][]float64
	calls   atomic.Int64
}

func (e *vectorEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls.Add(1)
	vector, ok := e.vectors[text]
	if !ok {
		return []float64{1, 0}, nil
	}
	return vector, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("embedding backend unavailable")
}

func opts(threshold float64, maxTokens, minTokens int) Options {
	return Options{SimilarityThreshold: threshold, MaxTokens: maxTokens, MinTokens: minTokens}
}

func TestChunkSplitsOnSimilarityDrop(t *testing.T) {
	// Two topic groups: orthogonal vectors across the boundary.
	embedder := &vectorEmbedder{vectors: map[string][]float64{
		"Dogs bark loudly at night.":   {1, 0},
		"Puppies bark even more.":      {1, 0},
		"Compilers emit machine code.": {0, 1},
		"Linkers resolve symbols.":     {0, 1},
	}}
	text := "Dogs bark loudly at night. Puppies bark even more. Compilers emit machine code. Linkers resolve symbols."

	chunks, err := Chunk(context.Background(), text, embedder, opts(0.5, 100, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "Dogs bark loudly at night. Puppies bark even more." {
		t.Fatalf("unexpected first chunk: %q", chunks[0])
	}
	if chunks[1] != "Compilers emit machine code. Linkers resolve symbols." {
		t.Fatalf("unexpected second chunk: %q", chunks[1])
	}
}

func TestChunkPartitionPreservesSentences(t *testing.T) {
	embedder := &vectorEmbedder{vectors: map[string][]float64{
		"Alpha one.":   {1, 0},
		"Beta two.":    {0, 1},
		"Gamma three.": {1, 0},
		"Delta four.":  {0, 1},
		"Echo five.":   {1, 1},
	}}
	text := "Alpha one. Beta two. Gamma three. Delta four. Echo five."

	chunks, err := Chunk(context.Background(), text, embedder, opts(0.9, 4, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(chunks, " ")
	if joined != text {
		t.Fatalf("chunks do not partition the input:\n got %q\nwant %q", joined, text)
	}
}

func TestChunkHoldsBufferBelowMinTokens(t *testing.T) {
	// Every boundary is a similarity break, but minTokens is larger than the
	// whole input, so nothing may split.
	embedder := &vectorEmbedder{vectors: map[string][]float64{
		"One two three.": {1, 0},
		"Four five six.": {0, 1},
		"Seven eight.":   {1, 0},
	}}
	text := "One two three. Four five six. Seven eight."

	chunks, err := Chunk(context.Background(), text, embedder, opts(0.99, 500, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
}

func TestChunkEnforcesMaxTokens(t *testing.T) {
	// All sentences identical direction: only the token ceiling can split.
	embedder := &vectorEmbedder{vectors: map[string][]float64{}}
	text := "a b c d e f. g h i j k l. m n o p q r. s t u v w x."

	chunks, err := Chunk(context.Background(), text, embedder, opts(0.1, 12, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	for _, c := range chunks {
		if n := len(strings.Fields(c)); n > 12 {
			t.Fatalf("chunk exceeds token ceiling: %d tokens in %q", n, c)
		}
	}
}

func TestChunkNeverSplitsOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 30)
	text := strings.TrimSpace(long) + ". Short tail."
	embedder := &vectorEmbedder{vectors: map[string][]float64{}}

	chunks, err := Chunk(context.Background(), text, embedder, opts(0.1, 10, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if n := len(strings.Fields(chunks[0])); n != 30 {
		t.Fatalf("oversized sentence must stay whole, got %d tokens", n)
	}
}

func TestChunkZeroNormVectorForcesSplitOpportunity(t *testing.T) {
	embedder := &vectorEmbedder{vectors: map[string][]float64{
		"First sentence here.":  {1, 0},
		"Second sentence here.": {0, 0},
	}}
	text := "First sentence here. Second sentence here."

	chunks, err := Chunk(context.Background(), text, embedder, opts(0.5, 100, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected zero-norm vector to split, got %d chunks: %v", len(chunks), chunks)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	embedder := &vectorEmbedder{}
	chunks, err := Chunk(context.Background(), "   \n ", embedder, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace input, got %v", chunks)
	}
	if e := embedder.calls.Load(); e != 0 {
		t.Fatalf("expected no embedding calls for whitespace input, got %d", e)
	}
}

func TestChunkInvalidOptionsBeforeEmbedding(t *testing.T) {
	embedder := &vectorEmbedder{}
	_, err := Chunk(context.Background(), "Some text here.", embedder, opts(0.5, 100, 200))
	if err == nil {
		t.Fatal("expected configuration error when minTokens > maxTokens")
	}
	if e := embedder.calls.Load(); e != 0 {
		t.Fatalf("configuration errors must precede embedding calls, got %d calls", e)
	}
}

func TestChunkPropagatesEmbedderFailure(t *testing.T) {
	_, err := Chunk(context.Background(), "One. Two.", failingEmbedder{}, DefaultOptions())
	if err == nil {
		t.Fatal("expected embedder failure to propagate")
	}
}

func TestChunkDimensionMismatch(t *testing.T) {
	embedder := &vectorEmbedder{vectors: map[string][]float64{
		"First one.":  {1, 0},
		"Second one.": {1, 0, 0},
	}}
	chunks, err := Chunk(context.Background(), "First one. Second one.", embedder, opts(0.5, 100, 1))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if chunks != nil {
		t.Fatalf("expected no partial chunks on dimension mismatch, got %v", chunks)
	}
}
