package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/scorer"
)

// Searcher answers queries against an in-memory copy of the JSONL index.
type Searcher struct {
	entries  []Entry
	embedder embed.Embedder
}

// NewSearcher wraps already-loaded entries, mainly for tests and in-process
// pipelines.
func NewSearcher(entries []Entry, embedder embed.Embedder) (*Searcher, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("index contains no entries")
	}
	return &Searcher{entries: entries, embedder: embedder}, nil
}

// Open loads a JSONL index from disk.
func Open(path string, embedder embed.Embedder) (*Searcher, error) {
	entries, err := load(path)
	if err != nil {
		return nil, err
	}
	return NewSearcher(entries, embedder)
}

// Len returns the number of indexed chunks.
func (s *Searcher) Len() int {
	return len(s.entries)
}

// Search embeds the query and returns the top-k entries by cosine
// similarity as ranked retrieval results. Entries whose stored embedding
// does not match the query's dimensionality are skipped.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]scorer.RetrievedItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("search limit must be greater than zero, got %d", limit)
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		entry Entry
		score float64
	}
	queryNorm := vectorNorm(queryVec)
	candidates := make([]scored, 0, len(s.entries))
	for _, entry := range s.entries {
		if len(entry.Embedding) != len(queryVec) {
			continue
		}
		candidates = append(candidates, scored{
			entry: entry,
			score: cosineSimilarity(queryVec, entry.Embedding, queryNorm),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if limit > len(candidates) {
		limit = len(candidates)
	}

	results := make([]scorer.RetrievedItem, 0, limit)
	for rank, c := range candidates[:limit] {
		results = append(results, scorer.RetrievedItem{
			Rank:      rank,
			Score:     c.score,
			DocID:     c.entry.Doc,
			SectionID: c.entry.Section,
			Text:      c.entry.Text,
		})
	}
	return results, nil
}

func load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("parse index line %d: %w", lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	return entries, nil
}

func cosineSimilarity(a, b []float64, normA float64) float64 {
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
