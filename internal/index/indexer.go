package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwiater/ragmark/internal/chunker"
	"github.com/mwiater/ragmark/internal/corpus"
	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/logging"
	"github.com/mwiater/ragmark/internal/segment"
)

// Build chunks every section of every corpus document and writes the
// embedded chunks to a JSONL index at outPath. Chunk boundaries come from
// the semantic chunker, so the index granularity matches what the evaluated
// pipeline would retrieve.
func Build(ctx context.Context, docs []corpus.Document, embedder embed.Embedder, opts chunker.Options, outPath string) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents to index")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)

	start := time.Now()
	totalChunks := 0
	for _, doc := range docs {
		docStart := time.Now()
		docChunks := 0
		for _, section := range doc.Sections {
			chunks, err := chunker.Chunk(ctx, section.Text, embedder, opts)
			if err != nil {
				return fmt.Errorf("chunk %s section %d: %w", doc.Name, section.ID, err)
			}
			for seq, text := range chunks {
				vector, err := embedder.Embed(ctx, text)
				if err != nil {
					return fmt.Errorf("embed %s section %d chunk %d: %w", doc.Name, section.ID, seq, err)
				}
				entry := Entry{
					ChunkID:    fmt.Sprintf("%s:%d:%d", doc.Name, section.ID, seq),
					Doc:        doc.Name,
					Section:    section.ID,
					Seq:        seq,
					Text:       text,
					Embedding:  vector,
					TokenCount: segment.TokenCount(text),
				}
				if err := encoder.Encode(entry); err != nil {
					return fmt.Errorf("write index entry: %w", err)
				}
			}
			docChunks += len(chunks)
		}
		totalChunks += docChunks
		logging.LogEvent("[INDEX] %s: %d sections, %d chunks in %s", doc.Name, len(doc.Sections), docChunks, time.Since(docStart).Truncate(time.Millisecond))
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}

	logging.LogEvent("[INDEX] Wrote %d chunks from %d documents to %s in %s", totalChunks, len(docs), outPath, time.Since(start).Truncate(time.Millisecond))
	return nil
}
