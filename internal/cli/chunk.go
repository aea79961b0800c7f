package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mwiater/ragmark/internal/chunker"
	"github.com/mwiater/ragmark/internal/corpus"
	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/logging"
	"github.com/mwiater/ragmark/internal/segment"
	"github.com/mwiater/ragmark/internal/util"
)

// chunkCmd chunks a single document and prints the boundaries, for tuning
// the similarity threshold and token budgets.
var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Show semantic chunk boundaries for one document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		provider, err := cfg.Provider()
		if err != nil {
			return err
		}
		embedder, err := embed.New(provider, cfg.RequestTimeout())
		if err != nil {
			return err
		}

		doc, err := corpus.LoadDocument(args[0])
		if err != nil {
			return err
		}

		opts := cfg.Chunking
		logging.LogEvent("[CHUNK] %s: %d sections, threshold=%.2f tokens=[%d,%d]",
			doc.Name, len(doc.Sections), opts.SimilarityThreshold, opts.MinTokens, opts.MaxTokens)

		for _, section := range doc.Sections {
			chunks, err := chunker.Chunk(context.Background(), section.Text, embedder, opts)
			if err != nil {
				return err
			}
			for seq, text := range chunks {
				logging.LogEvent("[CHUNK] section=%d seq=%d tokens=%d", section.ID, seq, segment.TokenCount(text))
				logging.LogEvent("[CHUNK]   %s", util.TruncateRunes(text, 160))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}
