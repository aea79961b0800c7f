package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/ragmark/internal/corpus"
	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/index"
	"github.com/mwiater/ragmark/internal/logging"
)

// indexCmd builds the JSONL vector index from the configured corpus.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.CorpusPath == "" {
			return fmt.Errorf("corpusPath is required")
		}
		if cfg.IndexPath == "" {
			return fmt.Errorf("indexPath is required")
		}

		provider, err := cfg.Provider()
		if err != nil {
			return err
		}
		embedder, err := embed.New(provider, cfg.RequestTimeout())
		if err != nil {
			return err
		}

		docs, err := corpus.LoadAll(cfg.CorpusPath, cfg.AllowedExtensions, cfg.ExcludeGlobs)
		if err != nil {
			return err
		}
		logging.LogEvent("[INDEX] Indexing %d documents from %s with %s/%s", len(docs), cfg.CorpusPath, provider.Name, provider.Model)

		return index.Build(context.Background(), docs, embedder, cfg.Chunking, cfg.IndexPath)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
