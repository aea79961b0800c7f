package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/index"
	"github.com/mwiater/ragmark/internal/logging"
	"github.com/mwiater/ragmark/internal/util"
)

// previewCmd runs one ad-hoc query against the index and prints the ranked
// results, for eyeballing retrieval quality before a full run.
var previewCmd = &cobra.Command{
	Use:   "preview [query]",
	Short: "Preview ranked retrieval results for an ad-hoc query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("query is required")
		}

		provider, err := cfg.Provider()
		if err != nil {
			return err
		}
		embedder, err := embed.New(provider, cfg.RequestTimeout())
		if err != nil {
			return err
		}
		searcher, err := index.Open(cfg.IndexPath, embedder)
		if err != nil {
			return err
		}

		logging.LogEvent("[PREVIEW] query: %s", query)
		logging.LogEvent("[PREVIEW] index: %s (%d chunks), topK: %d", cfg.IndexPath, searcher.Len(), cfg.TopKLimit())

		results, err := searcher.Search(context.Background(), query, cfg.TopKLimit())
		if err != nil {
			return err
		}
		for _, item := range results {
			logging.LogEvent("[PREVIEW] rank=%d score=%.6f doc=%s section=%d", item.Rank, item.Score, item.DocID, item.SectionID)
			logging.LogEvent("[PREVIEW]   %s", util.TruncateRunes(item.Text, 160))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
