package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/ragmark/internal/report"
	"github.com/mwiater/ragmark/internal/runner"
	"github.com/mwiater/ragmark/internal/tui"
)

var evaluatePlain bool

// evaluateCmd runs the benchmark suite against the built index.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the query suite against the index and score retrieval quality",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := context.Background()

		var result *runner.Report
		var err error
		if evaluatePlain {
			result, err = runner.Run(ctx, cfg, nil)
		} else {
			result, err = tui.RunWithProgress(ctx, cfg)
		}
		if err != nil {
			return err
		}

		report.Render(os.Stdout, result)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluatePlain, "plain", false, "disable the progress view and log plainly")
	rootCmd.AddCommand(evaluateCmd)
}
