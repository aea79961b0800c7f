package cli

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// showCmd groups inspection subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect ragmark state",
}

// showConfigCmd dumps the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the loaded configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := pp.Println(GetConfig())
		return err
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
