// Package admin implements the simsd commands.
package admin

import (
	"github.com/cloo-solutions/simsearch/internal/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd returns the simsd root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simsd",
		Short:         "SIMS search daemon and CLI",
		Long:          "SIMS federated search daemon for running the API server and inspecting search data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(SearchCmd())
	rootCmd.AddCommand(HistoryCmd())
	rootCmd.AddCommand(SuggestionsCmd())

	return rootCmd
}
