package admin

import (
	"fmt"

	"github.com/cloo-solutions/simsearch/internal/config"
	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply the embedded migrations for the configured database driver and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			SetupLogging(cfg.Debug)

			b, err := openBackend(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			b.close()

			fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", cfg.DatabaseDriver)
			return nil
		},
	}
}
