package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the task store schema",
	Long:  "Creates the tasks table (SQL backends) or indexes (MongoDB) and exits",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()

		store, err := config.NewStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		if err := store.Migrate(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s store migrated\n", config.DetectBackend(cfg.DatabaseDSN))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
