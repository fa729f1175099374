package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := newStoreEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := db.Migrate(ctx, env.pool); err != nil {
			return err
		}
		zap.L().Info("schema migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
