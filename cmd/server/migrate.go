package main

import (
	"fmt"

	"contacts_api/internal/config"
	"contacts_api/internal/logger"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending database migrations and exit.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Server.Environment); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	pool, err := config.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := config.Migrate(ctx, pool); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
