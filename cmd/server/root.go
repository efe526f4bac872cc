package main

import (
	"github.com/spf13/cobra"
)

// envFile is the dotenv file read before the environment
var envFile string

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "contacts-api",
		Short:        "Contacts REST API",
		Long:         `Contacts REST API with JWT authentication, email confirmation and per user contact books.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
