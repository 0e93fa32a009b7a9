package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/book-api/internal/config"
)

// envFile is the dotenv file loaded before the configuration is read.
var envFile string

// rootCmd runs the API server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "bookapi",
	Short: "Book catalog API with JWT authentication",
	Long: `bookapi serves the book and category catalog over HTTP.

Users register and log in to obtain an access token and a refresh token;
book endpoints require a valid access token, writes require the Admin role.
Configuration is read from the environment, optionally preloaded from a
dotenv file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
