package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	apiKey     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "driveflix",
	Short: "CLI client for the driveflix streaming server",
	Long: `driveflix - CLI client for the driveflix streaming server

Browse the catalog, trigger syncs against the remote store,
and check how filenames will be interpreted.

Run 'driveflixd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "Server URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("DRIVEFLIX_API_KEY"), "API key for sync endpoints")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("driveflix {{.Version}}\n")
}
