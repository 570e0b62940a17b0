// Package cmd implements the CLI commands for sale-tracker.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sale-tracker",
	Short: "Track Steam store prices and announce sales",
	Long: "A service that polls the Steam storefront for tracked products, detects sales, " +
		"price drops and releases, and notifies the Discord channels that follow them.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(openapiCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
