// Package cmd implements the stctl CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/sale-tracker/internal/api/client"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "stctl",
		Short: "CLI client for Sale Tracker",
		Long: "stctl is a command-line client for the Sale Tracker API.\n" +
			"It lets you follow Steam products from a channel, inspect what the\n" +
			"scheduler is doing, and trigger checks from the terminal.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.stctl.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("group", "", "group (guild) id used by tracking commands")
	rootCmd.PersistentFlags().
		String("channel", "", "channel id used by tracking commands")

	for _, name := range []string{"server", "output", "group", "channel"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(trackCmd())
	rootCmd.AddCommand(groupsCmd())
	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(failuresCmd())
	rootCmd.AddCommand(quotaCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stctl")
	}

	viper.SetEnvPrefix("STCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// destination resolves the --group and --channel flags.
func destination() (domain.Destination, error) {
	dest := domain.Destination{
		GroupID:   viper.GetString("group"),
		ChannelID: viper.GetString("channel"),
	}
	if dest.GroupID == "" || dest.ChannelID == "" {
		return dest, fmt.Errorf("--group and --channel are required")
	}
	return dest, nil
}
