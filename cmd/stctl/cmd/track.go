package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

func trackCmd() *cobra.Command {
	trackRoot := &cobra.Command{
		Use:   "track",
		Short: "Manage the products a channel follows",
		Long: "Follow and unfollow Steam products for a channel. Every subcommand\n" +
			"needs --group and --channel (or STCTL_GROUP and STCTL_CHANNEL).",
	}

	trackRoot.AddCommand(
		trackAddCmd(),
		trackRemoveCmd(),
		trackListCmd(),
	)

	return trackRoot
}

func trackAddCmd() *cobra.Command {
	var discount int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Follow a product",
		Long: "Subscribe the channel to a Steam product. The product is verified\n" +
			"against the store the first time anyone follows it. Following a\n" +
			"product twice updates the minimum discount.",
		Example: `  stctl track add 620 --group 1234 --channel 5678
  stctl track add 1145360 --min-discount 50 --group 1234 --channel 5678`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := destination()
			if err != nil {
				return err
			}
			c := newClient()
			item, err := c.AddTracking(cmd.Context(), domain.ProductID(args[0]), dest, discount)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s), min discount %s.\n",
				item.Product.Name, item.Product.ID, minDiscount(item.MinDiscount))
			return nil
		},
	}
	cmd.Flags().IntVar(&discount, "min-discount", 0, "only announce sales at or above this percentage")

	return cmd
}

func trackRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Stop following a product",
		Example: `  stctl track remove 620 --group 1234 --channel 5678`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := destination()
			if err != nil {
				return err
			}
			c := newClient()
			if err := c.RemoveTracking(cmd.Context(), domain.ProductID(args[0]), dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped tracking %s.\n", args[0])
			return nil
		},
	}
}

func trackListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the products a channel follows",
		Example: `  stctl track list --group 1234 --channel 5678
  stctl track list --group 1234 --channel 5678 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := destination()
			if err != nil {
				return err
			}
			c := newClient()
			items, err := c.ListTracking(cmd.Context(), dest)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracked products.")
				return nil
			}
			return printTrackingTable(cmd.OutOrStdout(), items)
		},
	}
}
