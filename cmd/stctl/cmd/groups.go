package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func groupsCmd() *cobra.Command {
	groupsRoot := &cobra.Command{
		Use:   "groups",
		Short: "Manage subscriber groups",
	}

	groupsRoot.AddCommand(&cobra.Command{
		Use:   "clear <group-id>",
		Short: "Remove every subscription held by a group",
		Long: "Remove every subscription held by a group, for example after the bot\n" +
			"leaves a guild. Products nobody else follows stop being tracked.",
		Example: `  stctl groups clear 1234`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			n, err := c.ClearGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), map[string]int64{"removed": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d subscription(s) from group %s.\n", n, args[0])
			return nil
		},
	})

	groupsRoot.AddCommand(&cobra.Command{
		Use:   "threshold <group-id> [percent]",
		Short: "Show or set a group's default discount threshold",
		Long: "Show or set the minimum discount announced for a group's subscriptions\n" +
			"that set no threshold of their own. 0 announces every sale.",
		Example: `  stctl groups threshold 1234
  stctl groups threshold 1234 30`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			group := args[0]

			if len(args) == 2 {
				pct, err := strconv.Atoi(args[1])
				if err != nil || pct < 0 || pct > 99 {
					return fmt.Errorf("percent must be a number between 0 and 99, got %q", args[1])
				}
				if err := c.SetGroupThreshold(cmd.Context(), group, pct); err != nil {
					return err
				}
			}

			pct, err := c.GroupThreshold(cmd.Context(), group)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"group_id": group, "min_discount": pct})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %s threshold: %s\n", group, minDiscount(pct))
			return nil
		},
	})

	return groupsRoot
}
